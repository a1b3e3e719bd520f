package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

const updateCheckTimeout = 5 * time.Second

// copyToClipboard copies the visible results as markdown
func (m *Model) copyToClipboard() tea.Cmd {
	if m.panes.empty() {
		return m.setErrorMessage("Nothing to copy")
	}

	text := strings.TrimSpace(m.panes.content())
	if err := m.clipboardWrite(text); err != nil {
		return m.setErrorMessage(fmt.Sprintf("Failed to copy to clipboard: %v", err))
	}
	return m.setStatusMessage("Results copied to clipboard")
}

// checkForUpdate asks the release endpoint for a newer version. Failures are
// only logged: the notice is informational.
func (m *Model) checkForUpdate() tea.Cmd {
	if m.checker == nil {
		return nil
	}
	checker, current, logger := m.checker, m.version, m.logger
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), updateCheckTimeout)
		defer cancel()

		update, err := checker.CheckForUpdate(ctx, current)
		if err != nil {
			logger.Debug("update check failed", zap.Error(err))
			return updateCheckedMsg{}
		}
		return updateCheckedMsg{update: update}
	}
}

// loadAnalytics reads the per-query statistics
func (m *Model) loadAnalytics() tea.Cmd {
	manager := m.analyticsManager
	if manager == nil {
		return nil
	}
	return func() tea.Msg {
		stats, err := manager.GetStatsPerQuery()
		return analyticsLoadedMsg{stats: stats, err: err}
	}
}

// clearAnalytics deletes every recorded lookup
func (m *Model) clearAnalytics() tea.Cmd {
	manager := m.analyticsManager
	if manager == nil {
		return nil
	}
	return func() tea.Msg {
		return analyticsClearedMsg{err: manager.Clear()}
	}
}

// updateNotice is the footer text shown when a newer release exists
func (m *Model) updateNotice() string {
	if !m.updateAvailable {
		return ""
	}
	return fmt.Sprintf("Update available: v%s → v%s", strings.TrimPrefix(m.version, "v"), m.latestVersion)
}

