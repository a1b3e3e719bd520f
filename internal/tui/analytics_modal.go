package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/studiowebux/countrysearch/internal/keybinds"
)

// renderAnalytics renders the per-query statistics modal
func (m *Model) renderAnalytics() string {
	header := styleTitle.Render("Lookup statistics")
	footer := styleSubtle.Render(fmt.Sprintf("%s refresh • %s clear • %s close",
		m.keys.GetBindingString(keybinds.ContextAnalytics, keybinds.ActionRefresh),
		m.keys.GetBindingString(keybinds.ContextAnalytics, keybinds.ActionClearStats),
		m.keys.GetBindingString(keybinds.ContextAnalytics, keybinds.ActionCloseModal)))
	if m.mode == ModeAnalyticsClearConfirm {
		footer = styleWarning.Render("Delete all recorded lookups? (y/n)")
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorCyan).
		Padding(0, 1)
	if m.width > 0 {
		box = box.Width(max(m.width-ModalWidthMargin, MinContentWidth))
	}

	return box.Render(header + "\n\n" + m.modalView.View() + "\n\n" + footer)
}

// updateAnalyticsView fills the modal viewport with the loaded statistics
func (m *Model) updateAnalyticsView() {
	m.modalView.SetContent(m.formatStats())
}

// formatStats lays the statistics out as a fixed-width table
func (m *Model) formatStats() string {
	if len(m.stats) == 0 {
		return styleSubtle.Render("No lookups recorded yet")
	}

	queryWidth := 24
	var b strings.Builder
	fmt.Fprintf(&b, "%-*s %7s %7s %9s %9s  %s\n", queryWidth, "QUERY", "CALLS", "FAILED", "AVG MS", "MAX MS", "LAST")
	for _, s := range m.stats {
		fmt.Fprintf(&b, "%-*s %7d %7d %9.0f %9d  %s\n",
			queryWidth, truncate(s.Query, queryWidth),
			s.TotalCalls,
			s.FailedCount,
			s.AvgDurationMs,
			s.MaxDurationMs,
			s.LastCalled.Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(&b, "\n%s", styleSubtle.Render(plural(len(m.stats), "query", "queries")))
	return b.String()
}
