package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/countrysearch/internal/keybinds"
)

// keyContext maps the mode to its keybinding context
func (m *Model) keyContext() keybinds.Context {
	switch m.mode {
	case ModeHelp:
		return keybinds.ContextHelp
	case ModeAnalytics:
		return keybinds.ContextAnalytics
	case ModeAnalyticsClearConfirm:
		return keybinds.ContextConfirm
	}
	return keybinds.ContextSearch
}

// handleKeyPress routes key presses by mode
func (m *Model) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	action, ok := m.keys.Match(m.keyContext(), msg.String())

	// Global keys
	if ok && action == keybinds.ActionQuitForce {
		return tea.Quit
	}

	switch m.mode {
	case ModeHelp:
		return m.handleHelpKeys(action)
	case ModeAnalytics:
		return m.handleAnalyticsKeys(msg, action)
	case ModeAnalyticsClearConfirm:
		return m.handleAnalyticsClearConfirmKeys(action)
	}

	return m.handleSearchKeys(msg, action)
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg, action keybinds.Action) tea.Cmd {
	switch action {
	case keybinds.ActionQuit:
		return tea.Quit

	case keybinds.ActionToggleHelp:
		m.mode = ModeHelp
		return nil

	case keybinds.ActionOpenAnalytics:
		if m.analyticsManager == nil {
			return m.setErrorMessage("Statistics are disabled (set analytics: true in config.yaml)")
		}
		m.mode = ModeAnalytics
		return m.loadAnalytics()

	case keybinds.ActionCopyResults:
		return m.copyToClipboard()

	case keybinds.ActionDismissToast:
		if toast, ok := m.toasts.Current(); ok {
			m.toasts.Dismiss(toast.ID)
		}
		return nil

	case keybinds.ActionScrollUp:
		m.results.ScrollUp(1)
		return nil
	case keybinds.ActionScrollDown:
		m.results.ScrollDown(1)
		return nil
	case keybinds.ActionPageUp:
		m.results.PageUp()
		return nil
	case keybinds.ActionPageDown:
		m.results.PageDown()
		return nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return tea.Batch(cmd, m.inputChanged())
}

func (m *Model) handleHelpKeys(action keybinds.Action) tea.Cmd {
	switch action {
	case keybinds.ActionCloseModal, keybinds.ActionToggleHelp:
		m.mode = ModeNormal
	case keybinds.ActionQuit:
		return tea.Quit
	}
	return nil
}

func (m *Model) handleAnalyticsKeys(msg tea.KeyMsg, action keybinds.Action) tea.Cmd {
	switch action {
	case keybinds.ActionCloseModal, keybinds.ActionOpenAnalytics:
		m.mode = ModeNormal
		return nil
	case keybinds.ActionRefresh:
		return m.loadAnalytics()
	case keybinds.ActionClearStats:
		m.mode = ModeAnalyticsClearConfirm
		return nil
	case keybinds.ActionScrollUp:
		m.modalView.ScrollUp(1)
		return nil
	case keybinds.ActionScrollDown:
		m.modalView.ScrollDown(1)
		return nil
	case keybinds.ActionPageUp:
		m.modalView.PageUp()
		return nil
	case keybinds.ActionPageDown:
		m.modalView.PageDown()
		return nil
	}

	var cmd tea.Cmd
	m.modalView, cmd = m.modalView.Update(msg)
	return cmd
}

func (m *Model) handleAnalyticsClearConfirmKeys(action keybinds.Action) tea.Cmd {
	switch action {
	case keybinds.ActionConfirm:
		m.mode = ModeAnalytics
		return m.clearAnalytics()
	case keybinds.ActionCancel:
		m.mode = ModeAnalytics
	}
	return nil
}
