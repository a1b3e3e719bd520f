package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/studiowebux/countrysearch/internal/keybinds"
	"github.com/studiowebux/countrysearch/internal/lookup"
	"github.com/studiowebux/countrysearch/internal/notify"
)

// Adaptive color definitions for light/dark terminal support
var (
	colorGreen  = lipgloss.AdaptiveColor{Light: "#006400", Dark: "#00ff00"}
	colorRed    = lipgloss.AdaptiveColor{Light: "#8b0000", Dark: "#ff5555"}
	colorBlue   = lipgloss.AdaptiveColor{Light: "#00008b", Dark: "#5fafff"}
	colorYellow = lipgloss.AdaptiveColor{Light: "#b8860b", Dark: "#ffff00"}
	colorGray   = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "#008b8b", Dark: "#00ffff"}
)

// Style definitions
var (
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorGreen)

	styleError = lipgloss.NewStyle().
			Foreground(colorRed)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorYellow)

	styleSubtle = lipgloss.NewStyle().
			Foreground(colorGray)

	styleToastInfo = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(colorBlue).
			Padding(0, 1)

	styleToastFailure = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#ffffff")).
				Background(colorRed).
				Padding(0, 1)
)

// View renders the current mode
func (m *Model) View() string {
	switch m.mode {
	case ModeHelp:
		return m.renderHelp()
	case ModeAnalytics, ModeAnalyticsClearConfirm:
		return m.renderAnalytics()
	}
	return m.renderMain()
}

// renderMain renders the search field, the toast line, the results and the status bar
func (m *Model) renderMain() string {
	var b strings.Builder

	title := styleTitle.Render("Country search")
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.renderToast())
	b.WriteString("\n")

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorGray)
	if m.width > 0 {
		box = box.Width(max(m.width-ViewportBorderSize, MinContentWidth))
	}
	b.WriteString(box.Render(m.results.View()))
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())

	return b.String()
}

// renderToast renders the visible toast, or an empty line
func (m *Model) renderToast() string {
	toast, ok := m.toasts.Current()
	if !ok {
		return ""
	}
	if toast.Kind == notify.Failure {
		return styleToastFailure.Render(toast.Message)
	}
	return styleToastInfo.Render(toast.Message)
}

// renderStatusBar renders errors, status, activity and the update notice
func (m *Model) renderStatusBar() string {
	var left string
	switch {
	case m.errorMsg != "":
		left = styleError.Render(m.errorMsg)
	case m.statusMsg != "":
		left = styleSuccess.Render(m.statusMsg)
	case m.inFlight > 0:
		left = styleWarning.Render("Searching...")
	default:
		left = styleSubtle.Render(m.stateHint())
	}

	right := styleSubtle.Render(fmt.Sprintf("%s help • %s copy • %s quit",
		m.keys.GetBindingString(keybinds.ContextSearch, keybinds.ActionToggleHelp),
		m.keys.GetBindingString(keybinds.ContextSearch, keybinds.ActionCopyResults),
		m.keys.GetBindingString(keybinds.ContextSearch, keybinds.ActionQuit)))
	if notice := m.updateNotice(); notice != "" {
		right = styleWarning.Render(notice)
	}

	if m.width == 0 {
		return left + "  " + right
	}
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

// stateHint describes the last handled lookup
func (m *Model) stateHint() string {
	switch m.lastState {
	case lookup.StateList:
		return "Pick a name and keep typing to narrow it down"
	case lookup.StateDetail:
		return "1 country"
	case lookup.StateTooMany:
		return "Too many matches"
	default:
		return "Type a country name"
	}
}

// renderHelp lists the search bindings, including user overrides
func (m *Model) renderHelp() string {
	lines := []string{
		styleTitle.Render("Keys"),
		"",
		fmt.Sprintf("  %-12s %s", "type", "search (waits for a pause in typing)"),
	}
	for _, b := range m.keys.ListBindings(keybinds.ContextSearch) {
		lines = append(lines, fmt.Sprintf("  %-12s %s", b.Key, keybinds.Describe(b.Action)))
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorCyan).
		Padding(1, 2)
	return box.Render(strings.Join(lines, "\n"))
}

// updateViewport resizes the viewports and rebuilds the markdown renderer
func (m *Model) updateViewport() {
	width := max(m.width-ViewportBorderSize, MinContentWidth)
	height := max(m.height-HeaderLines-StatusLines-ViewportBorderSize, 1)

	m.results.Width = width
	m.results.Height = height
	m.input.Width = max(m.width-4, MinContentWidth)

	m.modalView.Width = max(m.width-ModalWidthMargin, MinContentWidth)
	m.modalView.Height = max(m.height-ModalHeightMargin-ViewportBorderSize, 1)

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width-GlamourWrapPadding),
	)
	if err == nil {
		m.renderer = renderer
	}

	m.updateResultsView()
	m.updateAnalyticsView()
}

// updateResultsView renders the panes into the results viewport
func (m *Model) updateResultsView() {
	content := m.panes.content()
	if content != "" && m.renderer != nil {
		if out, err := m.renderer.Render(content); err == nil {
			content = out
		}
	}
	m.results.SetContent(content)
	m.results.GotoTop()
}

// truncate shortens s to width runes with an ellipsis
func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "…"
}

// plural formats a count with the singular or plural noun
func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, pluralForm)
}
