package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the interactive search and blocks until the user quits
func Run(opts Options) error {
	m := New(opts)
	defer m.Cleanup()

	// Pass the pointer since Update uses a pointer receiver
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}

	return nil
}
