package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/studiowebux/countrysearch/internal/types"
)

var (
	titleStyle        = lipgloss.NewStyle().MarginLeft(2).Bold(true)
	itemStyle         = lipgloss.NewStyle().PaddingLeft(4)
	selectedItemStyle = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("170"))
	helpStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1).MarginLeft(2)
)

type item struct {
	official string
	common   string
	index    int
}

func (i item) FilterValue() string {
	return i.official + " " + i.common
}

func (i item) Title() string {
	if i.common != "" && i.common != i.official {
		return fmt.Sprintf("%s (%s)", i.official, i.common)
	}
	return i.official
}

func (i item) Description() string { return "" }

type selectorModel struct {
	list     list.Model
	choice   int
	quitting bool
}

func newSelectorModel(countries []types.Country) selectorModel {
	items := make([]list.Item, len(countries))
	for i, c := range countries {
		items[i] = item{official: c.Name.Official, common: c.Name.Common, index: i}
	}

	l := list.New(items, itemDelegate{}, 60, min(len(items)+6, 18))
	l.Title = "Pick a country"
	l.Styles.Title = titleStyle
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)

	return selectorModel{list: l, choice: -1}
}

func (m selectorModel) Init() tea.Cmd {
	return nil
}

func (m selectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		return m, nil

	case tea.KeyMsg:
		// Let the filter input consume keys while it is open
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.quitting = true
			m.choice = -1
			return m, tea.Quit

		case "enter":
			if i, ok := m.list.SelectedItem().(item); ok {
				m.choice = i.index
			}
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m selectorModel) View() string {
	if m.quitting {
		return ""
	}

	help := helpStyle.Render("↑/↓: navigate • /: filter • enter: show details • q/esc: keep list")
	return fmt.Sprintf("%s\n%s", m.list.View(), help)
}

// promptForCountry lets the user choose one of the listed countries.
// It returns -1 when the prompt is cancelled.
func promptForCountry(countries []types.Country, out io.Writer) (int, error) {
	p := tea.NewProgram(newSelectorModel(countries), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return -1, fmt.Errorf("failed to run country picker: %w", err)
	}
	return final.(selectorModel).choice, nil
}

type itemDelegate struct{}

func (d itemDelegate) Height() int                             { return 1 }
func (d itemDelegate) Spacing() int                            { return 0 }
func (d itemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(item)
	if !ok {
		return
	}

	str := i.Title()
	if index == m.Index() {
		fmt.Fprint(w, selectedItemStyle.Render("> "+str))
		return
	}
	fmt.Fprint(w, itemStyle.Render(strings.TrimSpace(str)))
}
