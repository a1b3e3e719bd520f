package tui

import (
	"context"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"github.com/studiowebux/countrysearch/internal/analytics"
	"github.com/studiowebux/countrysearch/internal/config"
	"github.com/studiowebux/countrysearch/internal/debounce"
	"github.com/studiowebux/countrysearch/internal/keybinds"
	"github.com/studiowebux/countrysearch/internal/lookup"
	"github.com/studiowebux/countrysearch/internal/metrics"
	"github.com/studiowebux/countrysearch/internal/notify"
	"github.com/studiowebux/countrysearch/internal/render"
	"github.com/studiowebux/countrysearch/internal/version"
)

// Mode represents the current TUI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeHelp
	ModeAnalytics
	ModeAnalyticsClearConfirm
)

// Messages
type (
	// debounceMsg fires when the quiet period after an edit has passed
	debounceMsg struct{ gen uint64 }

	// lookupDoneMsg carries a finished search back to the event loop
	lookupDoneMsg struct{ result lookup.Result }

	// toastExpiredMsg dismisses a toast once its timeout has passed
	toastExpiredMsg struct{ id uint64 }

	// statusExpiredMsg clears a status message unless a newer one replaced it
	statusExpiredMsg struct{ seq int }

	updateCheckedMsg struct{ update version.Update }

	analyticsLoadedMsg struct {
		stats []analytics.Stats
		err   error
	}

	analyticsClearedMsg struct{ err error }

	errorMsg string
)

// Options configures the TUI
type Options struct {
	Settings    config.Settings
	Searcher    lookup.Searcher
	Analytics   *analytics.Manager // nil hides the statistics view
	Checker     *version.Checker   // nil skips the update check
	Keybinds    *keybinds.Registry // nil uses the defaults
	KeybindsErr error              // shown in the status bar on startup
	Logger      *zap.Logger
}

// Model represents the TUI state
type Model struct {
	mode   Mode
	width  int
	height int

	input      textinput.Model
	lastValue  string
	gate       debounce.Gate
	debounce   time.Duration
	controller *lookup.Controller
	panes      *panes
	toasts     *notify.Center
	inFlight   int
	lastState  lookup.State

	results  viewport.Model
	renderer *glamour.TermRenderer
	keys     *keybinds.Registry

	// Statistics view
	analyticsManager *analytics.Manager
	stats            []analytics.Stats
	modalView        viewport.Model

	// Status bar
	statusMsg string
	errorMsg  string
	statusSeq int
	startup   string

	// Update notice
	checker         *version.Checker
	version         string
	updateAvailable bool
	latestVersion   string
	updateURL       string

	logger         *zap.Logger
	clipboardWrite func(string) error
}

// New creates a new TUI model
func New(opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	ctrlOpts := []lookup.Option{
		lookup.WithMaxListSize(opts.Settings.MaxListSize),
		lookup.WithLogger(logger),
		lookup.WithObserver(metrics.Observer{}),
	}
	if opts.Analytics != nil {
		ctrlOpts = append(ctrlOpts, lookup.WithObserver(analytics.NewRecorder(opts.Analytics, "tui", "", logger)))
	}

	input := textinput.New()
	input.Placeholder = "Search for any country"
	input.Prompt = "> "
	input.CharLimit = 100
	input.Focus()

	toasts := notify.NewCenter(opts.Settings.NotifyTimeout)

	keys := opts.Keybinds
	if keys == nil {
		keys = keybinds.NewDefaultRegistry()
	}

	return &Model{
		mode:             ModeNormal,
		input:            input,
		debounce:         opts.Settings.DebounceDelay(),
		controller:       lookup.NewController(opts.Searcher, render.Markdown{}, ctrlOpts...),
		panes:            newPanes(toasts),
		toasts:           toasts,
		results:          viewport.New(80, 20),
		modalView:        viewport.New(80, 20),
		keys:             keys,
		startup:          startupError(opts.KeybindsErr),
		analyticsManager: opts.Analytics,
		checker:          opts.Checker,
		version:          version.Version,
		logger:           logger,
		clipboardWrite:   clipboard.WriteAll,
	}
}

// Init initializes the TUI
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.checkForUpdate()}
	if m.startup != "" {
		cmds = append(cmds, m.setErrorMessage(m.startup))
	}
	return tea.Batch(cmds...)
}

// startupError flattens a keybinds error onto one status line
func startupError(err error) string {
	if err == nil {
		return ""
	}
	return "Invalid keybinds, using defaults: " + strings.Join(strings.Fields(err.Error()), " ")
}

// Update handles messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateViewport()
		return m, nil

	case debounceMsg:
		if !m.gate.Current(msg.gen) {
			return m, nil
		}
		return m, m.startLookup()

	case lookupDoneMsg:
		return m, m.finishLookup(msg.result)

	case toastExpiredMsg:
		m.toasts.Dismiss(msg.id)
		return m, nil

	case statusExpiredMsg:
		if msg.seq == m.statusSeq {
			m.statusMsg = ""
			m.errorMsg = ""
		}
		return m, nil

	case updateCheckedMsg:
		m.updateAvailable = msg.update.Available
		m.latestVersion = msg.update.Latest
		m.updateURL = msg.update.URL
		return m, nil

	case analyticsLoadedMsg:
		if msg.err != nil {
			return m, m.setErrorMessage(msg.err.Error())
		}
		m.stats = msg.stats
		m.updateAnalyticsView()
		return m, nil

	case analyticsClearedMsg:
		if msg.err != nil {
			return m, m.setErrorMessage(msg.err.Error())
		}
		m.stats = nil
		m.updateAnalyticsView()
		return m, m.setStatusMessage("Statistics cleared")

	case errorMsg:
		return m, m.setErrorMessage(string(msg))
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// startLookup clears the panes and runs the search for the current value
func (m *Model) startLookup() tea.Cmd {
	query, ok := m.controller.Begin(m.panes, m.input.Value())
	m.updateResultsView()
	if !ok {
		m.lastState = lookup.StateSkipped
		metrics.SkippedInputsTotal.Inc()
		return nil
	}

	m.inFlight++
	controller := m.controller
	return func() tea.Msg {
		return lookupDoneMsg{result: controller.Fetch(context.Background(), query)}
	}
}

// finishLookup applies a result to the panes
func (m *Model) finishLookup(res lookup.Result) tea.Cmd {
	if m.inFlight > 0 {
		m.inFlight--
	}
	m.lastState = m.controller.Finish(m.panes, res)
	m.updateResultsView()

	if toast, ok := m.panes.takeToast(); ok {
		id := toast.ID
		return tea.Tick(toast.Timeout, func(time.Time) tea.Msg {
			return toastExpiredMsg{id: id}
		})
	}
	return nil
}

// inputChanged starts a new quiet period after an edit
func (m *Model) inputChanged() tea.Cmd {
	if m.input.Value() == m.lastValue {
		return nil
	}
	m.lastValue = m.input.Value()

	gen := m.gate.Next()
	return tea.Tick(m.debounce, func(time.Time) tea.Msg {
		return debounceMsg{gen: gen}
	})
}

// setStatusMessage shows a transient status message
func (m *Model) setStatusMessage(text string) tea.Cmd {
	m.statusMsg = text
	m.errorMsg = ""
	return m.expireStatus()
}

// setErrorMessage shows a transient error in the status bar
func (m *Model) setErrorMessage(text string) tea.Cmd {
	m.errorMsg = text
	m.statusMsg = ""
	return m.expireStatus()
}

func (m *Model) expireStatus() tea.Cmd {
	m.statusSeq++
	seq := m.statusSeq
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return statusExpiredMsg{seq: seq}
	})
}

// Cleanup closes the statistics database
func (m *Model) Cleanup() {
	if m.analyticsManager != nil {
		if err := m.analyticsManager.Close(); err != nil {
			m.logger.Warn("error closing analytics database", zap.Error(err))
		}
	}
}
