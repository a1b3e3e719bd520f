package tui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiowebux/countrysearch/internal/analytics"
	"github.com/studiowebux/countrysearch/internal/config"
	"github.com/studiowebux/countrysearch/internal/keybinds"
	"github.com/studiowebux/countrysearch/internal/lookup"
	"github.com/studiowebux/countrysearch/internal/notify"
	"github.com/studiowebux/countrysearch/internal/restcountries"
	"github.com/studiowebux/countrysearch/internal/types"
)

func keyRunes(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// settle delivers the debounce tick for the latest edit and runs the lookup
// command it produces, returning the lookup result message
func settle(t *testing.T, m *Model, gen uint64) (tea.Msg, bool) {
	t.Helper()
	_, cmd := m.Update(debounceMsg{gen: gen})
	if cmd == nil {
		return nil, false
	}
	return cmd(), true
}

func TestNew_Defaults(t *testing.T) {
	m := CreateTestModel(t, &stubSearcher{})

	assert.Equal(t, ModeNormal, m.mode)
	assert.Equal(t, "", m.input.Value())
	assert.True(t, m.panes.empty())
	assert.Equal(t, lookup.DefaultMaxListSize, m.controller.MaxListSize())
}

func TestNew_ZeroDebounceUsesDefault(t *testing.T) {
	settings := config.Default()
	settings.Debounce = 0

	m := New(Options{Settings: settings, Searcher: &stubSearcher{}})

	assert.Equal(t, config.DefaultDebounce, m.debounce)
}

func TestTyping_SchedulesTickPerEdit(t *testing.T) {
	searcher := &stubSearcher{}
	m := CreateTestModel(t, searcher)

	typeText(m, "per")

	assert.Equal(t, "per", m.input.Value())
	assert.True(t, m.gate.Current(3), "each edit takes a new generation")
	assert.Empty(t, searcher.calls(), "nothing is fetched before the quiet period")
}

func TestDebounce_StaleGenerationIgnored(t *testing.T) {
	searcher := &stubSearcher{countries: makeCountries(1)}
	m := CreateTestModel(t, searcher)

	typeText(m, "peru")

	for gen := uint64(1); gen < 4; gen++ {
		_, ran := settle(t, m, gen)
		assert.False(t, ran, "generation %d is stale", gen)
	}
	assert.Empty(t, searcher.calls())
}

func TestDebounce_CurrentGenerationLooksUpTrimmedValue(t *testing.T) {
	searcher := &stubSearcher{countries: []types.Country{{
		Name:       types.CountryName{Official: "Republic of Peru"},
		Capital:    []string{"Lima"},
		Population: 32971846,
		Flags:      types.Flags{PNG: "https://flagcdn.com/w320/pe.png"},
		Languages: types.Languages{
			{Code: "aym", Name: "Aymara"},
			{Code: "que", Name: "Quechua"},
			{Code: "spa", Name: "Spanish"},
		},
	}}}
	m := CreateTestModel(t, searcher)

	typeText(m, " peru ")
	msg, ran := settle(t, m, 6)
	require.True(t, ran)
	assert.Equal(t, 1, m.inFlight)

	done, ok := msg.(lookupDoneMsg)
	require.True(t, ok)
	m.Update(done)

	assert.Equal(t, []string{"peru"}, searcher.calls())
	assert.Equal(t, 0, m.inFlight)
	assert.Equal(t, lookup.StateDetail, m.lastState)
	assert.Empty(t, m.panes.list)
	assert.Contains(t, m.panes.info, "# Republic of Peru")
	assert.Contains(t, m.panes.info, "**Languages:** Aymara, Quechua, Spanish")
}

func TestDebounce_WhitespaceOnlyClears(t *testing.T) {
	searcher := &stubSearcher{countries: makeCountries(3)}
	m := CreateTestModel(t, searcher)
	m.panes.PrependList("- stale\n")
	m.panes.PrependInfo("# stale\n")

	typeText(m, "   ")
	_, ran := settle(t, m, 3)

	assert.False(t, ran)
	assert.True(t, m.panes.empty())
	assert.Equal(t, lookup.StateSkipped, m.lastState)
	assert.Empty(t, searcher.calls())
}

func TestLookupDone_ListKeepsResponseOrder(t *testing.T) {
	m := CreateTestModel(t, &stubSearcher{})

	cmd := m.finishLookup(lookup.Result{Query: "c", Countries: makeCountries(3)})

	assert.Nil(t, cmd, "a list raises no toast")
	assert.Equal(t, lookup.StateList, m.lastState)
	first := strings.Index(m.panes.list, "Country 1")
	third := strings.Index(m.panes.list, "Country 3")
	assert.True(t, first >= 0 && first < third)
	assert.Empty(t, m.panes.info)
}

func TestLookupDone_TooManyShowsInfoToast(t *testing.T) {
	m := CreateTestModel(t, &stubSearcher{})

	cmd := m.finishLookup(lookup.Result{Query: "a", Countries: makeCountries(11)})

	require.NotNil(t, cmd, "the toast schedules its own expiry")
	assert.Equal(t, lookup.StateTooMany, m.lastState)
	assert.True(t, m.panes.empty())

	toast, ok := m.toasts.Current()
	require.True(t, ok)
	assert.Equal(t, notify.Info, toast.Kind)
	assert.Equal(t, lookup.TooManyMatchesMessage, toast.Message)
}

func TestLookupDone_FailureShowsFailureToast(t *testing.T) {
	m := CreateTestModel(t, &stubSearcher{})

	m.finishLookup(lookup.Result{Query: "atlantis", Err: restcountries.ErrNoCountry})

	assert.Equal(t, lookup.StateFailed, m.lastState)
	toast, ok := m.toasts.Current()
	require.True(t, ok)
	assert.Equal(t, notify.Failure, toast.Kind)
	assert.Equal(t, "Oops, there is no country with that name", toast.Message)
}

func TestToastExpired_OnlyDismissesMatchingToast(t *testing.T) {
	m := CreateTestModel(t, &stubSearcher{})

	m.finishLookup(lookup.Result{Query: "x", Err: errors.New("first")})
	first, _ := m.toasts.Current()
	m.finishLookup(lookup.Result{Query: "y", Err: errors.New("second")})
	second, _ := m.toasts.Current()

	m.Update(toastExpiredMsg{id: first.ID})
	current, ok := m.toasts.Current()
	require.True(t, ok, "a newer toast outlives the older one's timer")
	assert.Equal(t, second.ID, current.ID)

	m.Update(toastExpiredMsg{id: second.ID})
	_, ok = m.toasts.Current()
	assert.False(t, ok)
}

func TestOverlappingLookups_BothResultsLand(t *testing.T) {
	m := CreateTestModel(t, &stubSearcher{})
	m.inFlight = 2

	m.finishLookup(lookup.Result{Query: "fra", Countries: makeCountries(2)})
	m.finishLookup(lookup.Result{Query: "france", Countries: makeCountries(1)})

	assert.Equal(t, 0, m.inFlight)
	assert.Equal(t, lookup.StateDetail, m.lastState)
	// Nothing clears between two results, so both regions stay filled
	assert.Contains(t, m.panes.list, "- Country 1")
	assert.Contains(t, m.panes.list, "- Country 2")
	assert.Contains(t, m.panes.info, "# Country 1")
}

func TestCopyToClipboard(t *testing.T) {
	m := CreateTestModel(t, &stubSearcher{})

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlY})
	assert.Equal(t, "Nothing to copy", m.errorMsg)

	var copied string
	m.clipboardWrite = func(s string) error {
		copied = s
		return nil
	}
	m.finishLookup(lookup.Result{Query: "c", Countries: makeCountries(2)})
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlY})

	assert.Contains(t, copied, "- Country 1")
	assert.Contains(t, copied, "- Country 2")
	assert.Equal(t, "Results copied to clipboard", m.statusMsg)
}

func TestCopyToClipboard_Error(t *testing.T) {
	m := CreateTestModel(t, &stubSearcher{})
	m.clipboardWrite = func(string) error { return errors.New("no display") }
	m.finishLookup(lookup.Result{Query: "c", Countries: makeCountries(2)})

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlY})

	assert.Equal(t, "Failed to copy to clipboard: no display", m.errorMsg)
}

func TestStatusExpired_IgnoresOlderMessages(t *testing.T) {
	m := CreateTestModel(t, &stubSearcher{})

	m.setStatusMessage("first")
	m.setStatusMessage("second")

	m.Update(statusExpiredMsg{seq: 1})
	assert.Equal(t, "second", m.statusMsg)

	m.Update(statusExpiredMsg{seq: 2})
	assert.Empty(t, m.statusMsg)
}

func TestHelpMode(t *testing.T) {
	m := CreateTestModel(t, &stubSearcher{})

	m.Update(tea.KeyMsg{Type: tea.KeyF1})
	assert.Equal(t, ModeHelp, m.mode)
	assert.Contains(t, m.View(), "ctrl+y")

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ModeNormal, m.mode)
}

func TestAnalytics_Disabled(t *testing.T) {
	m := CreateTestModel(t, &stubSearcher{})

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlA})

	assert.Equal(t, ModeNormal, m.mode)
	assert.Contains(t, m.errorMsg, "Statistics are disabled")
}

func TestAnalytics_RecordsAndLoads(t *testing.T) {
	manager, err := analytics.NewManager(filepath.Join(t.TempDir(), "analytics.db"))
	require.NoError(t, err)

	settings := config.Default()
	m := New(Options{Settings: settings, Searcher: &stubSearcher{}, Analytics: manager})
	defer m.Cleanup()

	m.finishLookup(lookup.Result{Query: "peru", Countries: makeCountries(1)})
	m.finishLookup(lookup.Result{Query: "atlantis", Err: restcountries.ErrNoCountry})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlA})
	require.Equal(t, ModeAnalytics, m.mode)
	require.NotNil(t, cmd)

	m.Update(cmd())
	require.Len(t, m.stats, 2)
	assert.Contains(t, m.View(), "atlantis")
	assert.Contains(t, m.View(), "2 queries")

	m.Update(keyRunes('c'))
	assert.Equal(t, ModeAnalyticsClearConfirm, m.mode)

	_, cmd = m.Update(keyRunes('y'))
	require.NotNil(t, cmd)
	m.Update(cmd())
	assert.Equal(t, ModeAnalytics, m.mode)
	assert.Empty(t, m.stats)
	assert.Equal(t, "Statistics cleared", m.statusMsg)
}

func TestView_Main(t *testing.T) {
	m := CreateTestModel(t, &stubSearcher{})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	m.finishLookup(lookup.Result{Query: "a", Countries: makeCountries(20)})
	view := m.View()

	assert.Contains(t, view, "Country search")
	assert.Contains(t, view, lookup.TooManyMatchesMessage)
}

func TestUpdateNotice(t *testing.T) {
	m := CreateTestModel(t, &stubSearcher{})
	assert.Empty(t, m.updateNotice())

	m.version = "0.1.0"
	m.Update(updateCheckedMsg{})
	assert.Empty(t, m.updateNotice())

	m.updateAvailable = true
	m.latestVersion = "0.2.0"
	assert.Equal(t, "Update available: v0.1.0 → v0.2.0", m.updateNotice())
}

func TestCtrlCQuits(t *testing.T) {
	m := CreateTestModel(t, &stubSearcher{})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestKeybinds_UserOverride(t *testing.T) {
	keys := keybinds.NewDefaultRegistry()
	keys.Register(keybinds.ContextSearch, "ctrl+k", keybinds.ActionDismissToast)
	keys.Unregister(keybinds.ContextSearch, "ctrl+l")

	m := New(Options{Settings: config.Default(), Searcher: &stubSearcher{}, Keybinds: keys})
	m.finishLookup(lookup.Result{Query: "x", Err: errors.New("boom")})

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	_, ok := m.toasts.Current()
	assert.True(t, ok, "unbound key does nothing")

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlK})
	_, ok = m.toasts.Current()
	assert.False(t, ok)

	m.Update(tea.KeyMsg{Type: tea.KeyF1})
	assert.Contains(t, m.View(), "ctrl+k")
}

func TestInit_ShowsRejectedKeybinds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keybinds.yaml")
	require.NoError(t, os.WriteFile(path, []byte("search: [\n"), 0o600))
	keys, err := keybinds.LoadOrDefault(path)
	require.Error(t, err)

	m := New(Options{Settings: config.Default(), Searcher: &stubSearcher{}, Keybinds: keys, KeybindsErr: err})
	assert.Empty(t, m.errorMsg)

	require.NotNil(t, m.Init())
	assert.True(t, strings.HasPrefix(m.errorMsg, "Invalid keybinds, using defaults: "))
	assert.NotContains(t, m.errorMsg, "\n")
}

func TestInit_NoKeybindsError(t *testing.T) {
	m := New(Options{Settings: config.Default(), Searcher: &stubSearcher{}})
	m.Init()
	assert.Empty(t, m.errorMsg)
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "1 query", plural(1, "query", "queries"))
	assert.Equal(t, "2 queries", plural(2, "query", "queries"))
	assert.Equal(t, "0 queries", plural(0, "query", "queries"))
}
