package tui

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/studiowebux/countrysearch/internal/config"
	"github.com/studiowebux/countrysearch/internal/types"
)

// stubSearcher answers every query with a fixed result and records the queries
type stubSearcher struct {
	mu        sync.Mutex
	countries []types.Country
	err       error
	queries   []string
}

func (s *stubSearcher) SearchByName(_ context.Context, query string) ([]types.Country, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, query)
	return s.countries, s.err
}

func (s *stubSearcher) calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.queries...)
}

// makeCountries builds n countries with distinct official names
func makeCountries(n int) []types.Country {
	countries := make([]types.Country, n)
	for i := range countries {
		countries[i] = types.Country{
			Name:       types.CountryName{Official: fmt.Sprintf("Country %d", i+1)},
			Capital:    []string{fmt.Sprintf("Capital %d", i+1)},
			Population: int64(1000 * (i + 1)),
			Flags:      types.Flags{PNG: fmt.Sprintf("https://flagcdn.com/w320/%02d.png", i+1)},
		}
	}
	return countries
}

// CreateTestModel creates a Model backed by the given searcher
func CreateTestModel(t *testing.T, searcher *stubSearcher) *Model {
	t.Helper()

	settings := config.Default()
	settings.Debounce = 10 * time.Millisecond

	m := New(Options{Settings: settings, Searcher: searcher})
	m.clipboardWrite = func(string) error {
		t.Fatal("clipboard written without a stub")
		return nil
	}
	return m
}

// typeText sends each rune of text as a key press
func typeText(m *Model, text string) {
	for _, r := range text {
		m.Update(keyRunes(r))
	}
}
