package lookup

import (
	"strings"
	"time"

	"github.com/studiowebux/countrysearch/internal/types"
)

const (
	// TooManyMatchesMessage is the info notification for oversized result sets
	TooManyMatchesMessage = "Too many matches found. Please enter a more specific name."

	// DefaultMaxListSize is the largest result set rendered as a list
	DefaultMaxListSize = 10
)

// State is the outcome of one handled input event
type State int

const (
	StateSkipped State = iota
	StateEmpty
	StateTooMany
	StateList
	StateDetail
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateSkipped:
		return "skipped"
	case StateEmpty:
		return "empty"
	case StateTooMany:
		return "too_many"
	case StateList:
		return "list"
	case StateDetail:
		return "detail"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is what a search produced: countries on success, Err otherwise
type Result struct {
	Query     string
	Countries []types.Country
	Err       error
	Duration  time.Duration
}

// Normalize trims the raw input into a query
func Normalize(raw string) string {
	return strings.TrimSpace(raw)
}

// Decide maps a result onto a state by cardinality
func Decide(res Result, maxList int) State {
	if res.Err != nil {
		return StateFailed
	}

	n := len(res.Countries)
	switch {
	case n > maxList:
		return StateTooMany
	case n > 1:
		return StateList
	case n == 1:
		return StateDetail
	default:
		return StateEmpty
	}
}
