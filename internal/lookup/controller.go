package lookup

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/studiowebux/countrysearch/internal/types"
)

// Searcher finds countries by name
type Searcher interface {
	SearchByName(ctx context.Context, query string) ([]types.Country, error)
}

// Event describes one completed lookup, for observers
type Event struct {
	Query    string
	State    State
	Matches  int
	Duration time.Duration
	Err      error
	At       time.Time
}

// Observer is told about every completed lookup (metrics, analytics)
type Observer interface {
	ObserveLookup(Event)
}

// Controller drives the pipeline for one renderer
type Controller struct {
	searcher  Searcher
	renderer  Renderer
	maxList   int
	logger    *zap.Logger
	observers []Observer
	now       func() time.Time
}

// Option configures a Controller
type Option func(*Controller)

// WithMaxListSize sets the largest result set rendered as a list
func WithMaxListSize(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.maxList = n
		}
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithObserver adds an observer
func WithObserver(o Observer) Option {
	return func(c *Controller) {
		if o != nil {
			c.observers = append(c.observers, o)
		}
	}
}

// NewController creates a controller
func NewController(searcher Searcher, renderer Renderer, opts ...Option) *Controller {
	c := &Controller{
		searcher: searcher,
		renderer: renderer,
		maxList:  DefaultMaxListSize,
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// MaxListSize returns the list threshold in use
func (c *Controller) MaxListSize() int {
	return c.maxList
}

// Begin clears the surface and normalizes the input. It returns false when
// the query is empty and no request should be made.
func (c *Controller) Begin(s Surface, raw string) (string, bool) {
	s.Clear()
	query := Normalize(raw)
	return query, query != ""
}

// Fetch runs the search for a non-empty query
func (c *Controller) Fetch(ctx context.Context, query string) Result {
	start := c.now()
	countries, err := c.searcher.SearchByName(ctx, query)
	return Result{
		Query:     query,
		Countries: countries,
		Err:       err,
		Duration:  c.now().Sub(start),
	}
}

// Finish presents the result and notifies observers
func (c *Controller) Finish(s Surface, res Result) State {
	state := Present(s, c.renderer, res, c.maxList)

	if res.Err != nil {
		c.logger.Debug("lookup failed",
			zap.String("query", res.Query),
			zap.Duration("duration", res.Duration),
			zap.Error(res.Err))
	} else {
		c.logger.Debug("lookup done",
			zap.String("query", res.Query),
			zap.String("state", state.String()),
			zap.Int("matches", len(res.Countries)),
			zap.Duration("duration", res.Duration))
	}

	ev := Event{
		Query:    res.Query,
		State:    state,
		Matches:  len(res.Countries),
		Duration: res.Duration,
		Err:      res.Err,
		At:       c.now(),
	}
	for _, o := range c.observers {
		o.ObserveLookup(ev)
	}

	return state
}

// Handle runs one input event through the whole pipeline
func (c *Controller) Handle(ctx context.Context, s Surface, raw string) State {
	query, ok := c.Begin(s, raw)
	if !ok {
		return StateSkipped
	}
	return c.Finish(s, c.Fetch(ctx, query))
}
