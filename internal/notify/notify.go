// Package notify keeps the transient notifications (toasts) shown by the
// surfaces. Only the most recent toast is kept: showing a new one replaces
// the previous one, and a toast auto-dismisses after a fixed timeout.
package notify

import (
	"sync"
	"time"
)

// DefaultTimeout is how long a toast stays visible
const DefaultTimeout = 3 * time.Second

// Kind is the message class of a toast
type Kind int

const (
	Info Kind = iota
	Failure
)

func (k Kind) String() string {
	switch k {
	case Info:
		return "info"
	case Failure:
		return "failure"
	default:
		return "unknown"
	}
}

// Toast is one notification
type Toast struct {
	ID      uint64
	Kind    Kind
	Message string
	Timeout time.Duration
	ShownAt time.Time
}

// Expired reports whether the toast timed out at now
func (t Toast) Expired(now time.Time) bool {
	return !now.Before(t.ShownAt.Add(t.Timeout))
}

// Center holds the single visible toast
type Center struct {
	mu      sync.Mutex
	timeout time.Duration
	now     func() time.Time
	nextID  uint64
	current *Toast
}

// NewCenter creates a notification center. A non-positive timeout uses DefaultTimeout.
func NewCenter(timeout time.Duration) *Center {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Center{
		timeout: timeout,
		now:     time.Now,
	}
}

// Timeout returns the display duration of every toast
func (c *Center) Timeout() time.Duration {
	return c.timeout
}

// Show replaces the visible toast with a new one
func (c *Center) Show(kind Kind, message string) Toast {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	t := Toast{
		ID:      c.nextID,
		Kind:    kind,
		Message: message,
		Timeout: c.timeout,
		ShownAt: c.now(),
	}
	c.current = &t
	return t
}

// Info shows an informational toast
func (c *Center) Info(message string) Toast {
	return c.Show(Info, message)
}

// Failure shows a failure toast
func (c *Center) Failure(message string) Toast {
	return c.Show(Failure, message)
}

// Current returns the visible toast, if it has not timed out
func (c *Center) Current() (Toast, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return Toast{}, false
	}
	if c.current.Expired(c.now()) {
		c.current = nil
		return Toast{}, false
	}
	return *c.current, true
}

// Dismiss hides the toast with the given ID. A toast that was already
// replaced by a newer one is left alone; it returns false in that case.
func (c *Center) Dismiss(id uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil || c.current.ID != id {
		return false
	}
	c.current = nil
	return true
}
