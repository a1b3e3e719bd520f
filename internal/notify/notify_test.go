package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCenter(timeout time.Duration) (*Center, *time.Time) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewCenter(timeout)
	c.now = func() time.Time { return now }
	return c, &now
}

func TestCenter_ShowsOnlyTheLatest(t *testing.T) {
	c, _ := newTestCenter(3 * time.Second)

	first := c.Info("Too many matches found. Please enter a more specific name.")
	second := c.Failure("Oops, there is no country with that name")

	current, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, second.ID, current.ID)
	assert.Equal(t, Failure, current.Kind)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestCenter_ExpiresAfterTimeout(t *testing.T) {
	c, now := newTestCenter(3 * time.Second)
	c.Info("hello")

	*now = now.Add(2999 * time.Millisecond)
	_, ok := c.Current()
	assert.True(t, ok)

	*now = now.Add(time.Millisecond)
	_, ok = c.Current()
	assert.False(t, ok)
}

func TestCenter_DismissIgnoresReplacedToast(t *testing.T) {
	c, _ := newTestCenter(time.Second)

	old := c.Info("old")
	latest := c.Info("latest")

	assert.False(t, c.Dismiss(old.ID), "stale dismissal must not hide the newer toast")
	current, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, "latest", current.Message)

	assert.True(t, c.Dismiss(latest.ID))
	_, ok = c.Current()
	assert.False(t, ok)
}

func TestNewCenter_DefaultTimeout(t *testing.T) {
	assert.Equal(t, DefaultTimeout, NewCenter(0).Timeout())
	assert.Equal(t, time.Second, NewCenter(time.Second).Timeout())
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "info", Info.String())
	assert.Equal(t, "failure", Failure.String())
	assert.Equal(t, "unknown", Kind(42).String())
}
