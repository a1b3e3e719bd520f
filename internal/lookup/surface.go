package lookup

import (
	"sync"

	"github.com/studiowebux/countrysearch/internal/notify"
	"github.com/studiowebux/countrysearch/internal/types"
)

// Surface is where a lookup is shown: a list region, an info region and a
// notification area. Prepend inserts a fragment in front of the region's
// current content.
type Surface interface {
	Clear()
	PrependList(fragment string)
	PrependInfo(fragment string)
	Notify(kind notify.Kind, message string)
}

// Renderer turns countries into fragments for a surface
type Renderer interface {
	List(countries []types.Country) string
	Detail(country types.Country) string
}

// Present shows a result on the surface and returns the decided state.
// It does not clear the surface; Begin does that.
func Present(s Surface, r Renderer, res Result, maxList int) State {
	state := Decide(res, maxList)

	switch state {
	case StateTooMany:
		s.Notify(notify.Info, TooManyMatchesMessage)
	case StateList:
		s.PrependList(r.List(res.Countries))
	case StateDetail:
		s.PrependInfo(r.Detail(res.Countries[0]))
	case StateFailed:
		s.Notify(notify.Failure, res.Err.Error())
	}

	return state
}

// Operation names used by Op
const (
	OpClear   = "clear"
	OpPrepend = "prepend"
	OpNotify  = "notify"

	TargetList = "list"
	TargetInfo = "info"
)

// Op is one recorded surface operation
type Op struct {
	Op      string `json:"op"`
	Target  string `json:"target,omitempty"`
	HTML    string `json:"html,omitempty"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message,omitempty"`
}

// Transcript is a Surface that records every operation and keeps the
// resulting region contents. It is safe for concurrent use.
type Transcript struct {
	mu   sync.Mutex
	ops  []Op
	list string
	info string
}

// NewTranscript creates an empty transcript
func NewTranscript() *Transcript {
	return &Transcript{}
}

func (t *Transcript) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.list = ""
	t.info = ""
	t.ops = append(t.ops, Op{Op: OpClear})
}

func (t *Transcript) PrependList(fragment string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.list = fragment + t.list
	t.ops = append(t.ops, Op{Op: OpPrepend, Target: TargetList, HTML: fragment})
}

func (t *Transcript) PrependInfo(fragment string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.info = fragment + t.info
	t.ops = append(t.ops, Op{Op: OpPrepend, Target: TargetInfo, HTML: fragment})
}

func (t *Transcript) Notify(kind notify.Kind, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ops = append(t.ops, Op{Op: OpNotify, Kind: kind.String(), Message: message})
}

// Ops returns a copy of the recorded operations
func (t *Transcript) Ops() []Op {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Op(nil), t.ops...)
}

// List returns the current content of the list region
func (t *Transcript) List() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.list
}

// Info returns the current content of the info region
func (t *Transcript) Info() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.info
}

// Notifications returns the recorded notify operations
func (t *Transcript) Notifications() []Op {
	t.mu.Lock()
	defer t.mu.Unlock()

	var out []Op
	for _, op := range t.ops {
		if op.Op == OpNotify {
			out = append(out, op)
		}
	}
	return out
}
