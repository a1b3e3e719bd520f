package tui

import (
	"github.com/studiowebux/countrysearch/internal/notify"
)

// panes holds the list and info regions and the toast center. It satisfies
// lookup.Surface and is only touched from the Update loop.
type panes struct {
	list   string
	info   string
	toasts *notify.Center

	// pending is the toast raised since the last takeToast call
	pending *notify.Toast
}

func newPanes(toasts *notify.Center) *panes {
	return &panes{toasts: toasts}
}

func (p *panes) Clear() {
	p.list = ""
	p.info = ""
}

func (p *panes) PrependList(fragment string) {
	p.list = fragment + p.list
}

func (p *panes) PrependInfo(fragment string) {
	p.info = fragment + p.info
}

func (p *panes) Notify(kind notify.Kind, message string) {
	toast := p.toasts.Show(kind, message)
	p.pending = &toast
}

// takeToast returns the toast raised since the previous call, if any
func (p *panes) takeToast() (notify.Toast, bool) {
	if p.pending == nil {
		return notify.Toast{}, false
	}
	t := *p.pending
	p.pending = nil
	return t, true
}

// empty reports whether both regions are blank
func (p *panes) empty() bool {
	return p.list == "" && p.info == ""
}

// content is the markdown shown in the results viewport, list first
func (p *panes) content() string {
	switch {
	case p.list != "" && p.info != "":
		return p.list + "\n" + p.info
	case p.list != "":
		return p.list
	default:
		return p.info
	}
}
