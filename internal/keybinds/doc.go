/*
Package keybinds maps key presses to terminal UI actions per context.

Defaults come from NewDefaultRegistry. Users can override them with
~/.countrysearch/keybinds.yaml:

	global:
	  ctrl+q: quit
	search:
	  ctrl+k: dismiss_toast
	analytics:
	  x: clear_stats

A lookup checks the active context first and falls back to global. Keys are
the strings bubbletea reports for a key press ("ctrl+y", "pgdown", "f1").

In the search context every printable key goes to the search field, so
single characters cannot be bound there; Validate reports them.
*/
package keybinds
