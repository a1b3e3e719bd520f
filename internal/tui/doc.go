/*
Package tui implements the terminal interface for countrysearch.

# Architecture

The TUI follows the Bubble Tea Model-Update-View pattern:
  - model.go: Core state, messages and the Update loop
  - keys.go: Keyboard handling per mode
  - actions.go: Side effects returned as tea.Cmd (lookups, clipboard, update check)
  - panes.go: The list and info regions plus the toast, as a lookup surface
  - render.go: View rendering
  - analytics_modal.go: Per-query lookup statistics

# Debounce

Every edit of the search field takes a new generation from a debounce.Gate
and schedules a tea.Tick carrying it. When the tick arrives it is dropped
unless its generation is still current, so only the last edit of a burst
runs a lookup.

# Threading Model

Update runs on Bubble Tea's event loop. The HTTP call runs inside a tea.Cmd
and comes back as lookupDoneMsg; the result is applied to the panes on the
event loop, so the panes need no locking. Lookups are not cancelled when a
newer one starts, and whichever finishes last is what the panes show.
*/
package tui
