/*
Package lookup is the country search pipeline shared by every surface.

# Flow

One handled input event runs three steps:

 1. Begin clears both output regions and trims the raw input. An empty query
    stops here: no request is made.
 2. Fetch runs the search and returns a Result, a union of the matched
    countries and the error that prevented a match.
 3. Finish decides a State from the Result and presents it on the surface.

Handle runs the three steps in a row. Surfaces that suspend while waiting for
the network (the terminal UI) call them separately.

# Decision

	error          -> StateFailed   failure notification with err.Error()
	n > maxList    -> StateTooMany  info notification, nothing rendered
	2 <= n <= max  -> StateList     list fragment prepended to the list region
	n == 1         -> StateDetail   detail fragment prepended to the info region
	n == 0         -> StateEmpty    nothing

# Concurrency

Two lookups may be in flight at once. Nothing orders or cancels them: each
result is presented when it arrives, so the later one ends up in front.
*/
package lookup
