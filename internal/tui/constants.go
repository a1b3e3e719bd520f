package tui

import "time"

// Layout
const (
	HeaderLines        = 3 // Title + input + toast line
	StatusLines        = 1
	ViewportBorderSize = 2 // Rounded border around the results
	ModalWidthMargin   = 6
	ModalHeightMargin  = 4
	MinContentWidth    = 20
	GlamourWrapPadding = 4
)

// statusTimeout is how long transient status messages stay in the status bar
const statusTimeout = 3 * time.Second
