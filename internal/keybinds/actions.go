package keybinds

// Action represents a user action that can be triggered by a keybinding
type Action string

// Context represents the context in which keybindings are active
type Context string

const (
	ContextGlobal    Context = "global"    // Available everywhere
	ContextSearch    Context = "search"    // Search field and results
	ContextHelp      Context = "help"      // Help viewer
	ContextAnalytics Context = "analytics" // Lookup statistics
	ContextConfirm   Context = "confirm"   // Confirmation dialogs
)

const (
	ActionQuit      Action = "quit"
	ActionQuitForce Action = "quit_force"

	// Results
	ActionScrollUp   Action = "scroll_up"
	ActionScrollDown Action = "scroll_down"
	ActionPageUp     Action = "page_up"
	ActionPageDown   Action = "page_down"

	ActionToggleHelp    Action = "toggle_help"
	ActionOpenAnalytics Action = "open_analytics"
	ActionCopyResults   Action = "copy_results"
	ActionDismissToast  Action = "dismiss_toast"

	// Modals
	ActionCloseModal Action = "close_modal"
	ActionRefresh    Action = "refresh"
	ActionClearStats Action = "clear_stats"

	// Confirmation
	ActionConfirm Action = "confirm"
	ActionCancel  Action = "cancel"
)

// allActions lists every action a binding may name
var allActions = map[Action]string{
	ActionQuit:          "quit",
	ActionQuitForce:     "quit immediately",
	ActionScrollUp:      "scroll results up",
	ActionScrollDown:    "scroll results down",
	ActionPageUp:        "scroll results up a page",
	ActionPageDown:      "scroll results down a page",
	ActionToggleHelp:    "toggle help",
	ActionOpenAnalytics: "lookup statistics",
	ActionCopyResults:   "copy results to clipboard",
	ActionDismissToast:  "dismiss notification",
	ActionCloseModal:    "close",
	ActionRefresh:       "refresh",
	ActionClearStats:    "clear statistics",
	ActionConfirm:       "confirm",
	ActionCancel:        "cancel",
}

// Describe returns the help text of an action
func Describe(action Action) string {
	if d, ok := allActions[action]; ok {
		return d
	}
	return string(action)
}

// IsKnown reports whether action names a real action
func IsKnown(action Action) bool {
	_, ok := allActions[action]
	return ok
}
