package keybinds

// NewDefaultRegistry returns the built-in bindings
func NewDefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register(ContextGlobal, "ctrl+c", ActionQuitForce)

	r.Register(ContextSearch, "esc", ActionQuit)
	r.Register(ContextSearch, "f1", ActionToggleHelp)
	r.Register(ContextSearch, "ctrl+a", ActionOpenAnalytics)
	r.Register(ContextSearch, "ctrl+y", ActionCopyResults)
	r.Register(ContextSearch, "ctrl+l", ActionDismissToast)
	r.Register(ContextSearch, "up", ActionScrollUp)
	r.Register(ContextSearch, "down", ActionScrollDown)
	r.Register(ContextSearch, "pgup", ActionPageUp)
	r.Register(ContextSearch, "pgdown", ActionPageDown)

	r.RegisterMultiple(ContextHelp, []string{"esc", "q", "f1"}, ActionCloseModal)

	r.RegisterMultiple(ContextAnalytics, []string{"esc", "q", "ctrl+a"}, ActionCloseModal)
	r.Register(ContextAnalytics, "r", ActionRefresh)
	r.Register(ContextAnalytics, "c", ActionClearStats)
	r.Register(ContextAnalytics, "up", ActionScrollUp)
	r.Register(ContextAnalytics, "down", ActionScrollDown)
	r.Register(ContextAnalytics, "pgup", ActionPageUp)
	r.Register(ContextAnalytics, "pgdown", ActionPageDown)

	r.RegisterMultiple(ContextConfirm, []string{"y", "Y"}, ActionConfirm)
	r.RegisterMultiple(ContextConfirm, []string{"n", "N", "esc"}, ActionCancel)

	return r
}
