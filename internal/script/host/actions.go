package host

// ActionKind tags the effect a plugin requested during setup.
type ActionKind int

const (
	ActionShowMessage ActionKind = iota
	ActionRegisterCommand
	ActionRegisterKeymap
	ActionRegisterEventHandler
	ActionRegisterTheme
)

// Action is one entry in a CompiledPlugin's accumulated action list. Only
// the fields relevant to Kind are populated; the rest are zero.
type Action struct {
	Kind ActionKind

	// ActionShowMessage
	Message string

	// ActionRegisterCommand
	CommandName    string
	CommandHandler string
	CommandDesc    string

	// ActionRegisterKeymap
	Keys          string
	KeymapHandler string
	KeymapMode    string
	KeymapDesc    string

	// ActionRegisterEventHandler
	Event        string
	EventHandler string

	// ActionRegisterTheme
	ThemeName   string
	ThemeColors string
}

// Callbacks holds one slot per action kind; ExecuteSetup delivers each
// drained action to the matching slot. A nil slot silently drops actions
// of that kind.
type Callbacks struct {
	ShowMessage         func(message string)
	RegisterCommand     func(name, handler, desc string)
	RegisterKeymap      func(keys, handler, mode, desc string)
	RegisterEventHandler func(event, handler string)
	RegisterTheme       func(name, colors string)
}

// deliver dispatches a on the matching callback slot, if set.
func (cb Callbacks) deliver(a Action) {
	switch a.Kind {
	case ActionShowMessage:
		if cb.ShowMessage != nil {
			cb.ShowMessage(a.Message)
		}
	case ActionRegisterCommand:
		if cb.RegisterCommand != nil {
			cb.RegisterCommand(a.CommandName, a.CommandHandler, a.CommandDesc)
		}
	case ActionRegisterKeymap:
		if cb.RegisterKeymap != nil {
			cb.RegisterKeymap(a.Keys, a.KeymapHandler, a.KeymapMode, a.KeymapDesc)
		}
	case ActionRegisterEventHandler:
		if cb.RegisterEventHandler != nil {
			cb.RegisterEventHandler(a.Event, a.EventHandler)
		}
	case ActionRegisterTheme:
		if cb.RegisterTheme != nil {
			cb.RegisterTheme(a.ThemeName, a.ThemeColors)
		}
	}
}
