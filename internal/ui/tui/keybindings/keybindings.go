package keybindings

import (
	"slices"

	tea "github.com/charmbracelet/bubbletea"
)

// Action is what a key press asks the console to do
type Action string

const (
	// Global actions
	ActionQuit       Action = "quit"
	ActionToggleHelp Action = "toggle_help"
	ActionBack       Action = "back" // General purpose "go back" or "cancel"

	// Navigation actions
	ActionMoveUp     Action = "move_up"
	ActionMoveDown   Action = "move_down"
	ActionPageUp     Action = "page_up"
	ActionPageDown   Action = "page_down"
	ActionMoveTop    Action = "move_top"
	ActionMoveBottom Action = "move_bottom"

	// Player actions
	ActionOpenURL          Action = "open_url"
	ActionClear            Action = "clear"
	ActionTogglePlay       Action = "toggle_play"
	ActionSeekForward      Action = "seek_forward"
	ActionSeekBackward     Action = "seek_backward"
	ActionVolumeUp         Action = "volume_up"
	ActionVolumeDown       Action = "volume_down"
	ActionToggleMute       Action = "toggle_mute"
	ActionToggleFullscreen Action = "toggle_fullscreen"
	ActionTogglePip        Action = "toggle_pip"
	ActionShowTitle        Action = "show_title"

	// URL input actions
	ActionSubmitURL Action = "submit_url"
)

// ContextName names a part of the console with its own set of keys
type ContextName string

const (
	ContextGlobal   ContextName = "global"
	ContextPlayer   ContextName = "player"
	ContextURLInput ContextName = "url_input"
	ContextHelp     ContextName = "help"
)

var ContextBindings = map[ContextName][]Binding{
	ContextGlobal:   globalBindings,
	ContextPlayer:   playerBindings,
	ContextURLInput: urlInputBindings,
	ContextHelp:     helpBindings,
}

// KeyMap holds the keys of one action and its help text
type KeyMap struct {
	Primary   string
	Secondary string // Optional alternative key
	Help      string
}

// Binding maps an action to its keys and help text
type Binding struct {
	Action Action
	KeyMap KeyMap
}

func bind(action Action, help string, keys ...string) Binding {
	b := Binding{Action: action, KeyMap: KeyMap{Primary: keys[0], Help: help}}
	if len(keys) > 1 {
		b.KeyMap.Secondary = keys[1]
	}
	return b
}

// navigationBindings scroll whatever list or viewport has focus
var navigationBindings = []Binding{
	bind(ActionMoveUp, "Scroll up", "up", "k"),
	bind(ActionMoveDown, "Scroll down", "down", "j"),
	bind(ActionPageUp, "Page up", "pgup"),
	bind(ActionPageDown, "Page down", "pgdown"),
	bind(ActionMoveTop, "Jump to top", "home"),
	bind(ActionMoveBottom, "Jump to bottom", "end"),
}

// globalBindings work in every view and modal
var globalBindings = []Binding{
	bind(ActionQuit, "Quit reel", "ctrl+c"),
	bind(ActionToggleHelp, "Toggle help screen", "ctrl+h"),
	bind(ActionBack, "Close the modal or cancel loading", "esc"),
}

var playerBindings = []Binding{
	bind(ActionOpenURL, "Open a url", "o", "/"),
	bind(ActionClear, "Close the player", "x"),
	bind(ActionTogglePlay, "Play/pause", " ", "p"),
	bind(ActionSeekForward, "Seek forward 10 seconds", "right", "l"),
	bind(ActionSeekBackward, "Seek back 10 seconds", "left", "h"),
	bind(ActionVolumeUp, "Volume up", "+", "="),
	bind(ActionVolumeDown, "Volume down", "-"),
	bind(ActionToggleMute, "Toggle mute", "m"),
	bind(ActionToggleFullscreen, "Toggle fullscreen", "f"),
	bind(ActionTogglePip, "Toggle picture-in-picture", "i"),
	bind(ActionShowTitle, "Fetch the content title", "t"),
}

// urlInputBindings apply while the url input has focus
var urlInputBindings = []Binding{
	bind(ActionBack, "Cancel without loading", "esc"),
	bind(ActionSubmitURL, "Load the url.  An empty url closes the player", "enter"),
}

var helpBindings = withNavigation(nil)

// GetBindingByKey finds the binding of key, returning its action and help text.  Both are empty when nothing is
// bound to key.
func GetBindingByKey(key string, bindings []Binding) (Action, string) {
	i := slices.IndexFunc(bindings, func(b Binding) bool {
		return b.KeyMap.Primary == key || b.KeyMap.Secondary == key
	})
	if i < 0 {
		return "", ""
	}
	return bindings[i].Action, bindings[i].KeyMap.Help
}

// GetActionByKey resolves a key press within a context
func GetActionByKey(keyMsg tea.KeyMsg, name ContextName) Action {
	action, _ := GetBindingByKey(keyMsg.String(), ContextBindings[name])
	return action
}

// DisplayKey renders a key name for humans
func DisplayKey(key string) string {
	if key == " " {
		return "space"
	}
	return key
}

// Keys renders both keys of a binding, e.g. "space/p"
func (b Binding) Keys(sep string) string {
	if b.KeyMap.Secondary == "" {
		return DisplayKey(b.KeyMap.Primary)
	}
	return DisplayKey(b.KeyMap.Primary) + sep + DisplayKey(b.KeyMap.Secondary)
}

// FormatKeyHelp renders a binding as "keys: help"
func FormatKeyHelp(binding Binding) string {
	return binding.Keys("/") + ": " + binding.KeyMap.Help
}

// withNavigation prepends the navigation bindings to a context's own bindings
func withNavigation(bindings []Binding) []Binding {
	return append(append([]Binding{}, navigationBindings...), bindings...)
}
