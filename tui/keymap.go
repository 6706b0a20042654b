package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the dashboard shortcuts.
type KeyMap struct {
	Camera     key.Binding
	Listen     key.Binding
	Analyze    key.Binding
	ClearVoice key.Binding
	TextMode   key.Binding
	Export     key.Binding
	Quit       key.Binding

	// text mode
	Submit key.Binding
	Back   key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Camera: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "camera"),
		),
		Listen: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "listen"),
		),
		Analyze: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "analyze speech"),
		),
		ClearVoice: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear speech"),
		),
		TextMode: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "type text"),
		),
		Export: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "export"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "analyze"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
	}
}

// ShortHelp lists the bindings shown in the footer for the current mode.
func (k KeyMap) ShortHelp(typing bool) []key.Binding {
	if typing {
		return []key.Binding{k.Submit, k.Back}
	}
	return []key.Binding{k.Camera, k.Listen, k.Analyze, k.ClearVoice, k.TextMode, k.Export, k.Quit}
}
