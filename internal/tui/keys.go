package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the player's keyboard bindings.
type keyMap struct {
	playPause, back, forward,
	volumeUp, volumeDown, mute,
	fullscreen, next, prev,
	seekTo,
	help, quit key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		playPause: key.NewBinding(
			key.WithKeys(" ", "k"),
			key.WithHelp("space", "play/pause"),
		),
		back: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "back"),
		),
		forward: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "forward"),
		),
		volumeUp: key.NewBinding(
			key.WithKeys("up", "+", "="),
			key.WithHelp("↑", "volume up"),
		),
		volumeDown: key.NewBinding(
			key.WithKeys("down", "-"),
			key.WithHelp("↓", "volume down"),
		),
		mute: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mute"),
		),
		fullscreen: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "fullscreen"),
		),
		next: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next"),
		),
		prev: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "previous"),
		),
		seekTo: key.NewBinding(
			key.WithKeys("0", "1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("0-9", "seek to 0-90%"),
		),
		help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.playPause, k.back, k.forward, k.mute, k.fullscreen, k.help, k.quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.playPause, k.back, k.forward, k.seekTo},
		{k.volumeUp, k.volumeDown, k.mute, k.fullscreen},
		{k.next, k.prev, k.help, k.quit},
	}
}
