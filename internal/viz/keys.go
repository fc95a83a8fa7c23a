package viz

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Replay  key.Binding
	Visible key.Binding
	Theme   key.Binding
	Help    key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	Replay: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "replay"),
	),
	Visible: key.NewBinding(
		key.WithKeys("v"),
		key.WithHelp("v", "toggle visibility"),
	),
	Theme: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "theme"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) short() []key.Binding {
	return []key.Binding{k.Replay, k.Help, k.Quit}
}

func (k keyMap) full() []key.Binding {
	return []key.Binding{k.Replay, k.Visible, k.Theme, k.Help, k.Quit}
}

func (s Styles) helpLine(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, s.KeyHint.Render(h.Key)+" "+s.KeyAction.Render(h.Desc))
	}
	return strings.Join(parts, s.KeyAction.Render(" • "))
}
