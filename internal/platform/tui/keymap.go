package tui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/key"
)

// StageKeyMap defines the key bindings for the stage editor.
type StageKeyMap struct {
	Play      key.Binding
	Stop      key.Binding
	NextActor key.Binding
	PrevActor key.Binding
	AddActor  key.Binding
	DelActor  key.Binding
	Palette   key.Binding // Digits 1-9 append a block from the palette
	Nest      key.Binding
	Up        key.Binding
	Down      key.Binding
	MoveUp    key.Binding
	MoveDown  key.Binding
	Edit      key.Binding
	Remove    key.Binding
	Duplicate key.Binding
	Clear     key.Binding
	Save      key.Binding
	Help      key.Binding
	Quit      key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k StageKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Play, k.Stop, k.Palette, k.NextActor, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k StageKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Play, k.Stop, k.Save, k.Quit},
		{k.NextActor, k.PrevActor, k.AddActor, k.DelActor},
		{k.Palette, k.Nest, k.Edit, k.Help},
		{k.Up, k.Down, k.MoveUp, k.MoveDown},
		{k.Remove, k.Duplicate, k.Clear},
	}
}

// DefaultStageKeyMap returns default key bindings.
func DefaultStageKeyMap() StageKeyMap {
	return StageKeyMap{
		Play: key.NewBinding(
			key.WithKeys("p", " "),
			key.WithHelp("p/space", "play"),
		),
		Stop: key.NewBinding(
			key.WithKeys("s", "esc"),
			key.WithHelp("s/esc", "stop"),
		),
		NextActor: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next actor"),
		),
		PrevActor: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "prev actor"),
		),
		AddActor: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add actor"),
		),
		DelActor: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("C-d", "delete actor"),
		),
		Palette: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "add block"),
		),
		Nest: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "nest in loop"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "prev block"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "next block"),
		),
		MoveUp: key.NewBinding(
			key.WithKeys("shift+up", "K"),
			key.WithHelp("K", "move block up"),
		),
		MoveDown: key.NewBinding(
			key.WithKeys("shift+down", "J"),
			key.WithHelp("J", "move block down"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e", "enter"),
			key.WithHelp("e", "edit input"),
		),
		Remove: key.NewBinding(
			key.WithKeys("x", "backspace"),
			key.WithHelp("x", "remove block"),
		),
		Duplicate: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "duplicate block"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear program"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("C-s", "save project"),
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
}

// paletteIndex returns the zero-based palette slot for a digit key.
func paletteIndex(k string) (int, bool) {
	n, err := strconv.Atoi(k)
	if err != nil || n < 1 || n > 9 {
		return 0, false
	}
	return n - 1, true
}
