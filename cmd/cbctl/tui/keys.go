package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts
type KeyMap struct {
	// Navigation
	Up     key.Binding
	Down   key.Binding
	Back   key.Binding
	Select key.Binding

	// Main menu
	BootOrder key.Binding
	Options   key.Binding
	Save      key.Binding
	Exit      key.Binding

	// Records screen
	MoveUp   key.Binding
	MoveDown key.Binding
	Pick     key.Binding // help only, the keys are the record labels

	// Options screen
	Toggle key.Binding

	// Commands
	Copy key.Binding
	Help key.Binding
	Quit key.Binding
}

// DefaultKeyMap returns the default keybindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// Navigation
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "q"),
			key.WithHelp("esc", "back"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),

		// Main menu
		BootOrder: key.NewBinding(
			key.WithKeys("b", "B"),
			key.WithHelp("b", "boot order"),
		),
		Options: key.NewBinding(
			key.WithKeys("o", "O"),
			key.WithHelp("o", "options"),
		),
		Save: key.NewBinding(
			key.WithKeys("s", "S"),
			key.WithHelp("s", "save & exit"),
		),
		Exit: key.NewBinding(
			key.WithKeys("x", "X", "esc", "q"),
			key.WithHelp("x", "exit"),
		),

		// Records screen
		MoveUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+p"),
			key.WithHelp("pgup", "move record up"),
		),
		MoveDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+n"),
			key.WithHelp("pgdn", "move record down"),
		),
		Pick: key.NewBinding(
			key.WithKeys(),
			key.WithHelp("A-Z 0-9", "move record here"),
		),

		// Options screen
		Toggle: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "toggle"),
		),

		// Commands
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy order"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit without saving"),
		),
	}
}

// screenKeys adapts the bindings of one screen to help.KeyMap.
type screenKeys struct {
	short []key.Binding
	full  [][]key.Binding
}

func (s screenKeys) ShortHelp() []key.Binding  { return s.short }
func (s screenKeys) FullHelp() [][]key.Binding { return s.full }

func (k KeyMap) forScreen(s Screen) screenKeys {
	switch s {
	case RecordsScreen:
		return screenKeys{
			short: []key.Binding{k.Pick, k.MoveUp, k.MoveDown, k.Back, k.Help},
			full: [][]key.Binding{
				{k.Up, k.Down, k.Pick},
				{k.MoveUp, k.MoveDown},
				{k.Copy, k.Back, k.Quit},
			},
		}
	case OptionsScreen:
		return screenKeys{
			short: []key.Binding{k.Toggle, k.Back, k.Help},
			full: [][]key.Binding{
				{k.Up, k.Down, k.Toggle},
				{k.Copy, k.Back, k.Quit},
			},
		}
	default:
		return screenKeys{
			short: []key.Binding{k.BootOrder, k.Options, k.Save, k.Exit, k.Help},
			full: [][]key.Binding{
				{k.Up, k.Down, k.Select},
				{k.BootOrder, k.Options, k.Save, k.Exit},
				{k.Copy, k.Quit},
			},
		}
	}
}
