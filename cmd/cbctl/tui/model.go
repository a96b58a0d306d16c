// Package tui is the interactive boot order and options editor.
//
// The editor works on a *bootdata.Config in place. It never touches the
// image; Run reports whether the user chose to save and the caller stores
// the configuration after the program has exited.
package tui

import (
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/joshuapare/bootkit/bootdata"
)

// Screen identifies the visible screen.
type Screen int

const (
	MenuScreen Screen = iota
	RecordsScreen
	OptionsScreen
)

// menu items in display order
var menuItems = []struct {
	key   string
	label string
}{
	{"b", "Edit boot order"},
	{"o", "Edit options"},
	{"s", "Save & exit"},
	{"x", "Exit without saving"},
}

// Options configures the editor.
type Options struct {
	// Title is shown in the header, usually the image path.
	Title string
	// Clipboard receives the serialized boot order on the copy key.
	// Nil means the system clipboard.
	Clipboard func(string) error
	// Devices lists the devices under every record.
	Devices bool
}

// Model is the editor state.
type Model struct {
	cfg  *bootdata.Config
	opts Options
	keys KeyMap
	help help.Model

	screen     Screen
	menuCursor int
	recCursor  int
	optCursor  int

	// Hex value prompt
	prompting bool
	promptID  bootdata.OptionID
	input     textinput.Model

	showHelp bool
	dirty    bool
	save     bool

	// Status message for temporary feedback
	statusMessage string
	statusIsError bool

	width  int
	height int
}

// New returns an editor for c.
func New(c *bootdata.Config, opts Options) Model {
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}

	ti := textinput.New()
	ti.CharLimit = 6
	ti.Width = 10
	ti.Placeholder = "0"

	return Model{
		cfg:   c,
		opts:  opts,
		keys:  DefaultKeyMap(),
		help:  help.New(),
		input: ti,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Saved reports whether the user left through "Save & exit".
func (m Model) Saved() bool { return m.save }

// Dirty reports whether the configuration was changed.
func (m Model) Dirty() bool { return m.dirty }

// Screen returns the visible screen.
func (m Model) Screen() Screen { return m.screen }

// Run shows the editor until the user leaves it and reports whether the
// configuration should be saved.
func Run(c *bootdata.Config, opts Options, progOpts ...tea.ProgramOption) (bool, error) {
	p := tea.NewProgram(New(c, opts), append([]tea.ProgramOption{tea.WithAltScreen()}, progOpts...)...)
	final, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(Model)
	return ok && m.save, nil
}
