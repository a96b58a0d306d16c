package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/joshuapare/bootkit/bootdata"
)

// clearStatusMsg clears the status line.
type clearStatusMsg struct{}

const statusTimeout = 2 * time.Second

func clearStatus() tea.Cmd {
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

// Update handles all messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case clearStatusMsg:
		m.statusMessage = ""
		m.statusIsError = false
		return m, nil

	case tea.KeyMsg:
		if m.prompting {
			return m.updatePrompt(msg)
		}

		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if m.showHelp {
			if key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Back) {
				m.showHelp = false
			}
			return m, nil
		}

		switch m.screen {
		case RecordsScreen:
			return m.updateRecords(msg)
		case OptionsScreen:
			return m.updateOptions(msg)
		default:
			return m.updateMenu(msg)
		}
	}
	return m, nil
}

// commonKeys handles keys shared by every screen.
func (m Model) commonKeys(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil, true
	case key.Matches(msg, m.keys.Copy):
		m, cmd := m.copyOrder()
		return m, cmd, true
	}
	return m, nil, false
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m, cmd, ok := m.commonKeys(msg); ok {
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.menuCursor > 0 {
			m.menuCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.menuCursor < len(menuItems)-1 {
			m.menuCursor++
		}
	case key.Matches(msg, m.keys.Select):
		return m.activate(menuItems[m.menuCursor].key)
	case key.Matches(msg, m.keys.BootOrder):
		return m.activate("b")
	case key.Matches(msg, m.keys.Options):
		return m.activate("o")
	case key.Matches(msg, m.keys.Save):
		return m.activate("s")
	case key.Matches(msg, m.keys.Exit):
		return m.activate("x")
	}
	return m, nil
}

func (m Model) activate(item string) (tea.Model, tea.Cmd) {
	switch item {
	case "b":
		m.screen = RecordsScreen
	case "o":
		m.screen = OptionsScreen
	case "s":
		m.save = true
		return m, tea.Quit
	case "x":
		m.save = false
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateRecords(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m, cmd, ok := m.commonKeys(msg); ok {
		return m, cmd
	}

	n := len(m.cfg.Records)

	// A record label picks the record it labels.
	if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 {
		if i, ok := recordIndex(msg.Runes[0]); ok {
			if i >= n {
				return m, nil
			}
			m.cfg.Move(i, m.recCursor)
			m.dirty = true
			if m.recCursor < n-1 {
				m.recCursor++
			}
			return m, nil
		}
	}

	switch {
	case key.Matches(msg, m.keys.Back):
		m.screen = MenuScreen
	case key.Matches(msg, m.keys.Up):
		if m.recCursor > 0 {
			m.recCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.recCursor < n-1 {
			m.recCursor++
		}
	case key.Matches(msg, m.keys.MoveUp):
		if m.recCursor > 0 {
			m.cfg.Move(m.recCursor, m.recCursor-1)
			m.recCursor--
			m.dirty = true
		}
	case key.Matches(msg, m.keys.MoveDown):
		if m.recCursor < n-1 {
			m.cfg.Move(m.recCursor, m.recCursor+1)
			m.recCursor++
			m.dirty = true
		}
	}
	return m, nil
}

func (m Model) updateOptions(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Option shortcuts shadow the navigation letters on this screen.
	if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 {
		if id, ok := bootdata.LookupShortcut(msg.Runes[0]); ok {
			m.optCursor = int(id)
			return m.toggle(id)
		}
	}
	if m, cmd, ok := m.commonKeys(msg); ok {
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Back):
		m.screen = MenuScreen
	case key.Matches(msg, m.keys.Up):
		if m.optCursor > 0 {
			m.optCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.optCursor < bootdata.NumOptions-1 {
			m.optCursor++
		}
	case key.Matches(msg, m.keys.Toggle):
		return m.toggle(bootdata.OptionID(m.optCursor))
	}
	return m, nil
}

// toggle flips an option. A hex option that is off asks for a value.
func (m Model) toggle(id bootdata.OptionID) (tea.Model, tea.Cmd) {
	if m.cfg.Toggle(id) {
		m.dirty = true
		return m, nil
	}
	if bootdata.Def(id).Kind == bootdata.Hex4 {
		m.prompting = true
		m.promptID = id
		m.input.SetValue("")
		return m, m.input.Focus()
	}
	return m, nil
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.prompting = false
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		v, err := bootdata.ParseValue(m.promptID, m.input.Value())
		if err != nil {
			m.statusMessage = fmt.Sprintf("Invalid value %q, expected a number in [0; %d]", m.input.Value(), bootdata.MaxHex4)
			m.statusIsError = true
			return m, clearStatus()
		}
		m.cfg.Set(m.promptID, v)
		m.dirty = true
		m.prompting = false
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) copyOrder() (Model, tea.Cmd) {
	if err := m.opts.Clipboard(string(bootdata.DumpOrder(m.cfg))); err != nil {
		m.statusMessage = fmt.Sprintf("Copy failed: %v", err)
		m.statusIsError = true
	} else {
		m.statusMessage = "Copied boot order to clipboard"
		m.statusIsError = false
	}
	return m, clearStatus()
}
