package tui

import (
	"fmt"
	"strings"

	overlay "github.com/rmhubbert/bubbletea-overlay"

	"github.com/joshuapare/bootkit/bootdata"
	"github.com/joshuapare/bootkit/internal/textenc"
)

// View renders the current screen, with the value prompt on top of it
// while one is open.
func (m Model) View() string {
	if m.prompting {
		promptOverlay := overlay.New(
			&promptView{model: &m},
			&mainView{model: &m},
			overlay.Center,
			overlay.Center,
			0,
			0,
		)
		return promptOverlay.View()
	}
	return m.renderMain()
}

func (m Model) renderMain() string {
	var b strings.Builder

	header := "cbctl"
	if m.opts.Title != "" {
		header += " - " + m.opts.Title
	}
	if m.dirty {
		header += " " + dirtyStyle.Render("[modified]")
	}
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	switch m.screen {
	case RecordsScreen:
		b.WriteString(m.viewRecords())
	case OptionsScreen:
		b.WriteString(m.viewOptions())
	default:
		b.WriteString(m.viewMenu())
	}

	if m.statusMessage != "" {
		b.WriteString("\n")
		if m.statusIsError {
			b.WriteString(errorStyle.Render(m.statusMessage))
		} else {
			b.WriteString(statusStyle.Render(m.statusMessage))
		}
	}

	b.WriteString("\n\n")
	keys := m.keys.forScreen(m.screen)
	if m.showHelp {
		b.WriteString(m.help.FullHelpView(keys.FullHelp()))
	} else {
		b.WriteString(m.help.ShortHelpView(keys.ShortHelp()))
	}
	return b.String()
}

func (m Model) viewMenu() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Main menu"))
	b.WriteString("\n\n")
	for i, item := range menuItems {
		line := fmt.Sprintf("%s  %s", keyStyle.Render(strings.ToUpper(item.key)), item.label)
		if i == m.menuCursor {
			b.WriteString(selectedStyle.Render(fmt.Sprintf("%s  %s", strings.ToUpper(item.key), item.label)))
		} else {
			b.WriteString(itemStyle.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewRecords() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Boot order"))
	b.WriteString("\n\n")
	if len(m.cfg.Records) == 0 {
		b.WriteString(hintStyle.Render("  no boot records"))
		b.WriteString("\n")
		return b.String()
	}
	for i, r := range m.cfg.Records {
		letter := RecordLabel(i)
		name := textenc.Display(r.Name)
		if i == m.recCursor {
			b.WriteString(selectedStyle.Render(fmt.Sprintf("%s  %s", letter, name)))
		} else {
			b.WriteString(itemStyle.Render(fmt.Sprintf("%s  %s", keyStyle.Render(letter), name)))
		}
		b.WriteString("\n")
		if m.opts.Devices {
			for _, dev := range r.Devices {
				b.WriteString(deviceStyle.Render(dev))
				b.WriteString("\n")
			}
		}
	}
	return b.String()
}

func (m Model) viewOptions() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Options"))
	b.WriteString("\n\n")
	for i, d := range bootdata.Options() {
		value := m.cfg.FormatValue(d.ID)
		styled := valueOnStyle.Render(value)
		if m.cfg.Value(d.ID) == 0 && d.Kind != bootdata.Toggle {
			styled = valueOffStyle.Render(value)
		}
		if i == m.optCursor {
			b.WriteString(selectedStyle.Render(fmt.Sprintf("%c  %-45s %s", d.Shortcut, d.Description, value)))
		} else {
			b.WriteString(itemStyle.Render(fmt.Sprintf("%s  %-45s %s", keyStyle.Render(string(d.Shortcut)), d.Description, styled)))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewPrompt() string {
	d := bootdata.Def(m.promptID)
	body := fmt.Sprintf("%s\n%s\n%s",
		d.Description,
		m.input.View(),
		hintStyle.Render(fmt.Sprintf("Range: [0; %d]  enter to accept, esc to cancel", bootdata.MaxHex4)))
	return promptStyle.Render(body)
}
