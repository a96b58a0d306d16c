package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// mainView wraps the current screen for use as overlay background
type mainView struct {
	model *Model
}

func (v *mainView) Init() tea.Cmd { return nil }

// Update is a no-op; the parent Model handles all messages.
func (v *mainView) Update(tea.Msg) (tea.Model, tea.Cmd) { return v, nil }

func (v *mainView) View() string { return v.model.renderMain() }

// promptView wraps the hex value prompt for use as overlay foreground
type promptView struct {
	model *Model
}

func (v *promptView) Init() tea.Cmd { return nil }

func (v *promptView) Update(tea.Msg) (tea.Model, tea.Cmd) { return v, nil }

func (v *promptView) View() string { return v.model.viewPrompt() }
