package tui

import (
	"errors"
	"fmt"
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/bootkit/bootdata"
)

func TestRecordLabels(t *testing.T) {
	keys := DefaultKeyMap()
	seen := map[string]bool{}
	for i := range bootdata.MaxRecords {
		label := RecordLabel(i)
		require.Len(t, label, 1, "record %d", i)
		require.False(t, seen[label], "label %q used twice", label)
		seen[label] = true

		got, ok := recordIndex(rune(label[0]))
		require.True(t, ok)
		require.Equal(t, i, got)

		msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(label)}
		for _, b := range []key.Binding{keys.Up, keys.Down, keys.Back, keys.Copy, keys.Help} {
			require.False(t, key.Matches(msg, b), "label %q is bound to %v", label, b.Keys())
		}
	}

	require.Empty(t, RecordLabel(bootdata.MaxRecords))
	require.Empty(t, RecordLabel(-1))
	_, ok := recordIndex('?')
	require.False(t, ok)
}

func TestMenu(t *testing.T) {
	t.Run("screens", func(t *testing.T) {
		h := newTestHelper(t, "USB", "SD")
		assert.Equal(t, MenuScreen, h.model.Screen())

		h.runes("b")
		assert.Equal(t, RecordsScreen, h.model.Screen())
		h.key(tea.KeyEsc)
		assert.Equal(t, MenuScreen, h.model.Screen())

		h.runes("O")
		assert.Equal(t, OptionsScreen, h.model.Screen())
		h.runes("q")
		assert.Equal(t, MenuScreen, h.model.Screen())
	})

	t.Run("cursor and enter", func(t *testing.T) {
		h := newTestHelper(t, "USB")
		h.key(tea.KeyDown).key(tea.KeyEnter)
		assert.Equal(t, OptionsScreen, h.model.Screen())
	})

	t.Run("save and exit", func(t *testing.T) {
		h := newTestHelper(t, "USB")
		h.runes("s")
		assert.True(t, h.quitting())
		assert.True(t, h.model.Saved())
	})

	t.Run("exit without saving", func(t *testing.T) {
		h := newTestHelper(t, "USB")
		h.runes("x")
		assert.True(t, h.quitting())
		assert.False(t, h.model.Saved())
	})

	t.Run("ctrl+c anywhere", func(t *testing.T) {
		h := newTestHelper(t, "USB")
		h.runes("b").key(tea.KeyCtrlC)
		assert.True(t, h.quitting())
		assert.False(t, h.model.Saved())
	})
}

func TestRecordsScreen(t *testing.T) {
	t.Run("letter moves record to cursor", func(t *testing.T) {
		h := newTestHelper(t, "A", "B", "C", "D")
		h.runes("b")

		h.runes("C")
		assert.Equal(t, []string{"C", "A", "B", "D"}, h.order())
		assert.Equal(t, 1, h.model.recCursor)

		h.runes("D")
		assert.Equal(t, []string{"C", "D", "A", "B"}, h.order())
		assert.Equal(t, 2, h.model.recCursor)
		assert.True(t, h.model.Dirty())
	})

	t.Run("labels past Z reach every record", func(t *testing.T) {
		var names []string
		for i := range bootdata.MaxRecords {
			names = append(names, fmt.Sprintf("R%02d", i))
		}
		h := newTestHelper(t, names...)
		h.runes("b")

		h.runes(RecordLabel(30) + RecordLabel(63))
		order := h.order()
		assert.Equal(t, []string{"R30", "R63", "R00"}, order[:3])
		assert.Equal(t, 2, h.model.recCursor)
	})

	t.Run("letter past the last record", func(t *testing.T) {
		h := newTestHelper(t, "A", "B")
		h.runes("bZ")
		assert.Equal(t, []string{"A", "B"}, h.order())
		assert.False(t, h.model.Dirty())
	})

	t.Run("page keys move the current record", func(t *testing.T) {
		h := newTestHelper(t, "A", "B", "C")
		h.runes("b")

		h.key(tea.KeyPgDown)
		assert.Equal(t, []string{"B", "A", "C"}, h.order())
		assert.Equal(t, 1, h.model.recCursor)

		h.key(tea.KeyCtrlN)
		assert.Equal(t, []string{"B", "C", "A"}, h.order())
		assert.Equal(t, 2, h.model.recCursor)

		// already last
		h.key(tea.KeyPgDown)
		assert.Equal(t, []string{"B", "C", "A"}, h.order())

		h.key(tea.KeyCtrlP)
		assert.Equal(t, []string{"B", "A", "C"}, h.order())
		h.key(tea.KeyPgUp)
		assert.Equal(t, []string{"A", "B", "C"}, h.order())
		assert.Equal(t, 0, h.model.recCursor)

		h.key(tea.KeyPgUp)
		assert.Equal(t, []string{"A", "B", "C"}, h.order())
	})

	t.Run("cursor stays in range", func(t *testing.T) {
		h := newTestHelper(t, "A", "B")
		h.runes("b")
		h.key(tea.KeyUp)
		assert.Equal(t, 0, h.model.recCursor)
		h.runes("jjj")
		assert.Equal(t, 1, h.model.recCursor)
	})

	t.Run("no records", func(t *testing.T) {
		h := newTestHelper(t)
		h.runes("b").key(tea.KeyPgDown).runes("A")
		assert.Empty(t, h.order())
		assert.Contains(t, h.model.View(), "no boot records")
	})
}

func TestOptionsScreen(t *testing.T) {
	t.Run("shortcut toggles", func(t *testing.T) {
		h := newTestHelper(t, "USB")
		h.runes("o")

		h.runes("n")
		assert.Equal(t, 1, h.config().Value(bootdata.OptPXE))
		assert.Equal(t, int(bootdata.OptPXE), h.model.optCursor)

		// k is a shortcut here, not "up"
		h.runes("k")
		assert.Equal(t, 1, h.config().Value(bootdata.OptCOM2Redirect))
		assert.Equal(t, int(bootdata.OptCOM2Redirect), h.model.optCursor)

		h.runes("n")
		assert.Equal(t, 0, h.config().Value(bootdata.OptPXE))
	})

	t.Run("space and enter toggle the current option", func(t *testing.T) {
		h := newTestHelper(t, "USB")
		h.runes("o")

		h.key(tea.KeySpace)
		assert.Equal(t, 1, h.config().Value(bootdata.OptionID(0)))
		h.key(tea.KeyDown).key(tea.KeyEnter)
		assert.Equal(t, 1, h.config().Value(bootdata.OptionID(1)))
		assert.True(t, h.model.Dirty())
	})

	t.Run("hex prompt", func(t *testing.T) {
		h := newTestHelper(t, "USB")
		h.runes("o")

		h.runes("w")
		require.True(t, h.model.prompting)
		assert.Contains(t, h.model.View(), "Range: [0; 65535]")

		h.runes("300").key(tea.KeyEnter)
		assert.False(t, h.model.prompting)
		assert.Equal(t, 300, h.config().Value(bootdata.OptWatchdog))

		// nonzero clears without asking
		h.runes("w")
		assert.False(t, h.model.prompting)
		assert.Equal(t, 0, h.config().Value(bootdata.OptWatchdog))
	})

	t.Run("hex prompt rejects out of range", func(t *testing.T) {
		h := newTestHelper(t, "USB")
		h.runes("o").runes("w").runes("70000").key(tea.KeyEnter)

		assert.True(t, h.model.prompting)
		assert.True(t, h.model.statusIsError)
		assert.Contains(t, h.model.statusMessage, "[0; 65535]")
		assert.Equal(t, 0, h.config().Value(bootdata.OptWatchdog))
	})

	t.Run("hex prompt cancel", func(t *testing.T) {
		h := newTestHelper(t, "USB")
		h.runes("o").runes("w").runes("12").key(tea.KeyEsc)

		assert.False(t, h.model.prompting)
		assert.Equal(t, OptionsScreen, h.model.Screen())
		assert.Equal(t, 0, h.config().Value(bootdata.OptWatchdog))
	})
}

func TestCopyOrder(t *testing.T) {
	h := newTestHelper(t, "USB", "SD")

	h.runes("y")
	require.Len(t, h.copied, 1)
	assert.Equal(t, string(bootdata.DumpOrder(h.config())), h.copied[0])
	assert.Equal(t, "Copied boot order to clipboard", h.model.statusMessage)
	require.NotNil(t, h.lastCmd)

	h.send(clearStatusMsg{})
	assert.Empty(t, h.model.statusMessage)
}

func TestCopyOrderFailure(t *testing.T) {
	c := bootdata.New()
	m := New(c, Options{Clipboard: func(string) error { return errors.New("no clipboard") }})

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	m = updated.(Model)
	assert.True(t, m.statusIsError)
	assert.Contains(t, m.statusMessage, "no clipboard")
}

func TestHelpToggle(t *testing.T) {
	h := newTestHelper(t, "USB")

	h.runes("?")
	assert.True(t, h.model.showHelp)
	// other keys are swallowed while help is shown
	h.runes("b")
	assert.Equal(t, MenuScreen, h.model.Screen())
	h.runes("?")
	assert.False(t, h.model.showHelp)
}

func TestView(t *testing.T) {
	h := newTestHelper(t, "USB", "SD card")
	h.send(tea.WindowSizeMsg{Width: 100, Height: 30})

	view := h.model.View()
	assert.Contains(t, view, "test.rom")
	assert.Contains(t, view, "Edit boot order")
	assert.NotContains(t, view, "[modified]")

	h.runes("b")
	view = h.model.View()
	assert.Contains(t, view, "USB")
	assert.Contains(t, view, "SD card")

	h.runes("B")
	assert.Contains(t, h.model.View(), "[modified]")

	h.key(tea.KeyEsc).runes("o")
	view = h.model.View()
	for _, d := range bootdata.Options() {
		assert.Contains(t, view, d.Description)
	}
}
