package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/joshuapare/bootkit/bootdata"
)

// testHelper drives a Model the way the program loop would, without
// running commands.
type testHelper struct {
	t       *testing.T
	model   Model
	lastCmd tea.Cmd
	copied  []string
}

func newTestHelper(t *testing.T, names ...string) *testHelper {
	t.Helper()

	c := bootdata.New()
	for _, n := range names {
		c.Records = append(c.Records, bootdata.Record{Name: n, Devices: []string{"/" + strings.ToLower(n)}})
	}

	h := &testHelper{t: t}
	h.model = New(c, Options{
		Title: "test.rom",
		Clipboard: func(s string) error {
			h.copied = append(h.copied, s)
			return nil
		},
	})
	return h
}

func (h *testHelper) send(msg tea.Msg) *testHelper {
	h.t.Helper()
	updated, cmd := h.model.Update(msg)
	h.model = updated.(Model)
	h.lastCmd = cmd
	return h
}

func (h *testHelper) key(t tea.KeyType) *testHelper {
	h.t.Helper()
	return h.send(tea.KeyMsg{Type: t})
}

func (h *testHelper) runes(s string) *testHelper {
	h.t.Helper()
	for _, r := range s {
		h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return h
}

func (h *testHelper) config() *bootdata.Config { return h.model.cfg }

func (h *testHelper) order() []string {
	var out []string
	for _, r := range h.model.cfg.Records {
		out = append(out, r.Name)
	}
	return out
}

// quitting reports whether the last command ends the program.
func (h *testHelper) quitting() bool {
	if h.lastCmd == nil {
		return false
	}
	_, ok := h.lastCmd().(tea.QuitMsg)
	return ok
}
