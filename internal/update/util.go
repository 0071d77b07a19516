package update

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// updateInput appends typed runes directly and hands every other key to the
// input's own Update (backspace, cursor movement).
func updateInput(in textinput.Model, msg tea.KeyMsg) textinput.Model {
	if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
		in.SetValue(in.Value() + string(msg.Runes))
		in.CursorEnd()
		return in
	}
	next, _ := in.Update(msg)
	return next
}
