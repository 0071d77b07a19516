package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/sandeepkv93/taskboard/internal/pipeline"
	"github.com/sandeepkv93/taskboard/internal/views"
)

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return m.renderHelpView()
}

func (m Model) renderHelpView() string {
	list, form := m.helpBindings()
	return views.RenderHelpPanel(views.HelpPanelData{
		Markdown: m.helpMarkdown(),
		HelpView: m.helpModel.View(helpKeyMap{
			short: list,
			full:  [][]key.Binding{list, form},
		}),
	})
}

func (m Model) listBindings() []KeyBinding {
	return []KeyBinding{
		{Key: "tab", Action: "cycle focus"},
		{Key: m.Keys.NewTask, Action: "new task"},
		{Key: m.Keys.NextFilter, Action: "next priority filter"},
		{Key: m.Keys.PrevFilter, Action: "previous priority filter"},
		{Key: m.Keys.NextSort, Action: "next sort order"},
		{Key: "j/k", Action: "move selection"},
		{Key: "space/" + m.Keys.Toggle, Action: "toggle complete"},
		{Key: m.Keys.Delete, Action: "delete task"},
		{Key: "/", Action: "command palette"},
		{Key: m.Keys.Help, Action: "toggle help"},
		{Key: m.Keys.Quit, Action: "quit"},
	}
}

func (m Model) formBindings() []KeyBinding {
	return []KeyBinding{
		{Key: "enter", Action: "add task"},
		{Key: "up/down", Action: "move between fields"},
		{Key: "left/right", Action: "change priority"},
		{Key: "esc", Action: "cancel"},
	}
}

func (m Model) helpBindings() (list []key.Binding, form []key.Binding) {
	for _, kb := range m.listBindings() {
		list = append(list, key.NewBinding(key.WithKeys(strings.Split(kb.Key, "/")...), key.WithHelp(kb.Key, kb.Action)))
	}
	for _, kb := range m.formBindings() {
		form = append(form, key.NewBinding(key.WithKeys(strings.Split(kb.Key, "/")...), key.WithHelp(kb.Key, kb.Action)))
	}
	return list, form
}

func (m Model) helpMarkdown() string {
	var b strings.Builder
	b.WriteString("# Help\n\n")
	b.WriteString("## Commands\n\n")
	b.WriteString("| command | effect |\n|---|---|\n")
	b.WriteString("| `/add <title> [p:Low\\|Medium\\|High] [due:YYYY-MM-DD]` | create a task |\n")
	b.WriteString("| `/done <id>` | toggle complete |\n")
	b.WriteString("| `/delete <id>` | delete a task |\n")
	b.WriteString("| `/filter All\\|Low\\|Medium\\|High` | filter by priority |\n")
	b.WriteString("| `/sort <key>` | change sort order |\n")
	b.WriteString("| `/search <text>` | filter by title |\n")
	b.WriteString("| `/clear` | clear search |\n\n")
	b.WriteString("## Sort keys\n\n")
	for _, k := range pipeline.SortKeys {
		b.WriteString(fmt.Sprintf("- `%s`: %s\n", k, k.Label()))
	}
	return b.String()
}
