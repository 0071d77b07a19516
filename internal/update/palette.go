package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/taskboard/internal/commands"
	"go.uber.org/zap"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.closePalette()
		m.setStatus("command palette closed")
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		m = m.executePaletteCommand()
	default:
		m.commandInput = updateInput(m.commandInput, msg)
		m.Palette.Input = m.commandInput.Value()
	}
	return m
}

func (m *Model) closePalette() {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
}

func (m Model) executePaletteCommand() Model {
	raw := strings.TrimSpace(m.Palette.Input)
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.logger.Debug("palette command rejected", zap.String("raw", raw), zap.Error(err))
		m.setError(err)
		m.closePalette()
		return m
	}
	m.logger.Debug("palette command", zap.String("type", string(cmd.Type)), zap.String("raw", cmd.Raw))

	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			priority := a.Priority
			if priority == "" {
				priority = m.defaultPriority
			}
			task, err := m.Store.Add(m.ctx, a.Title, priority, a.DueDate)
			if err != nil && task.ID == 0 {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("added task #%d: %s", task.ID, task.Title)}, err
		},
		Toggle: func(a commands.IDArgs) (commands.Result, error) {
			found, err := m.Store.ToggleComplete(m.ctx, a.ID)
			if !found {
				return commands.Result{}, notFound(a.ID)
			}
			return commands.Result{Message: fmt.Sprintf("toggled task #%d", a.ID)}, err
		},
		Delete: func(a commands.IDArgs) (commands.Result, error) {
			found, err := m.Store.Delete(m.ctx, a.ID)
			if !found {
				return commands.Result{}, notFound(a.ID)
			}
			return commands.Result{Message: fmt.Sprintf("deleted task #%d", a.ID)}, err
		},
		Filter: func(a commands.FilterArgs) (commands.Result, error) {
			m.Query.Priority = a.Priority
			m.Cursor = 0
			return commands.Result{Message: "filter: " + a.Priority}, nil
		},
		Sort: func(a commands.SortArgs) (commands.Result, error) {
			m.Query.Sort = a.Key
			m.Cursor = 0
			return commands.Result{Message: "sort: " + a.Key.Label()}, nil
		},
		Search: func(a commands.SearchArgs) (commands.Result, error) {
			m.setSearch(a.Query)
			if strings.TrimSpace(a.Query) == "" {
				return commands.Result{Message: "search cleared"}, nil
			}
			return commands.Result{Message: fmt.Sprintf("search: %q", a.Query)}, nil
		},
		Clear: func() (commands.Result, error) {
			m.setSearch("")
			return commands.Result{Message: "search cleared"}, nil
		},
	})
	if err != nil {
		m.setError(err)
	} else {
		m.setStatus(res.Message)
	}

	m.clampCursor()
	m.closePalette()
	return m
}

func notFound(id int) error {
	return &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("task #%d not found", id)}
}
