package update

import (
	"fmt"
	"slices"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/taskboard/internal/model"
	"github.com/sandeepkv93/taskboard/internal/pipeline"
	"github.com/sandeepkv93/taskboard/internal/views"
)

func (m Model) Init() tea.Cmd {
	if m.startup == nil {
		return waitForChangeCmd(m.changes)
	}
	return tea.Batch(waitForChangeCmd(m.changes), m.startup)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		seq := m.statusSeq
		next, cmd := m.handleKey(typed)
		return next.expireStatus(seq, cmd)
	case TasksChangedMsg:
		m.clampCursor()
		m.logger.Debug("tasks changed")
		return m, waitForChangeCmd(m.changes)
	case SetStatusMsg:
		seq := m.statusSeq
		m.setStatus(typed.Text)
		return m.expireStatus(seq, nil)
	case ClearStatusMsg:
		if typed.Seq == m.statusSeq {
			m.Status = StatusBar{}
		}
		return m, nil
	case AppErrorMsg:
		if typed.Err != nil {
			m.setError(typed.Err)
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}
	if m.Palette.Active {
		return m.handlePaletteKey(msg), nil
	}
	switch m.Focus {
	case FocusSearch:
		return m.handleSearchKey(msg), nil
	case FocusForm:
		return m.handleFormKey(msg), nil
	}
	return m.handleListKey(msg)
}

// expireStatus schedules a ClearStatusMsg when the status changed since
// prevSeq. Errors stay until replaced.
func (m Model) expireStatus(prevSeq int, cmd tea.Cmd) (Model, tea.Cmd) {
	if m.Quitting || m.statusSeq == prevSeq || m.Status.IsError {
		return m, cmd
	}
	seq := m.statusSeq
	expire := tea.Tick(statusTTL, func(time.Time) tea.Msg { return ClearStatusMsg{Seq: seq} })
	if cmd == nil {
		return m, expire
	}
	return m, tea.Batch(cmd, expire)
}

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case m.Keys.Quit:
		return m.quit()
	case "tab":
		m.setFocus(nextFocus(m.Focus))
	case m.Keys.NewTask:
		m.setFocus(FocusForm)
		m.focusFormField(FieldTitle)
		m.setStatus("new task")
	case "/":
		m.Palette.Active = true
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.commandInput.Focus()
		m.setStatus("command palette active")
	case m.Keys.NextFilter:
		m.cycleFilter(1)
	case m.Keys.PrevFilter:
		m.cycleFilter(-1)
	case m.Keys.NextSort:
		m.cycleSort()
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.VisibleTasks())-1 {
			m.Cursor++
		}
	case " ", m.Keys.Toggle:
		if task, ok := m.SelectedTask(); ok {
			m.toggleTask(task.ID)
		}
	case m.Keys.Delete:
		if task, ok := m.SelectedTask(); ok {
			m.deleteTask(task.ID)
		}
	case m.Keys.Help:
		m.HelpVisible = !m.HelpVisible
		if m.HelpVisible {
			m.setStatus("help shown")
		} else {
			m.setStatus("help hidden")
		}
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "tab":
		m.setFocus(nextFocus(m.Focus))
		return m
	case "enter":
		m.setFocus(FocusList)
		return m
	case "esc":
		m.setSearch("")
		m.setFocus(FocusList)
		m.setStatus("search cleared")
		return m
	}
	m.searchInput = updateInput(m.searchInput, msg)
	m.Query.Search = m.searchInput.Value()
	m.clampCursor()
	return m
}

func (m Model) handleFormKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "tab":
		m.setFocus(nextFocus(m.Focus))
		return m
	case "esc":
		m.resetForm()
		m.setFocus(FocusList)
		m.setStatus("new task cancelled")
		return m
	case "enter":
		m.submitForm()
		return m
	case "down":
		m.focusFormField(cycle(formFields, m.Form.Field, 1))
		return m
	case "up":
		m.focusFormField(cycle(formFields, m.Form.Field, -1))
		return m
	}

	switch m.Form.Field {
	case FieldPriority:
		switch msg.String() {
		case "right", "l", " ":
			m.Form.Priority = cycle(model.Priorities, m.Form.Priority, 1)
		case "left", "h":
			m.Form.Priority = cycle(model.Priorities, m.Form.Priority, -1)
		}
	case FieldDue:
		m.dueInput = updateInput(m.dueInput, msg)
	default:
		m.titleInput = updateInput(m.titleInput, msg)
	}
	return m
}

func (m *Model) submitForm() {
	due, err := model.ParseDueDate(m.dueInput.Value())
	if err != nil {
		m.setError(err)
		m.focusFormField(FieldDue)
		return
	}
	if m.addTask(m.titleInput.Value(), m.Form.Priority, due) {
		m.resetForm()
		m.focusFormField(FieldTitle)
	}
}

// addTask reports whether the task entered the collection, even when the
// slot write failed.
func (m *Model) addTask(title string, priority model.Priority, due *time.Time) bool {
	task, err := m.Store.Add(m.ctx, title, priority, due)
	if task.ID == 0 {
		m.setError(err)
		return false
	}
	if err != nil {
		m.setError(err)
		return true
	}
	m.setStatus(fmt.Sprintf("added task #%d: %s", task.ID, task.Title))
	return true
}

func (m *Model) toggleTask(id int) {
	found, err := m.Store.ToggleComplete(m.ctx, id)
	switch {
	case !found:
		m.setStatus(fmt.Sprintf("task #%d not found", id))
	case err != nil:
		m.setError(err)
	default:
		task, _ := m.Store.Get(id)
		state := "pending"
		if task.Completed {
			state = "done"
		}
		m.setStatus(fmt.Sprintf("task #%d marked %s", id, state))
	}
	m.clampCursor()
}

func (m *Model) deleteTask(id int) {
	found, err := m.Store.Delete(m.ctx, id)
	switch {
	case !found:
		m.setStatus(fmt.Sprintf("task #%d not found", id))
	case err != nil:
		m.setError(err)
	default:
		m.setStatus(fmt.Sprintf("deleted task #%d", id))
	}
	m.clampCursor()
}

func (m *Model) cycleFilter(step int) {
	m.Query.Priority = cycle(pipeline.FilterOptions(), m.Query.Priority, step)
	m.Cursor = 0
	m.setStatus("filter: " + m.Query.Priority)
}

func (m *Model) cycleSort() {
	m.Query.Sort = cycle(pipeline.SortKeys, m.Query.Sort, 1)
	m.Cursor = 0
	m.setStatus("sort: " + m.Query.Sort.Label())
}

func (m Model) quit() (Model, tea.Cmd) {
	m.Quitting = true
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	return m, tea.Quit
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}
	tasks := m.Store.Tasks()
	summary := pipeline.Summarize(tasks)

	chips := make([]views.FilterChipData, 0, len(pipeline.FilterOptions()))
	for _, opt := range pipeline.FilterOptions() {
		chips = append(chips, views.FilterChipData{
			Label:  opt,
			Count:  summary.PriorityCounts[opt],
			Active: opt == m.Query.Priority,
		})
	}

	visible := pipeline.Apply(tasks, m.Query)
	rows := make([]views.TaskRowData, 0, len(visible))
	for _, t := range visible {
		rows = append(rows, views.TaskRowData{
			ID:        t.ID,
			Title:     t.Title,
			Priority:  string(t.Priority),
			Completed: t.Completed,
			Due:       t.DueLabel(),
		})
	}

	status := ""
	if m.Status.Text != "" {
		status = "status: " + m.Status.Text
		if m.Status.IsError {
			status = "status: error: " + m.Status.Text
		}
	}

	return views.RenderApp(views.AppData{
		Summary: views.SummaryData{
			Total:        summary.Total,
			Pending:      summary.Pending,
			DonePercent:  summary.DonePercent,
			ProgressView: m.doneProgress.ViewAs(float64(summary.DonePercent) / 100),
		},
		Filters:    chips,
		SortLabel:  m.Query.Sort.Label(),
		SearchView: m.searchInput.View(),
		FormView: views.RenderForm(views.FormData{
			Active:    m.Focus == FocusForm,
			Field:     string(m.Form.Field),
			TitleView: m.titleInput.View(),
			Priority:  string(m.Form.Priority),
			DueView:   m.dueInput.View(),
		}),
		ListView: views.RenderTaskList(views.TaskListData{
			Rows:    rows,
			Cursor:  m.Cursor,
			Focused: m.Focus == FocusList,
		}),
		Palette:    views.RenderCommandPalette(m.Palette.Active, m.commandInput.View()),
		Help:       m.renderHelpIfVisible(),
		StatusLine: status,
		IsError:    m.Status.IsError,
		Footer: fmt.Sprintf("keys: tab focus | %s new | %s/%s filter | %s sort | / cmd | space toggle | %s delete | %s help | %s quit",
			m.Keys.NewTask, m.Keys.NextFilter, m.Keys.PrevFilter, m.Keys.NextSort, m.Keys.Delete, m.Keys.Help, m.Keys.Quit),
	})
}

func waitForChangeCmd(ch <-chan []model.Task) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		tasks, ok := <-ch
		if !ok {
			return nil
		}
		return TasksChangedMsg{Tasks: tasks}
	}
}

func nextFocus(f Focus) Focus {
	return cycle(focusOrder, f, 1)
}

// cycle returns the element step positions after current, wrapping around.
// An unknown current value starts from the first element.
func cycle[T comparable](items []T, current T, step int) T {
	idx := slices.Index(items, current)
	if idx < 0 {
		return items[0]
	}
	n := len(items)
	return items[((idx+step)%n+n)%n]
}
