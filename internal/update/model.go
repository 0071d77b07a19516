package update

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/taskboard/internal/config"
	"github.com/sandeepkv93/taskboard/internal/model"
	"github.com/sandeepkv93/taskboard/internal/persist"
	"github.com/sandeepkv93/taskboard/internal/pipeline"
	"github.com/sandeepkv93/taskboard/internal/store"
	"go.uber.org/zap"
)

type Focus string

const (
	FocusList   Focus = "list"
	FocusSearch Focus = "search"
	FocusForm   Focus = "form"
)

var focusOrder = []Focus{FocusList, FocusSearch, FocusForm}

type FormField string

const (
	FieldTitle    FormField = "title"
	FieldPriority FormField = "priority"
	FieldDue      FormField = "due"
)

var formFields = []FormField{FieldTitle, FieldPriority, FieldDue}

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	NewTask    string
	NextFilter string
	PrevFilter string
	NextSort   string
	Toggle     string
	Delete     string
	Help       string
	Quit       string
}

type FormState struct {
	Field    FormField
	Priority model.Priority
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type Model struct {
	Store       *store.Store
	Query       pipeline.Query
	Focus       Focus
	Cursor      int
	Form        FormState
	Palette     CommandPaletteState
	HelpVisible bool
	Status      StatusBar
	Keys        GlobalKeyMap
	Quitting    bool
	LastError   error

	defaultPriority model.Priority
	statusSeq       int
	startup         tea.Cmd
	changes         chan []model.Task
	unsubscribe     func()
	ctx             context.Context
	logger          *zap.Logger

	titleInput   textinput.Model
	dueInput     textinput.Model
	searchInput  textinput.Model
	commandInput textinput.Model
	doneProgress progress.Model
	helpModel    help.Model
}

// TasksChangedMsg is delivered after the store commits a mutation.
type TasksChangedMsg struct {
	Tasks []model.Task
}

type SetStatusMsg struct {
	Text string
}

// ClearStatusMsg clears the status bar if no newer status replaced the one
// numbered Seq.
type ClearStatusMsg struct {
	Seq int
}

// statusTTL is how long a non-error status stays on screen.
const statusTTL = 4 * time.Second

type AppErrorMsg struct {
	Err error
}

func NewModel(st *store.Store, cfg config.RuntimeConfig, logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	sortKey, err := pipeline.ParseSortKey(cfg.DefaultSort)
	if err != nil {
		sortKey = pipeline.SortNewest
	}
	priority, err := model.ParsePriority(cfg.DefaultPriority)
	if err != nil {
		priority = model.PriorityMedium
	}

	m := Model{
		Store: st,
		Query: pipeline.Query{
			Priority: pipeline.FilterAll,
			Sort:     sortKey,
		},
		Focus: FocusList,
		Form: FormState{
			Field:    FieldTitle,
			Priority: priority,
		},
		Keys: GlobalKeyMap{
			NewTask:    "a",
			NextFilter: "f",
			PrevFilter: "F",
			NextSort:   "s",
			Toggle:     "x",
			Delete:     "d",
			Help:       "?",
			Quit:       "q",
		},
		defaultPriority: priority,
		changes:         make(chan []model.Task, 1),
		ctx:             context.Background(),
		logger:          logger,
	}
	m.initBubbleComponents()
	if st != nil {
		changes := m.changes
		m.unsubscribe = st.Subscribe(func(tasks []model.Task) {
			select {
			case changes <- tasks:
			default:
			}
		})
	}
	return m
}

func (m *Model) initBubbleComponents() {
	m.titleInput = textinput.New()
	m.titleInput.Prompt = "title: "
	m.titleInput.Placeholder = "What needs to be done?"
	m.titleInput.CharLimit = 256
	m.titleInput.Width = 48

	m.dueInput = textinput.New()
	m.dueInput.Prompt = "due: "
	m.dueInput.Placeholder = model.DateLayout
	m.dueInput.CharLimit = 32
	m.dueInput.Width = 20

	m.searchInput = textinput.New()
	m.searchInput.Prompt = "search: "
	m.searchInput.Placeholder = "Search tasks..."
	m.searchInput.CharLimit = 256
	m.searchInput.Width = 48

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.doneProgress = progress.New(progress.WithDefaultGradient(), progress.WithWidth(18), progress.WithoutPercentage())

	m.helpModel = help.New()
	m.helpModel.ShowAll = true
}

// ReportLoad queues a startup notice describing how the stored tasks were
// read. A clean load queues nothing.
func (m Model) ReportLoad(res persist.LoadResult) Model {
	switch {
	case res.Outcome == persist.OutcomeFallback:
		err := errors.New("stored tasks could not be read; starting empty")
		if res.Err != nil {
			err = fmt.Errorf("%s: %w", err, res.Err)
		}
		m.startup = func() tea.Msg { return AppErrorMsg{Err: err} }
	case res.Skipped > 0 || res.Reassigned > 0:
		text := fmt.Sprintf("repaired stored tasks: %d skipped, %d ids reassigned", res.Skipped, res.Reassigned)
		m.startup = func() tea.Msg { return SetStatusMsg{Text: text} }
	}
	return m
}

// VisibleTasks runs the current query over the store's collection.
func (m Model) VisibleTasks() []model.Task {
	if m.Store == nil {
		return nil
	}
	return pipeline.Apply(m.Store.Tasks(), m.Query)
}

// SelectedTask returns the task under the cursor in the visible list.
func (m Model) SelectedTask() (model.Task, bool) {
	visible := m.VisibleTasks()
	if m.Cursor < 0 || m.Cursor >= len(visible) {
		return model.Task{}, false
	}
	return visible[m.Cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.VisibleTasks())
	if m.Cursor >= n {
		m.Cursor = n - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
}

func (m *Model) setFocus(f Focus) {
	m.Focus = f
	m.titleInput.Blur()
	m.dueInput.Blur()
	m.searchInput.Blur()
	switch f {
	case FocusSearch:
		m.searchInput.Focus()
	case FocusForm:
		m.focusFormField(m.Form.Field)
	}
}

func (m *Model) focusFormField(field FormField) {
	m.Form.Field = field
	m.titleInput.Blur()
	m.dueInput.Blur()
	switch field {
	case FieldTitle:
		m.titleInput.Focus()
	case FieldDue:
		m.dueInput.Focus()
	}
}

func (m *Model) resetForm() {
	m.titleInput.SetValue("")
	m.dueInput.SetValue("")
	m.Form = FormState{Field: FieldTitle, Priority: m.defaultPriority}
}

func (m *Model) setSearch(q string) {
	m.searchInput.SetValue(q)
	m.searchInput.CursorEnd()
	m.Query.Search = q
	m.clampCursor()
}

func (m *Model) setStatus(text string) {
	m.statusSeq++
	m.Status = StatusBar{Text: text}
}

func (m *Model) setError(err error) {
	m.statusSeq++
	m.LastError = err
	m.Status = StatusBar{Text: err.Error(), IsError: true}
	m.logger.Warn("tui action failed", zap.Error(err))
}
