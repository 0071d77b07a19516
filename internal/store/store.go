// Package store owns the in-memory task collection. A Store is meant for a
// single goroutine (the UI loop or one CLI command); it does no locking.
package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/sandeepkv93/taskboard/internal/model"
	"github.com/sandeepkv93/taskboard/internal/persist"
	"go.uber.org/zap"
)

var (
	ErrEmptyTitle = errors.New("store: task title is required")
	// ErrPersist wraps slot write failures. The in-memory change is kept.
	ErrPersist = errors.New("store: persist tasks")
)

type Persister interface {
	Load(ctx context.Context) persist.LoadResult
	Save(ctx context.Context, tasks []model.Task) error
}

// Listener receives a snapshot after every mutation.
type Listener func(tasks []model.Task)

type subscription struct {
	id int
	fn Listener
}

type Store struct {
	persister Persister
	tasks     []model.Task
	listeners []subscription
	nextSub   int
	now       func() time.Time
	logger    *zap.Logger
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Open loads the persisted collection and returns the store along with the
// load result, so callers can report a fallback without failing.
func Open(ctx context.Context, p Persister, opts ...Option) (*Store, persist.LoadResult) {
	s := &Store{
		persister: p,
		now:       time.Now,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	res := p.Load(ctx)
	s.tasks = slices.Clone(res.Tasks)
	if s.tasks == nil {
		s.tasks = []model.Task{}
	}
	s.logger.Info("task store opened",
		zap.String("outcome", string(res.Outcome)),
		zap.Int("count", len(s.tasks)),
	)
	return s, res
}

// Tasks returns a copy of the collection in insertion order.
func (s *Store) Tasks() []model.Task {
	return slices.Clone(s.tasks)
}

func (s *Store) Len() int { return len(s.tasks) }

func (s *Store) Get(id int) (model.Task, bool) {
	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

// Subscribe registers fn for change notifications; the returned func removes
// it. Listeners run in subscription order.
func (s *Store) Subscribe(fn Listener) (cancel func()) {
	id := s.nextSub
	s.nextSub++
	s.listeners = append(s.listeners, subscription{id: id, fn: fn})
	return func() {
		s.listeners = slices.DeleteFunc(s.listeners, func(sub subscription) bool { return sub.id == id })
	}
}

func (s *Store) Add(ctx context.Context, title string, priority model.Priority, due *time.Time) (model.Task, error) {
	task := model.Task{
		ID:        model.NextID(s.tasks),
		Title:     strings.TrimSpace(title),
		Priority:  priority,
		Completed: false,
		CreatedAt: s.now().Truncate(time.Millisecond),
	}
	if due != nil {
		d := *due
		task.DueDate = &d
	}
	if err := task.Validate(); err != nil {
		if errors.Is(err, model.ErrEmptyTitle) {
			return model.Task{}, ErrEmptyTitle
		}
		return model.Task{}, err
	}

	next := make([]model.Task, 0, len(s.tasks)+1)
	next = append(next, s.tasks...)
	next = append(next, task)
	s.logger.Debug("task added", zap.Int("id", task.ID), zap.String("priority", string(task.Priority)))
	return task, s.commit(ctx, next)
}

// ToggleComplete flips the completed flag. It reports false, with no write,
// when id is unknown.
func (s *Store) ToggleComplete(ctx context.Context, id int) (bool, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return false, nil
	}
	next := slices.Clone(s.tasks)
	next[idx].Completed = !next[idx].Completed
	s.logger.Debug("task toggled", zap.Int("id", id), zap.Bool("completed", next[idx].Completed))
	return true, s.commit(ctx, next)
}

// Delete removes the task. It reports false, with no write, when id is unknown.
func (s *Store) Delete(ctx context.Context, id int) (bool, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return false, nil
	}
	next := make([]model.Task, 0, len(s.tasks)-1)
	next = append(next, s.tasks[:idx]...)
	next = append(next, s.tasks[idx+1:]...)
	s.logger.Debug("task deleted", zap.Int("id", id))
	return true, s.commit(ctx, next)
}

func (s *Store) indexOf(id int) int {
	return slices.IndexFunc(s.tasks, func(t model.Task) bool { return t.ID == id })
}

// commit swaps in the new collection, persists it, then notifies listeners.
func (s *Store) commit(ctx context.Context, next []model.Task) error {
	s.tasks = next
	var saveErr error
	if err := s.persister.Save(ctx, s.tasks); err != nil {
		s.logger.Error("persist tasks failed", zap.Error(err))
		saveErr = fmt.Errorf("%w: %w", ErrPersist, err)
	}
	for _, sub := range slices.Clone(s.listeners) {
		sub.fn(slices.Clone(s.tasks))
	}
	return saveErr
}
