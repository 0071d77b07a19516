// Package persist maps the task collection onto a single storage slot as a
// JSON array. Loading never fails: missing or unreadable data yields an empty
// collection together with an Outcome describing what happened.
package persist

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sandeepkv93/taskboard/internal/model"
	"github.com/sandeepkv93/taskboard/internal/storage"
	"go.uber.org/zap"
)

var ErrMalformed = errors.New("persist: malformed task data")

type Outcome string

const (
	// OutcomeLoaded means the slot held a JSON array.
	OutcomeLoaded Outcome = "loaded"
	// OutcomeEmpty means nothing was stored yet.
	OutcomeEmpty Outcome = "empty"
	// OutcomeFallback means the slot could not be read or decoded; Err says why.
	OutcomeFallback Outcome = "fallback"
)

type LoadResult struct {
	Tasks   []model.Task
	Outcome Outcome
	Err     error
	// Skipped counts array elements that were not objects.
	Skipped int
	// Reassigned counts tasks whose stored id was missing, non-numeric or a
	// duplicate.
	Reassigned int
}

type Adapter struct {
	slot   storage.Slot
	key    string
	now    func() time.Time
	logger *zap.Logger
}

type Option func(*Adapter)

func WithClock(now func() time.Time) Option {
	return func(a *Adapter) {
		if now != nil {
			a.now = now
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(a *Adapter) {
		if logger != nil {
			a.logger = logger
		}
	}
}

func NewAdapter(slot storage.Slot, key string, opts ...Option) *Adapter {
	a := &Adapter{
		slot:   slot,
		key:    key,
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Adapter) Key() string { return a.key }

func (a *Adapter) Load(ctx context.Context) LoadResult {
	raw, err := a.slot.Get(ctx, a.key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return LoadResult{Tasks: []model.Task{}, Outcome: OutcomeEmpty}
		}
		a.logger.Warn("read task slot failed", zap.String("key", a.key), zap.Error(err))
		return LoadResult{Tasks: []model.Task{}, Outcome: OutcomeFallback, Err: err}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return LoadResult{Tasks: []model.Task{}, Outcome: OutcomeEmpty}
	}

	res, err := decodeTasks(raw, a.now)
	if err != nil {
		a.logger.Warn("task slot is malformed, starting empty", zap.String("key", a.key), zap.Error(err))
		return LoadResult{Tasks: []model.Task{}, Outcome: OutcomeFallback, Err: err}
	}
	if res.Skipped > 0 || res.Reassigned > 0 {
		a.logger.Warn("task slot repaired on load",
			zap.Int("skipped", res.Skipped),
			zap.Int("reassigned", res.Reassigned),
		)
	}
	a.logger.Debug("tasks loaded", zap.String("key", a.key), zap.Int("count", len(res.Tasks)))
	return res
}

// Save overwrites the slot with the full collection in insertion order.
func (a *Adapter) Save(ctx context.Context, tasks []model.Task) error {
	payload, err := encodeTasks(tasks)
	if err != nil {
		return err
	}
	if err := a.slot.Put(ctx, a.key, payload); err != nil {
		return fmt.Errorf("write task slot %s: %w", a.key, err)
	}
	a.logger.Debug("tasks saved", zap.String("key", a.key), zap.Int("count", len(tasks)))
	return nil
}
