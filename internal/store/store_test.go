package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sandeepkv93/taskboard/internal/model"
	"github.com/sandeepkv93/taskboard/internal/persist"
	"github.com/sandeepkv93/taskboard/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)

// recordingPersister captures every save and can be told to fail.
type recordingPersister struct {
	initial []model.Task
	saves   [][]model.Task
	saveErr error
}

func (p *recordingPersister) Load(context.Context) persist.LoadResult {
	return persist.LoadResult{Tasks: p.initial, Outcome: persist.OutcomeLoaded}
}

func (p *recordingPersister) Save(_ context.Context, tasks []model.Task) error {
	p.saves = append(p.saves, tasks)
	return p.saveErr
}

func openStore(t *testing.T, initial ...model.Task) (*Store, *recordingPersister) {
	t.Helper()
	p := &recordingPersister{initial: initial}
	s, res := Open(context.Background(), p, WithClock(func() time.Time { return fixedNow }))
	require.Equal(t, persist.OutcomeLoaded, res.Outcome)
	return s, p
}

func TestAddAppendsWithNextID(t *testing.T) {
	s, p := openStore(t,
		model.Task{ID: 3, Title: "a", Priority: model.PriorityLow, CreatedAt: time.UnixMilli(1)},
		model.Task{ID: 7, Title: "b", Priority: model.PriorityLow, CreatedAt: time.UnixMilli(2)},
	)

	task, err := s.Add(context.Background(), "  Buy milk ", model.PriorityLow, nil)
	require.NoError(t, err)
	assert.Equal(t, 8, task.ID)
	assert.Equal(t, "Buy milk", task.Title)
	assert.False(t, task.Completed)
	assert.Nil(t, task.DueDate)
	assert.Equal(t, fixedNow, task.CreatedAt)

	assert.Equal(t, 3, s.Len())
	require.Len(t, p.saves, 1)
	assert.Len(t, p.saves[0], 3)
	assert.Equal(t, 8, p.saves[0][2].ID)
}

func TestAddOnEmptyStartsAtOne(t *testing.T) {
	s, _ := openStore(t)
	due, err := model.ParseDueDate("2024-01-01")
	require.NoError(t, err)

	task, err := s.Add(context.Background(), "first", model.PriorityHigh, due)
	require.NoError(t, err)
	assert.Equal(t, 1, task.ID)
	assert.Equal(t, "2024-01-01", task.DueLabel())

	*due = due.AddDate(1, 0, 0)
	got, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, "2024-01-01", got.DueLabel(), "store must not alias the caller's date")
}

func TestAddRejectsInvalidInput(t *testing.T) {
	s, p := openStore(t)

	_, err := s.Add(context.Background(), "   ", model.PriorityLow, nil)
	require.ErrorIs(t, err, ErrEmptyTitle)

	_, err = s.Add(context.Background(), "x", model.Priority("Urgent"), nil)
	require.ErrorIs(t, err, model.ErrInvalidPriority)

	assert.Equal(t, 0, s.Len())
	assert.Empty(t, p.saves)
}

func TestToggleCompleteTwiceRestores(t *testing.T) {
	s, p := openStore(t, model.Task{ID: 1, Title: "a", Priority: model.PriorityLow})

	found, err := s.ToggleComplete(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, found)
	got, _ := s.Get(1)
	assert.True(t, got.Completed)

	_, err = s.ToggleComplete(context.Background(), 1)
	require.NoError(t, err)
	got, _ = s.Get(1)
	assert.False(t, got.Completed)
	assert.Len(t, p.saves, 2)
}

func TestUnknownIDIsNoop(t *testing.T) {
	s, p := openStore(t, model.Task{ID: 1, Title: "a", Priority: model.PriorityLow})

	found, err := s.ToggleComplete(context.Background(), 42)
	require.NoError(t, err)
	assert.False(t, found)

	found, err = s.Delete(context.Background(), 42)
	require.NoError(t, err)
	assert.False(t, found)

	assert.Equal(t, 1, s.Len())
	assert.Empty(t, p.saves)
}

func TestDeleteRemovesOnlyMatch(t *testing.T) {
	s, p := openStore(t,
		model.Task{ID: 1, Title: "a", Priority: model.PriorityLow},
		model.Task{ID: 2, Title: "b", Priority: model.PriorityLow},
		model.Task{ID: 3, Title: "c", Priority: model.PriorityLow},
	)

	found, err := s.Delete(context.Background(), 2)
	require.NoError(t, err)
	assert.True(t, found)

	tasks := s.Tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, 1, tasks[0].ID)
	assert.Equal(t, 3, tasks[1].ID)
	require.Len(t, p.saves, 1)
	assert.Len(t, p.saves[0], 2)
}

func TestIDsAreNotReusedWhileMaxSurvives(t *testing.T) {
	s, _ := openStore(t)
	ctx := context.Background()
	_, _ = s.Add(ctx, "one", model.PriorityLow, nil)
	_, _ = s.Add(ctx, "two", model.PriorityLow, nil)
	_, _ = s.Delete(ctx, 1)
	task, err := s.Add(ctx, "three", model.PriorityLow, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, task.ID)
}

func TestMutationsReplaceSnapshots(t *testing.T) {
	s, _ := openStore(t, model.Task{ID: 1, Title: "a", Priority: model.PriorityLow})
	before := s.Tasks()

	_, err := s.ToggleComplete(context.Background(), 1)
	require.NoError(t, err)

	assert.False(t, before[0].Completed, "earlier snapshot must not change")
	before[0].Title = "mutated"
	got, _ := s.Get(1)
	assert.Equal(t, "a", got.Title)
}

func TestSubscribeReceivesSnapshots(t *testing.T) {
	s, _ := openStore(t)
	var seen [][]model.Task
	cancel := s.Subscribe(func(tasks []model.Task) { seen = append(seen, tasks) })

	_, err := s.Add(context.Background(), "watch me", model.PriorityMedium, nil)
	require.NoError(t, err)
	require.Len(t, seen, 1)
	assert.Equal(t, "watch me", seen[0][0].Title)

	cancel()
	_, err = s.Add(context.Background(), "unseen", model.PriorityMedium, nil)
	require.NoError(t, err)
	assert.Len(t, seen, 1)
}

func TestListenersRunInSubscriptionOrder(t *testing.T) {
	s, _ := openStore(t)
	var order []int
	for i := 1; i <= 5; i++ {
		i := i
		s.Subscribe(func([]model.Task) { order = append(order, i) })
	}

	for n := 0; n < 3; n++ {
		_, err := s.Add(context.Background(), "tick", model.PriorityLow, nil)
		require.NoError(t, err)
	}
	assert.Equal(t, []int{1, 2, 3, 4, 5, 1, 2, 3, 4, 5, 1, 2, 3, 4, 5}, order)
}

func TestCancelDuringNotifyKeepsOtherListeners(t *testing.T) {
	s, _ := openStore(t)
	var calls []string
	var cancelFirst func()
	cancelFirst = s.Subscribe(func([]model.Task) {
		calls = append(calls, "first")
		cancelFirst()
	})
	s.Subscribe(func([]model.Task) { calls = append(calls, "second") })

	_, err := s.Add(context.Background(), "a", model.PriorityLow, nil)
	require.NoError(t, err)
	_, err = s.Add(context.Background(), "b", model.PriorityLow, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "second"}, calls)
}

func TestPersistFailureKeepsInMemoryChange(t *testing.T) {
	s, p := openStore(t)
	p.saveErr = errors.New("quota exceeded")

	task, err := s.Add(context.Background(), "still here", model.PriorityLow, nil)
	require.ErrorIs(t, err, ErrPersist)
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.Equal(t, 1, task.ID)
	assert.Equal(t, 1, s.Len())
}

func TestOpenWithAdapterFallsBackOnMalformed(t *testing.T) {
	slot := storage.NewMemorySlot()
	require.NoError(t, slot.Put(context.Background(), "k", []byte("garbage")))
	adapter := persist.NewAdapter(slot, "k")

	s, res := Open(context.Background(), adapter)
	assert.Equal(t, persist.OutcomeFallback, res.Outcome)
	assert.Equal(t, 0, s.Len())

	_, err := s.Add(context.Background(), "fresh start", model.PriorityLow, nil)
	require.NoError(t, err)

	reopened, res := Open(context.Background(), adapter)
	assert.Equal(t, persist.OutcomeLoaded, res.Outcome)
	require.Equal(t, 1, reopened.Len())
	got, ok := reopened.Get(1)
	require.True(t, ok)
	assert.Equal(t, "fresh start", got.Title)
}
