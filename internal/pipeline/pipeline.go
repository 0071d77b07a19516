// Package pipeline derives the displayed task list and summary counts from a
// task collection. Every function is pure: inputs are never mutated and
// nothing is cached between calls.
package pipeline

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/sandeepkv93/taskboard/internal/model"
)

var ErrInvalidSortKey = errors.New("pipeline: invalid sort key")

// FilterAll disables the priority filter.
const FilterAll = "All"

type SortKey string

const (
	SortNewest      SortKey = "newest"
	SortOldest      SortKey = "oldest"
	SortDueEarliest SortKey = "dueEarliest"
	SortDueLatest   SortKey = "dueLatest"
)

// SortKeys lists the sort options in selector order.
var SortKeys = []SortKey{SortNewest, SortOldest, SortDueEarliest, SortDueLatest}

func (k SortKey) Label() string {
	switch k {
	case SortNewest:
		return "Newest first"
	case SortOldest:
		return "Oldest first"
	case SortDueEarliest:
		return "Due date (earliest)"
	case SortDueLatest:
		return "Due date (latest)"
	default:
		return string(k)
	}
}

func ParseSortKey(raw string) (SortKey, error) {
	trimmed := strings.TrimSpace(raw)
	for _, k := range SortKeys {
		if strings.EqualFold(string(k), trimmed) {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSortKey, raw)
}

// Query holds the view parameters. An empty Priority behaves like FilterAll.
type Query struct {
	Priority string
	Search   string
	Sort     SortKey
}

// Apply runs priority filter, then search, then sort.
func Apply(tasks []model.Task, q Query) []model.Task {
	out := FilterByPriority(tasks, q.Priority)
	out = Search(out, q.Search)
	return Sort(out, q.Sort)
}

func FilterByPriority(tasks []model.Task, priority string) []model.Task {
	if priority == "" || priority == FilterAll {
		return slices.Clone(tasks)
	}
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if string(t.Priority) == priority {
			out = append(out, t)
		}
	}
	return out
}

// Search keeps tasks whose title contains the trimmed query, ignoring case.
func Search(tasks []model.Task, query string) []model.Task {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return slices.Clone(tasks)
	}
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t.Title), needle) {
			out = append(out, t)
		}
	}
	return out
}

// Sort orders a copy of tasks by key; equal keys keep their relative order.
// Undated tasks go last for both due-date keys.
func Sort(tasks []model.Task, key SortKey) []model.Task {
	out := slices.Clone(tasks)
	switch key {
	case SortNewest:
		slices.SortStableFunc(out, func(a, b model.Task) int {
			return cmpInt64(b.CreatedMillis(), a.CreatedMillis())
		})
	case SortOldest:
		slices.SortStableFunc(out, func(a, b model.Task) int {
			return cmpInt64(a.CreatedMillis(), b.CreatedMillis())
		})
	case SortDueEarliest:
		slices.SortStableFunc(out, func(a, b model.Task) int {
			return compareDue(a, b, false)
		})
	case SortDueLatest:
		slices.SortStableFunc(out, func(a, b model.Task) int {
			return compareDue(a, b, true)
		})
	}
	return out
}

func compareDue(a, b model.Task, descending bool) int {
	switch {
	case a.DueDate == nil && b.DueDate == nil:
		return 0
	case a.DueDate == nil:
		return 1
	case b.DueDate == nil:
		return -1
	}
	c := a.DueDate.Compare(*b.DueDate)
	if descending {
		return -c
	}
	return c
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
