package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidPriority = errors.New("model: invalid task priority")
	ErrEmptyTitle      = errors.New("model: task title is required")
)

// DateLayout is the calendar-date form used for due dates.
const DateLayout = "2006-01-02"

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Priorities lists every priority in display order.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// ParsePriority matches a priority name case-insensitively.
func ParsePriority(raw string) (Priority, error) {
	trimmed := strings.TrimSpace(raw)
	for _, p := range Priorities {
		if strings.EqualFold(string(p), trimmed) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPriority, raw)
}

type Task struct {
	ID        int
	Title     string
	Priority  Priority
	Completed bool
	DueDate   *time.Time
	CreatedAt time.Time
}

func (t Task) Validate() error {
	if t.ID <= 0 {
		return errors.New("model: task id must be positive")
	}
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTitle
	}
	if !t.Priority.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, t.Priority)
	}
	if t.CreatedAt.IsZero() {
		return errors.New("model: task created_at is required")
	}
	return nil
}

// CreatedMillis is the creation-order sort key; a zero CreatedAt counts as 0.
func (t Task) CreatedMillis() int64 {
	if t.CreatedAt.IsZero() {
		return 0
	}
	return t.CreatedAt.UnixMilli()
}

// DueLabel renders the due date, or "" when the task has none.
func (t Task) DueLabel() string {
	if t.DueDate == nil {
		return ""
	}
	return t.DueDate.Format(DateLayout)
}

// ParseDueDate accepts YYYY-MM-DD or RFC 3339 and returns the UTC calendar
// date. Timestamps with an offset are converted to UTC first.
func ParseDueDate(raw string) (*time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}
	tm, err := time.Parse(DateLayout, trimmed)
	if err != nil {
		full, fullErr := time.Parse(time.RFC3339, trimmed)
		if fullErr != nil {
			return nil, fmt.Errorf("model: invalid due date %q", raw)
		}
		tm = full.UTC()
	}
	day := time.Date(tm.Year(), tm.Month(), tm.Day(), 0, 0, 0, 0, time.UTC)
	return &day, nil
}

// NextID returns one more than the largest positive id, or 1 for an empty
// collection. Ids <= 0 never count.
func NextID(tasks []Task) int {
	max := 0
	for _, t := range tasks {
		if t.ID > max {
			max = t.ID
		}
	}
	return max + 1
}
