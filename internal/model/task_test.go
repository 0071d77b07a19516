package model

import (
	"errors"
	"testing"
	"time"
)

func TestTaskValidateSuccess(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	task := Task{
		ID:        1,
		Title:     "Implement model validation",
		Priority:  PriorityHigh,
		CreatedAt: now,
	}
	if err := task.Validate(); err != nil {
		t.Fatalf("expected valid task, got error: %v", err)
	}
}

func TestTaskValidateRequiresTitle(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	task := Task{
		ID:        1,
		Title:     "   ",
		Priority:  PriorityMedium,
		CreatedAt: now,
	}
	err := task.Validate()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTaskValidateInvalidPriority(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	task := Task{
		ID:        1,
		Title:     "Bad priority",
		Priority:  Priority("Urgent"),
		CreatedAt: now,
	}
	err := task.Validate()
	if err == nil || !errors.Is(err, ErrInvalidPriority) {
		t.Fatalf("expected ErrInvalidPriority, got: %v", err)
	}

	task.Priority = PriorityLow
	task.ID = 0
	if err := task.Validate(); err == nil {
		t.Fatal("expected error for non-positive id")
	}
}

func TestParsePriority(t *testing.T) {
	p, err := ParsePriority(" high ")
	if err != nil || p != PriorityHigh {
		t.Fatalf("ParsePriority(high) = %q, %v", p, err)
	}
	if _, err := ParsePriority("All"); !errors.Is(err, ErrInvalidPriority) {
		t.Fatalf("expected ErrInvalidPriority for All, got %v", err)
	}
}

func TestParseDueDate(t *testing.T) {
	due, err := ParseDueDate("2024-01-01")
	if err != nil || due == nil {
		t.Fatalf("parse date: %v", err)
	}
	if due.Format(DateLayout) != "2024-01-01" {
		t.Fatalf("unexpected date: %v", due)
	}

	due, err = ParseDueDate("2024-03-05T22:10:00Z")
	if err != nil || due.Format(DateLayout) != "2024-03-05" {
		t.Fatalf("parse rfc3339: %v %v", due, err)
	}

	due, err = ParseDueDate("2024-01-01T23:30:00-05:00")
	if err != nil || due.Format(DateLayout) != "2024-01-02" {
		t.Fatalf("offset timestamp should land on its UTC date, got %v %v", due, err)
	}
	if due.Location() != time.UTC {
		t.Fatalf("expected UTC date, got %v", due.Location())
	}

	due, err = ParseDueDate("")
	if err != nil || due != nil {
		t.Fatalf("empty date should be nil, got %v %v", due, err)
	}

	if _, err := ParseDueDate("next week"); err == nil {
		t.Fatal("expected error for free-form date")
	}
}

func TestNextID(t *testing.T) {
	if got := NextID(nil); got != 1 {
		t.Fatalf("NextID(empty) = %d, want 1", got)
	}
	if got := NextID([]Task{{ID: 3}, {ID: 7}}); got != 8 {
		t.Fatalf("NextID(3,7) = %d, want 8", got)
	}
	if got := NextID([]Task{{ID: 0}, {ID: -4}, {ID: 2}}); got != 3 {
		t.Fatalf("NextID ignoring non-positive = %d, want 3", got)
	}
}

func TestCreatedMillisZero(t *testing.T) {
	if got := (Task{}).CreatedMillis(); got != 0 {
		t.Fatalf("zero created at = %d, want 0", got)
	}
	tm := time.UnixMilli(1700000000123)
	if got := (Task{CreatedAt: tm}).CreatedMillis(); got != 1700000000123 {
		t.Fatalf("CreatedMillis = %d", got)
	}
}
