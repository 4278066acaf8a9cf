package model

import (
	"errors"
	"testing"
	"time"
)

func TestTaskValidateSuccess(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	task := Task{
		ID:         "task-1",
		Title:      "File the quarterly report",
		Due:        "2026-03-06",
		Time:       "10:00",
		RemindMins: 30,
		Priority:   PriorityHigh,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := task.Validate(); err != nil {
		t.Fatalf("expected valid task, got error: %v", err)
	}
}

func TestTaskValidateMalformedTimeIsAllowed(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	task := Task{
		ID:        "task-1",
		Title:     "Task with garbage time",
		Due:       "2026-03-06",
		Time:      "not-a-time",
		Priority:  PriorityLow,
		CreatedAt: now,
	}
	if err := task.Validate(); err != nil {
		t.Fatalf("malformed time must validate (falls back at evaluation), got: %v", err)
	}
}

func TestTaskValidateRejectsBadFields(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	task := Task{
		ID:        "task-1",
		Title:     "Bad priority",
		Priority:  Priority("Urgent"),
		CreatedAt: now,
	}
	err := task.Validate()
	if err == nil || !errors.Is(err, ErrInvalidPriority) {
		t.Fatalf("expected ErrInvalidPriority, got: %v", err)
	}

	task.Priority = PriorityMedium
	task.Due = "03/06/2026"
	err = task.Validate()
	if err == nil || !errors.Is(err, ErrInvalidDueDate) {
		t.Fatalf("expected ErrInvalidDueDate, got: %v", err)
	}

	task.Due = "2026-03-06"
	task.RemindMins = -5
	err = task.Validate()
	if err == nil || !errors.Is(err, ErrNegativeLead) {
		t.Fatalf("expected ErrNegativeLead, got: %v", err)
	}

	task.RemindMins = 0
	task.EstimateMins = -1
	err = task.Validate()
	if err == nil || !errors.Is(err, ErrNegativeEstimate) {
		t.Fatalf("expected ErrNegativeEstimate, got: %v", err)
	}
}

func TestTaskValidateDoneRequiresCompletedAt(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	task := Task{
		ID:        "task-1",
		Title:     "Done task",
		Done:      true,
		Priority:  PriorityMedium,
		CreatedAt: now,
	}
	err := task.Validate()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if err.Error() != "model: completed_at is required when task is done" {
		t.Fatalf("unexpected error: %v", err)
	}

	task.Done = false
	task.CompletedAt = &now
	err = task.Validate()
	if err == nil {
		t.Fatal("expected error for completed_at on open task, got nil")
	}
}

func TestPriorityRankOrdering(t *testing.T) {
	if PriorityHigh.Rank() <= PriorityMedium.Rank() {
		t.Fatal("expected High to outrank Medium")
	}
	if PriorityMedium.Rank() <= PriorityLow.Rank() {
		t.Fatal("expected Medium to outrank Low")
	}
	if Priority("Bad").Rank() != 0 {
		t.Fatalf("expected zero rank for unknown priority, got %d", Priority("Bad").Rank())
	}
}

func TestPriorityIsValid(t *testing.T) {
	valid := []Priority{PriorityLow, PriorityMedium, PriorityHigh}
	for _, item := range valid {
		if !item.IsValid() {
			t.Fatalf("expected valid priority: %q", item)
		}
	}
	if Priority("Critical").IsValid() {
		t.Fatal("expected invalid priority")
	}
}

func TestTaskHelpers(t *testing.T) {
	task := Task{}
	if task.HasDeadline() {
		t.Fatal("expected no deadline without due date")
	}
	if task.Started() {
		t.Fatal("expected not started without startedAt")
	}
	started := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	task.Due = "2026-03-06"
	task.StartedAt = &started
	if !task.HasDeadline() || !task.Started() {
		t.Fatalf("expected deadline and started, got %+v", task)
	}
}
