package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidPriority  = errors.New("model: invalid task priority")
	ErrInvalidDueDate   = errors.New("model: invalid task due date")
	ErrNegativeLead     = errors.New("model: remind lead minutes must not be negative")
	ErrNegativeEstimate = errors.New("model: estimate minutes must not be negative")
)

const DueDateLayout = "2006-01-02"

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

type Task struct {
	ID           string
	Title        string
	Notes        string
	Done         bool
	Due          string
	Time         string
	RemindMins   int
	StartedAt    *time.Time
	Priority     Priority
	EstimateMins int
	Tags         []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	CompletedAt  *time.Time
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return errors.New("model: task title is required")
	}
	if !t.Priority.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, t.Priority)
	}
	if t.Due != "" {
		if _, err := time.Parse(DueDateLayout, t.Due); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidDueDate, t.Due)
		}
	}
	if t.RemindMins < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeLead, t.RemindMins)
	}
	if t.EstimateMins < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeEstimate, t.EstimateMins)
	}
	if t.CreatedAt.IsZero() {
		return errors.New("model: task created_at is required")
	}
	if t.Done && t.CompletedAt == nil {
		return errors.New("model: completed_at is required when task is done")
	}
	if !t.Done && t.CompletedAt != nil {
		return errors.New("model: completed_at must be nil when task is not done")
	}
	return nil
}

func (t Task) HasDeadline() bool { return t.Due != "" }

func (t Task) Started() bool { return t.StartedAt != nil }
