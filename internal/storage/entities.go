package storage

import "time"

type Task struct {
	ID           string
	Title        string
	Notes        string
	Done         bool
	Due          string
	ClockTime    string
	RemindMins   int
	StartedAt    *time.Time
	Priority     string
	EstimateMins int
	Tags         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	CompletedAt  *time.Time
}

type Habit struct {
	ID          string
	Name        string
	Cadence     string
	Streak      int
	BestStreak  int
	LastCheckIn *time.Time
	CreatedAt   time.Time
}

type TaskListFilter struct {
	IncludeDone bool
	DueOnly     bool
	Limit       int
	Offset      int
}

type HabitListFilter struct {
	Limit  int
	Offset int
}
