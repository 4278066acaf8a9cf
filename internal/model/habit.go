package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidCadence = errors.New("model: invalid habit cadence")

type HabitCadence string

const (
	CadenceDaily  HabitCadence = "daily"
	CadenceWeekly HabitCadence = "weekly"
)

func (c HabitCadence) IsValid() bool {
	switch c {
	case CadenceDaily, CadenceWeekly:
		return true
	default:
		return false
	}
}

type Habit struct {
	ID          string
	Name        string
	Cadence     HabitCadence
	Streak      int
	BestStreak  int
	LastCheckIn *time.Time
	CreatedAt   time.Time
}

func (h Habit) Validate() error {
	if strings.TrimSpace(h.ID) == "" {
		return errors.New("model: habit id is required")
	}
	if strings.TrimSpace(h.Name) == "" {
		return errors.New("model: habit name is required")
	}
	if !h.Cadence.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidCadence, h.Cadence)
	}
	if h.Streak < 0 || h.BestStreak < 0 {
		return errors.New("model: habit streaks must not be negative")
	}
	if h.CreatedAt.IsZero() {
		return errors.New("model: habit created_at is required")
	}
	return nil
}

func (h Habit) PeriodKey(now time.Time) string {
	switch h.Cadence {
	case CadenceWeekly:
		year, week := now.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	default:
		return now.Format(DueDateLayout)
	}
}

func (h Habit) previousPeriodKey(now time.Time) string {
	switch h.Cadence {
	case CadenceWeekly:
		return h.PeriodKey(now.AddDate(0, 0, -7))
	default:
		return h.PeriodKey(now.AddDate(0, 0, -1))
	}
}

func (h *Habit) CheckIn(now time.Time) bool {
	// Reloaded timestamps may carry a different zone; period math follows now's.
	if h.LastCheckIn != nil && h.PeriodKey(h.LastCheckIn.In(now.Location())) == h.PeriodKey(now) {
		return false
	}
	if h.LastCheckIn != nil && h.PeriodKey(h.LastCheckIn.In(now.Location())) == h.previousPeriodKey(now) {
		h.Streak++
	} else {
		h.Streak = 1
	}
	if h.Streak > h.BestStreak {
		h.BestStreak = h.Streak
	}
	ts := now
	h.LastCheckIn = &ts
	return true
}

func (h Habit) PendingAt(now time.Time) bool {
	return h.LastCheckIn == nil || h.PeriodKey(h.LastCheckIn.In(now.Location())) != h.PeriodKey(now)
}
