package habits

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"duewatch/internal/model"
	"duewatch/internal/storage"
)

type Service struct {
	repo  storage.Repository
	now   func() time.Time
	newID func() string
}

type Option func(*Service)

func WithNow(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithIDGenerator(fn func() string) Option {
	return func(s *Service) { s.newID = fn }
}

func NewService(repo storage.Repository, opts ...Option) *Service {
	s := &Service{
		repo:  repo,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Create(ctx context.Context, name string, cadence model.HabitCadence) (model.Habit, error) {
	habit := model.Habit{
		ID:        s.newID(),
		Name:      strings.TrimSpace(name),
		Cadence:   cadence,
		CreatedAt: s.now(),
	}
	if err := habit.Validate(); err != nil {
		return model.Habit{}, err
	}
	if err := s.repo.CreateHabit(ctx, recordFromHabit(habit)); err != nil {
		return model.Habit{}, fmt.Errorf("create habit: %w", err)
	}
	return habit, nil
}

func (s *Service) List(ctx context.Context) ([]model.Habit, error) {
	recs, err := s.repo.ListHabits(ctx, storage.HabitListFilter{})
	if err != nil {
		return nil, err
	}
	out := make([]model.Habit, 0, len(recs))
	for _, rec := range recs {
		out = append(out, habitFromRecord(rec))
	}
	return out, nil
}

func (s *Service) CheckIn(ctx context.Context, id string) (model.Habit, bool, error) {
	rec, err := s.repo.GetHabit(ctx, id)
	if err != nil {
		return model.Habit{}, false, err
	}
	habit := habitFromRecord(rec)
	if !habit.CheckIn(s.now()) {
		return habit, false, nil
	}
	if err := s.repo.UpdateHabit(ctx, recordFromHabit(habit)); err != nil {
		return model.Habit{}, false, fmt.Errorf("update habit: %w", err)
	}
	return habit, true, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.DeleteHabit(ctx, id)
}

func recordFromHabit(h model.Habit) storage.Habit {
	return storage.Habit{
		ID:          h.ID,
		Name:        h.Name,
		Cadence:     string(h.Cadence),
		Streak:      h.Streak,
		BestStreak:  h.BestStreak,
		LastCheckIn: h.LastCheckIn,
		CreatedAt:   h.CreatedAt,
	}
}

func habitFromRecord(rec storage.Habit) model.Habit {
	return model.Habit{
		ID:          rec.ID,
		Name:        rec.Name,
		Cadence:     model.HabitCadence(rec.Cadence),
		Streak:      rec.Streak,
		BestStreak:  rec.BestStreak,
		LastCheckIn: rec.LastCheckIn,
		CreatedAt:   rec.CreatedAt,
	}
}
