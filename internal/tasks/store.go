package tasks

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

type Draft struct {
	Title        string
	Notes        string
	Due          string
	Time         string
	RemindMins   int
	Priority     model.Priority
	EstimateMins int
	Tags         []string
}

func (s *Service) Create(ctx context.Context, draft Draft) (model.Task, error) {
	now := s.now()
	task := model.Task{
		ID:           s.newID(),
		Title:        strings.TrimSpace(draft.Title),
		Notes:        draft.Notes,
		Due:          draft.Due,
		Time:         draft.Time,
		RemindMins:   draft.RemindMins,
		Priority:     draft.Priority,
		EstimateMins: draft.EstimateMins,
		Tags:         draft.Tags,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if task.Priority == "" {
		task.Priority = model.PriorityMedium
	}
	if err := task.Validate(); err != nil {
		return model.Task{}, err
	}
	if err := s.repo.CreateTask(ctx, recordFromTask(task)); err != nil {
		return model.Task{}, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

func (s *Service) Get(ctx context.Context, id string) (model.Task, error) {
	rec, err := s.repo.GetTask(ctx, id)
	if err != nil {
		return model.Task{}, err
	}
	return taskFromRecord(rec), nil
}

type ListOptions struct {
	IncludeDone bool
}

func (s *Service) List(ctx context.Context, opts ListOptions) ([]model.Task, error) {
	recs, err := s.repo.ListTasks(ctx, storage.TaskListFilter{IncludeDone: opts.IncludeDone})
	if err != nil {
		return nil, err
	}
	out := make([]model.Task, 0, len(recs))
	for _, rec := range recs {
		out = append(out, taskFromRecord(rec))
	}
	return out, nil
}

func (s *Service) Update(ctx context.Context, id string, mutate func(*model.Task)) (model.Task, error) {
	rec, err := s.repo.GetTask(ctx, id)
	if err != nil {
		return model.Task{}, err
	}
	task := taskFromRecord(rec)
	mutate(&task)
	task.ID = rec.ID
	task.CreatedAt = rec.CreatedAt
	task.UpdatedAt = s.now()
	if err := task.Validate(); err != nil {
		return model.Task{}, err
	}
	if err := s.repo.UpdateTask(ctx, recordFromTask(task)); err != nil {
		return model.Task{}, fmt.Errorf("update task: %w", err)
	}
	return task, nil
}

func (s *Service) SetSchedule(ctx context.Context, id, due, clock string, remindMins int) (model.Task, error) {
	return s.Update(ctx, id, func(task *model.Task) {
		task.Due = due
		task.Time = clock
		task.RemindMins = remindMins
	})
}

func (s *Service) SetPriority(ctx context.Context, id string, priority model.Priority) (model.Task, error) {
	return s.Update(ctx, id, func(task *model.Task) {
		task.Priority = priority
	})
}

func (s *Service) Start(ctx context.Context, id string) (model.Task, error) {
	return s.Update(ctx, id, func(task *model.Task) {
		if task.StartedAt == nil {
			now := s.now()
			task.StartedAt = &now
		}
	})
}

func (s *Service) Toggle(ctx context.Context, id string) (model.Task, error) {
	return s.Update(ctx, id, func(task *model.Task) {
		if task.Done {
			task.Done = false
			task.CompletedAt = nil
			return
		}
		now := s.now()
		task.Done = true
		task.CompletedAt = &now
	})
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.DeleteTask(ctx, id)
}

func (s *Service) ClearDone(ctx context.Context) (int64, error) {
	return s.repo.DeleteDoneTasks(ctx)
}

func (s *Service) Snapshot(ctx context.Context) ([]model.Task, error) {
	recs, err := s.repo.ListTasks(ctx, storage.TaskListFilter{DueOnly: true})
	if err != nil {
		return nil, err
	}
	out := make([]model.Task, 0, len(recs))
	for _, rec := range recs {
		out = append(out, taskFromRecord(rec))
	}
	return out, nil
}

func (s *Service) EscalatePriority(ctx context.Context, id string) error {
	rec, err := s.repo.GetTask(ctx, id)
	if err != nil {
		return err
	}
	if rec.Done || rec.Priority == string(model.PriorityHigh) {
		return nil
	}
	_, err = s.Update(ctx, id, func(task *model.Task) {
		task.Priority = model.PriorityHigh
	})
	return err
}

func recordFromTask(t model.Task) storage.Task {
	return storage.Task{
		ID:           t.ID,
		Title:        t.Title,
		Notes:        t.Notes,
		Done:         t.Done,
		Due:          t.Due,
		ClockTime:    t.Time,
		RemindMins:   t.RemindMins,
		StartedAt:    t.StartedAt,
		Priority:     string(t.Priority),
		EstimateMins: t.EstimateMins,
		Tags:         strings.Join(t.Tags, ","),
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
		CompletedAt:  t.CompletedAt,
	}
}

func taskFromRecord(rec storage.Task) model.Task {
	return model.Task{
		ID:           rec.ID,
		Title:        rec.Title,
		Notes:        rec.Notes,
		Done:         rec.Done,
		Due:          rec.Due,
		Time:         rec.ClockTime,
		RemindMins:   rec.RemindMins,
		StartedAt:    rec.StartedAt,
		Priority:     model.Priority(rec.Priority),
		EstimateMins: rec.EstimateMins,
		Tags:         splitTags(rec.Tags),
		CreatedAt:    rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
		CompletedAt:  rec.CompletedAt,
	}
}

func splitTags(joined string) []string {
	if joined == "" {
		return nil
	}
	parts := strings.Split(joined, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
