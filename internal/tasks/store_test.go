package tasks

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"duewatch/internal/model"
	"duewatch/internal/storage"
)

func setupService(t *testing.T) (*Service, *time.Time) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "tasks-test.db")
	repo, err := storage.OpenSQLite(dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	if err := storage.MigrateUp(repo.DB()); err != nil {
		t.Fatalf("migrate up: %v", err)
	}

	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	nowPtr := &now
	counter := 0
	svc := NewService(repo,
		WithNow(func() time.Time { return *nowPtr }),
		WithIDGenerator(func() string {
			counter++
			return fmt.Sprintf("task-%d", counter)
		}),
	)
	return svc, nowPtr
}

func TestCreateAppliesDefaultsAndPersists(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, Draft{
		Title:      "  File the report ",
		Due:        "2026-02-13",
		Time:       "10:00",
		RemindMins: 15,
		Tags:       []string{"work", "finance"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != "task-1" {
		t.Fatalf("id = %q, want task-1", created.ID)
	}
	if created.Title != "File the report" {
		t.Fatalf("title = %q, want trimmed", created.Title)
	}
	if created.Priority != model.PriorityMedium {
		t.Fatalf("priority = %q, want default medium", created.Priority)
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Due != "2026-02-13" || got.Time != "10:00" || got.RemindMins != 15 {
		t.Fatalf("schedule did not persist: %+v", got)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "work" || got.Tags[1] != "finance" {
		t.Fatalf("tags did not round-trip: %v", got.Tags)
	}
}

func TestCreateRejectsInvalidDraft(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, Draft{Title: "   "}); err == nil {
		t.Fatalf("expected error for blank title")
	}
	if _, err := svc.Create(ctx, Draft{Title: "x", Due: "tomorrow"}); !errors.Is(err, model.ErrInvalidDueDate) {
		t.Fatalf("expected ErrInvalidDueDate, got %v", err)
	}
	if _, err := svc.Create(ctx, Draft{Title: "x", RemindMins: -5}); !errors.Is(err, model.ErrNegativeLead) {
		t.Fatalf("expected ErrNegativeLead, got %v", err)
	}
}

func TestSetScheduleRewritesDeadline(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, Draft{Title: "Review", Due: "2026-02-10", Time: "09:00", RemindMins: 10})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.SetSchedule(ctx, created.ID, "2026-02-11", "15:30", 30)
	if err != nil {
		t.Fatalf("set schedule: %v", err)
	}
	if updated.Due != "2026-02-11" || updated.Time != "15:30" || updated.RemindMins != 30 {
		t.Fatalf("schedule not applied: %+v", updated)
	}

	cleared, err := svc.SetSchedule(ctx, created.ID, "", "", 0)
	if err != nil {
		t.Fatalf("clear schedule: %v", err)
	}
	if cleared.HasDeadline() {
		t.Fatalf("deadline should be cleared: %+v", cleared)
	}
}

func TestStartOnlyCountsOnce(t *testing.T) {
	svc, now := setupService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, Draft{Title: "Prep slides", Due: "2026-02-10"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	first, err := svc.Start(ctx, created.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if first.StartedAt == nil {
		t.Fatalf("started_at not set")
	}
	stamp := *first.StartedAt

	*now = now.Add(2 * time.Hour)
	second, err := svc.Start(ctx, created.ID)
	if err != nil {
		t.Fatalf("second start: %v", err)
	}
	if !second.StartedAt.Equal(stamp) {
		t.Fatalf("started_at moved on second start: %v -> %v", stamp, second.StartedAt)
	}
}

func TestToggleDoneAndBack(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, Draft{Title: "Pay invoice"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	done, err := svc.Toggle(ctx, created.ID)
	if err != nil {
		t.Fatalf("toggle done: %v", err)
	}
	if !done.Done || done.CompletedAt == nil {
		t.Fatalf("toggle did not complete: %+v", done)
	}

	reopened, err := svc.Toggle(ctx, created.ID)
	if err != nil {
		t.Fatalf("toggle back: %v", err)
	}
	if reopened.Done || reopened.CompletedAt != nil {
		t.Fatalf("toggle did not reopen: %+v", reopened)
	}
}

func TestClearDoneRemovesOnlyCompleted(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	keep, err := svc.Create(ctx, Draft{Title: "Keep"})
	if err != nil {
		t.Fatalf("create keep: %v", err)
	}
	for _, title := range []string{"Drop one", "Drop two"} {
		created, err := svc.Create(ctx, Draft{Title: title})
		if err != nil {
			t.Fatalf("create %s: %v", title, err)
		}
		if _, err := svc.Toggle(ctx, created.ID); err != nil {
			t.Fatalf("toggle %s: %v", title, err)
		}
	}

	removed, err := svc.ClearDone(ctx)
	if err != nil {
		t.Fatalf("clear done: %v", err)
	}
	if removed != 2 {
		t.Fatalf("removed = %d, want 2", removed)
	}

	rest, err := svc.List(ctx, ListOptions{IncludeDone: true})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rest) != 1 || rest[0].ID != keep.ID {
		t.Fatalf("unexpected remainder: %+v", rest)
	}
}

func TestSnapshotReturnsOpenDatedTasksOnly(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	dated, err := svc.Create(ctx, Draft{Title: "Dated", Due: "2026-02-10", Time: "10:00"})
	if err != nil {
		t.Fatalf("create dated: %v", err)
	}
	if _, err := svc.Create(ctx, Draft{Title: "Loose"}); err != nil {
		t.Fatalf("create loose: %v", err)
	}
	finished, err := svc.Create(ctx, Draft{Title: "Finished", Due: "2026-02-08"})
	if err != nil {
		t.Fatalf("create finished: %v", err)
	}
	if _, err := svc.Toggle(ctx, finished.ID); err != nil {
		t.Fatalf("toggle finished: %v", err)
	}

	snap, err := svc.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(snap) != 1 || snap[0].ID != dated.ID {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestEscalatePriorityRaisesAndNeverLowers(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, Draft{Title: "Slipping", Due: "2026-02-08", Time: "10:00", Priority: model.PriorityLow})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.EscalatePriority(ctx, created.ID); err != nil {
		t.Fatalf("escalate: %v", err)
	}
	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Priority != model.PriorityHigh {
		t.Fatalf("priority = %q, want high", got.Priority)
	}

	// Repeat is a no-op, and completed tasks are left alone.
	if err := svc.EscalatePriority(ctx, created.ID); err != nil {
		t.Fatalf("repeat escalate: %v", err)
	}
	if _, err := svc.Toggle(ctx, created.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if err := svc.EscalatePriority(ctx, created.ID); err != nil {
		t.Fatalf("escalate done task: %v", err)
	}

	if err := svc.EscalatePriority(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSetPriorityGoesBothDirections(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, Draft{Title: "Negotiable"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	raised, err := svc.SetPriority(ctx, created.ID, model.PriorityHigh)
	if err != nil {
		t.Fatalf("raise: %v", err)
	}
	if raised.Priority != model.PriorityHigh {
		t.Fatalf("priority = %q, want high", raised.Priority)
	}

	// Unlike EscalatePriority, the manual path may lower.
	lowered, err := svc.SetPriority(ctx, created.ID, model.PriorityLow)
	if err != nil {
		t.Fatalf("lower: %v", err)
	}
	if lowered.Priority != model.PriorityLow {
		t.Fatalf("priority = %q, want low", lowered.Priority)
	}

	if _, err := svc.SetPriority(ctx, created.ID, "Urgent"); !errors.Is(err, model.ErrInvalidPriority) {
		t.Fatalf("expected ErrInvalidPriority, got %v", err)
	}
}

func TestUpdateRejectsInvalidMutation(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, Draft{Title: "Stable"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.Update(ctx, created.ID, func(task *model.Task) {
		task.Priority = "Urgent"
	})
	if !errors.Is(err, model.ErrInvalidPriority) {
		t.Fatalf("expected ErrInvalidPriority, got %v", err)
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Priority != model.PriorityMedium {
		t.Fatalf("invalid update leaked: %q", got.Priority)
	}
}
