package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"
)

func setupRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "duewatch-test.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}

	repo, err := NewSQLiteRepository(db)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	return repo
}

func parseRFC3339(t *testing.T, value string) time.Time {
	t.Helper()
	out, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parse time: %v", err)
	}
	return out
}

func TestTaskCRUDAndScheduleRoundTrip(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	created := parseRFC3339(t, "2026-02-09T12:00:00Z")

	task := Task{
		ID:           "task-1",
		Title:        "File the quarterly report",
		Notes:        "Numbers land on Friday",
		Due:          "2026-02-13",
		ClockTime:    "10:00",
		RemindMins:   15,
		Priority:     "Medium",
		EstimateMins: 45,
		Tags:         "work,finance",
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	if err := repo.CreateTask(ctx, task); err != nil {
		t.Fatalf("create task: %v", err)
	}

	got, err := repo.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got.Due != "2026-02-13" || got.ClockTime != "10:00" || got.RemindMins != 15 {
		t.Fatalf("schedule did not round-trip: %#v", got)
	}
	if got.StartedAt != nil || got.CompletedAt != nil {
		t.Fatalf("expected nil timestamps, got %#v", got)
	}
	if got.Tags != "work,finance" {
		t.Fatalf("unexpected tags: %q", got.Tags)
	}

	started := parseRFC3339(t, "2026-02-13T09:30:00Z")
	task.StartedAt = &started
	task.ClockTime = "14:00"
	task.UpdatedAt = started
	if err := repo.UpdateTask(ctx, task); err != nil {
		t.Fatalf("update task: %v", err)
	}

	got, err = repo.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if got.StartedAt == nil || !got.StartedAt.Equal(started) {
		t.Fatalf("started_at did not round-trip: %#v", got.StartedAt)
	}
	if got.ClockTime != "14:00" {
		t.Fatalf("clock_time = %q after update, want 14:00", got.ClockTime)
	}

	if err := repo.DeleteTask(ctx, task.ID); err != nil {
		t.Fatalf("delete task: %v", err)
	}
	if _, err := repo.GetTask(ctx, task.ID); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
	if err := repo.UpdateTask(ctx, task); err != ErrNotFound {
		t.Fatalf("update of missing row: expected ErrNotFound, got %v", err)
	}
}

func TestListTasksFiltersAndOrder(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	now := parseRFC3339(t, "2026-02-09T12:00:00Z")
	completed := parseRFC3339(t, "2026-02-09T15:00:00Z")

	seed := []Task{
		{ID: "undated", Title: "Someday", Priority: "Low", CreatedAt: now, UpdatedAt: now},
		{ID: "late-slot", Title: "Review", Due: "2026-02-10", ClockTime: "16:00", Priority: "Medium", CreatedAt: now, UpdatedAt: now},
		{ID: "early-slot", Title: "Standup", Due: "2026-02-10", ClockTime: "09:15", Priority: "Medium", CreatedAt: now, UpdatedAt: now},
		{ID: "finished", Title: "Old", Due: "2026-02-08", Done: true, Priority: "High", CreatedAt: now, UpdatedAt: now, CompletedAt: &completed},
	}
	for _, task := range seed {
		if err := repo.CreateTask(ctx, task); err != nil {
			t.Fatalf("create %s: %v", task.ID, err)
		}
	}

	open, err := repo.ListTasks(ctx, TaskListFilter{})
	if err != nil {
		t.Fatalf("list open: %v", err)
	}
	if len(open) != 3 {
		t.Fatalf("open list length = %d, want 3", len(open))
	}
	if open[0].ID != "early-slot" || open[1].ID != "late-slot" || open[2].ID != "undated" {
		t.Fatalf("unexpected order: %s, %s, %s", open[0].ID, open[1].ID, open[2].ID)
	}

	dated, err := repo.ListTasks(ctx, TaskListFilter{DueOnly: true})
	if err != nil {
		t.Fatalf("list dated: %v", err)
	}
	if len(dated) != 2 {
		t.Fatalf("dated list length = %d, want 2", len(dated))
	}

	all, err := repo.ListTasks(ctx, TaskListFilter{IncludeDone: true})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("full list length = %d, want 4", len(all))
	}

	page, err := repo.ListTasks(ctx, TaskListFilter{Limit: 1, Offset: 1})
	if err != nil {
		t.Fatalf("list page: %v", err)
	}
	if len(page) != 1 || page[0].ID != "late-slot" {
		t.Fatalf("unexpected page: %#v", page)
	}
}

func TestDeleteDoneTasks(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	now := parseRFC3339(t, "2026-02-09T12:00:00Z")

	for _, task := range []Task{
		{ID: "open", Title: "Keep", Priority: "Medium", CreatedAt: now, UpdatedAt: now},
		{ID: "done-1", Title: "Drop", Done: true, Priority: "Low", CreatedAt: now, UpdatedAt: now, CompletedAt: &now},
		{ID: "done-2", Title: "Drop too", Done: true, Priority: "Low", CreatedAt: now, UpdatedAt: now, CompletedAt: &now},
	} {
		if err := repo.CreateTask(ctx, task); err != nil {
			t.Fatalf("create %s: %v", task.ID, err)
		}
	}

	removed, err := repo.DeleteDoneTasks(ctx)
	if err != nil {
		t.Fatalf("delete done: %v", err)
	}
	if removed != 2 {
		t.Fatalf("removed = %d, want 2", removed)
	}

	rest, err := repo.ListTasks(ctx, TaskListFilter{IncludeDone: true})
	if err != nil {
		t.Fatalf("list remaining: %v", err)
	}
	if len(rest) != 1 || rest[0].ID != "open" {
		t.Fatalf("unexpected remainder: %#v", rest)
	}
}

func TestHabitCRUDAndList(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	now := parseRFC3339(t, "2026-02-09T12:00:00Z")

	habit := Habit{
		ID:        "habit-1",
		Name:      "morning pages",
		Cadence:   "daily",
		CreatedAt: now,
	}
	if err := repo.CreateHabit(ctx, habit); err != nil {
		t.Fatalf("create habit: %v", err)
	}

	got, err := repo.GetHabit(ctx, habit.ID)
	if err != nil {
		t.Fatalf("get habit: %v", err)
	}
	if got.Name != "morning pages" || got.Streak != 0 || got.LastCheckIn != nil {
		t.Fatalf("unexpected habit: %#v", got)
	}

	checkIn := parseRFC3339(t, "2026-02-09T20:00:00Z")
	habit.Streak = 1
	habit.BestStreak = 1
	habit.LastCheckIn = &checkIn
	if err := repo.UpdateHabit(ctx, habit); err != nil {
		t.Fatalf("update habit: %v", err)
	}

	list, err := repo.ListHabits(ctx, HabitListFilter{})
	if err != nil {
		t.Fatalf("list habits: %v", err)
	}
	if len(list) != 1 || list[0].Streak != 1 || list[0].LastCheckIn == nil {
		t.Fatalf("unexpected habit list: %#v", list)
	}

	if err := repo.DeleteHabit(ctx, habit.ID); err != nil {
		t.Fatalf("delete habit: %v", err)
	}
	if _, err := repo.GetHabit(ctx, habit.ID); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}
