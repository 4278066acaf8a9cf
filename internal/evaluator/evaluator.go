package evaluator

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"duewatch/internal/ledger"
	"duewatch/internal/model"
	"duewatch/internal/notify"
	"duewatch/internal/timestate"
)

type TaskSource interface {
	Snapshot(ctx context.Context) ([]model.Task, error)
	EscalatePriority(ctx context.Context, id string) error
}

type Config struct {
	ReminderGrace time.Duration
	MissedGrace   time.Duration
}

type Evaluator struct {
	source   TaskSource
	ledger   ledger.Ledger
	notifier notify.Notifier
	clock    Clock
	logger   *slog.Logger

	reminderGrace time.Duration
	missedGrace   time.Duration

	scans            atomic.Int64
	tasksEvaluated   atomic.Int64
	remindersFired   atomic.Int64
	escalationsFired atomic.Int64
	faults           atomic.Int64

	onboardingDone atomic.Bool
}

func New(source TaskSource, led ledger.Ledger, notifier notify.Notifier, clock Clock, logger *slog.Logger, cfg Config) *Evaluator {
	if clock == nil {
		clock = SystemClock()
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ReminderGrace <= 0 {
		cfg.ReminderGrace = timestate.DefaultGrace
	}
	if cfg.MissedGrace <= 0 {
		cfg.MissedGrace = timestate.DefaultGrace
	}
	return &Evaluator{
		source:        source,
		ledger:        led,
		notifier:      notifier,
		clock:         clock,
		logger:        logger,
		reminderGrace: cfg.ReminderGrace,
		missedGrace:   cfg.MissedGrace,
	}
}

type Summary struct {
	At          time.Time
	Evaluated   int
	Reminders   int
	Escalations int
	Faults      int
}

type Stats struct {
	Scans            int64
	TasksEvaluated   int64
	RemindersFired   int64
	EscalationsFired int64
	Faults           int64
}

func (e *Evaluator) Stats() Stats {
	return Stats{
		Scans:            e.scans.Load(),
		TasksEvaluated:   e.tasksEvaluated.Load(),
		RemindersFired:   e.remindersFired.Load(),
		EscalationsFired: e.escalationsFired.Load(),
		Faults:           e.faults.Load(),
	}
}

func (e *Evaluator) MissedGrace() time.Duration { return e.missedGrace }

func (e *Evaluator) Scan(ctx context.Context) Summary {
	now := e.clock.Now()
	sum := Summary{At: now}
	e.scans.Add(1)

	e.maybeWarnOnboarding(&sum)

	tasks, err := e.source.Snapshot(ctx)
	if err != nil {
		e.recordFault(&sum)
		e.logger.Error("task snapshot failed", "error", err)
		return sum
	}
	for _, task := range tasks {
		if task.Done || !task.HasDeadline() {
			continue
		}
		sum.Evaluated++
		e.tasksEvaluated.Add(1)
		st := timestate.Classify(task, now, e.missedGrace)
		if e.fireReminder(task, now, &sum) {
			sum.Reminders++
		}
		if e.fireEscalation(ctx, task, st, now, &sum) {
			sum.Escalations++
		}
	}
	e.logger.Debug("scan complete",
		"evaluated", sum.Evaluated,
		"reminders", sum.Reminders,
		"escalations", sum.Escalations,
		"faults", sum.Faults,
	)
	return sum
}

func (e *Evaluator) fireReminder(task model.Task, now time.Time, sum *Summary) bool {
	if task.RemindMins <= 0 {
		return false
	}
	deadline, err := timestate.DeadlineAt(task.Due, task.Time, now.Location())
	if err != nil {
		e.logger.Debug("unresolvable deadline", "task", task.ID, "due", task.Due)
		return false
	}
	start := deadline.Add(-time.Duration(task.RemindMins) * time.Minute)
	end := deadline.Add(e.reminderGrace)
	if now.Before(start) || now.After(end) {
		return false
	}

	key := ledger.ReminderKey(task.ID, task.Due, task.Time, task.RemindMins)
	fired, err := e.ledger.IsFired(key)
	if err != nil {
		// Prefer a possible duplicate over a silently lost reminder.
		e.recordFault(sum)
		e.logger.Warn("ledger read failed", "key", key, "error", err)
	}
	if fired {
		return false
	}
	if err := e.ledger.MarkFired(key); err != nil {
		// Deliver anyway; the unfired key makes the next pass repeat it.
		e.recordFault(sum)
		e.logger.Warn("ledger mark failed", "key", key, "error", err)
	}
	e.remindersFired.Add(1)
	e.notifier.DeliverReminder(eventFor(task, now))
	e.logger.Info("reminder fired",
		"task", task.ID, "due", task.Due, "time", task.Time, "lead_mins", task.RemindMins)
	return true
}

func (e *Evaluator) fireEscalation(ctx context.Context, task model.Task, st timestate.State, now time.Time, sum *Summary) bool {
	if !st.IsMissed || task.Priority == model.PriorityHigh {
		return false
	}

	key := ledger.EscalationKey(task.ID, task.Due, task.Time)
	fired, err := e.ledger.IsFired(key)
	if err != nil {
		e.recordFault(sum)
		e.logger.Warn("ledger read failed", "key", key, "error", err)
	}
	if fired {
		return false
	}
	if err := e.ledger.MarkFired(key); err != nil {
		e.recordFault(sum)
		e.logger.Warn("ledger mark failed", "key", key, "error", err)
	}
	if err := e.source.EscalatePriority(ctx, task.ID); err != nil {
		e.recordFault(sum)
		e.logger.Error("priority escalation failed", "task", task.ID, "error", err)
	}
	e.escalationsFired.Add(1)
	e.notifier.DeliverEscalationNotice(eventFor(task, now))
	e.logger.Info("missed deadline escalated", "task", task.ID, "due", task.Due, "time", task.Time)
	return true
}

func (e *Evaluator) maybeWarnOnboarding(sum *Summary) {
	if e.onboardingDone.Load() || e.notifier.Available() {
		return
	}
	fired, err := e.ledger.IsFired(ledger.OnboardingKey)
	if err != nil {
		e.recordFault(sum)
		e.logger.Warn("ledger read failed", "key", ledger.OnboardingKey, "error", err)
		return
	}
	if fired {
		e.onboardingDone.Store(true)
		return
	}
	if err := e.ledger.MarkFired(ledger.OnboardingKey); err != nil {
		e.recordFault(sum)
		e.logger.Warn("ledger mark failed", "key", ledger.OnboardingKey, "error", err)
		return
	}
	e.onboardingDone.Store(true)
	e.notifier.DeliverOnboardingWarning()
	e.logger.Warn("notifications unavailable; onboarding warning emitted")
}

func (e *Evaluator) recordFault(sum *Summary) {
	e.faults.Add(1)
	if sum != nil {
		sum.Faults++
	}
}

func eventFor(task model.Task, now time.Time) notify.Event {
	return notify.Event{
		TaskID:     task.ID,
		Title:      task.Title,
		Due:        task.Due,
		Time:       task.Time,
		RemindMins: task.RemindMins,
		At:         now,
	}
}
