package timestate

import (
	"regexp"
	"time"

	"duewatch/internal/model"
)

const DefaultClockTime = "09:00"

const DefaultGrace = 5 * time.Minute

var clockTimeRE = regexp.MustCompile(`^\d{2}:\d{2}$`)

func ValidClockTime(s string) bool { return clockTimeRE.MatchString(s) }

func ResolveClockTime(s string) string {
	if ValidClockTime(s) {
		return s
	}
	return DefaultClockTime
}

func LocalDay(now time.Time) string { return now.Format(model.DueDateLayout) }

func DeadlineAt(due, clock string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(model.DueDateLayout+" 15:04", due+" "+ResolveClockTime(clock), loc)
}

type State struct {
	IsToday   bool
	IsOverdue bool
	IsMissed  bool
}

func Classify(task model.Task, now time.Time, grace time.Duration) State {
	var st State
	if task.Done || !task.HasDeadline() {
		return st
	}
	today := LocalDay(now)
	st.IsToday = task.Due == today
	st.IsOverdue = task.Due < today

	// Missed requires a syntactically valid clock time; a date-only task is
	// only ever overdue. A started task is never missed again.
	if task.Started() || !ValidClockTime(task.Time) {
		return st
	}
	deadline, err := DeadlineAt(task.Due, task.Time, now.Location())
	if err != nil {
		return st
	}
	st.IsMissed = now.After(deadline.Add(grace))
	return st
}
