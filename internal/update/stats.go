package update

import (
	"duewatch/internal/evaluator"
	"duewatch/internal/timestate"
	"duewatch/internal/views"
)

func (m Model) renderStatsView() string {
	var stats evaluator.Stats
	if m.eval != nil {
		stats = m.eval.Stats()
	}
	var dropped uint64
	if m.alertCh != nil {
		dropped = m.alertCh.Dropped()
	}
	open, today, overdue, missed := m.scheduleCounts()
	score, label := schedulePressure(overdue, missed, today)
	return views.RenderStatsPanel(views.StatsPanelData{
		Scans:         stats.Scans,
		Evaluated:     stats.TasksEvaluated,
		Reminders:     stats.RemindersFired,
		Escalations:   stats.EscalationsFired,
		Faults:        stats.Faults,
		DroppedAlerts: dropped,
		Open:          open,
		DueToday:      today,
		Overdue:       overdue,
		Missed:        missed,
		PressureScore: score,
		PressureLabel: label,
	})
}

func (m Model) scheduleCounts() (open, today, overdue, missed int) {
	now := m.clock.Now()
	grace := m.missedGrace()
	for _, t := range m.Tasks.Items {
		if t.Done {
			continue
		}
		open++
		st := timestate.Classify(t, now, grace)
		if st.IsToday {
			today++
		}
		if st.IsOverdue {
			overdue++
		}
		if st.IsMissed {
			missed++
		}
	}
	return open, today, overdue, missed
}

func schedulePressure(overdue, missed, today int) (int, string) {
	score := 2*missed + overdue + today/2
	if score > 10 {
		score = 10
	}
	switch {
	case score >= 7:
		return score, "high"
	case score >= 4:
		return score, "medium"
	default:
		return score, "low"
	}
}
