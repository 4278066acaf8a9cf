package update

import (
	"fmt"
	"time"

	"duewatch/internal/model"
	"duewatch/internal/timestate"
	"duewatch/internal/views"
)

func (m *Model) notify(title, body, level string) {
	m.Notifications = append(m.Notifications, Notification{Title: title, Body: body, Level: level, At: m.clock.Now()})
	if len(m.Notifications) > 40 {
		m.Notifications = m.Notifications[len(m.Notifications)-40:]
	}
}

func (m Model) renderNotificationsView() string {
	if len(m.Notifications) == 0 {
		return ""
	}
	last := m.Notifications[len(m.Notifications)-1]
	return views.RenderNotification(last.Level, fmt.Sprintf("%s: %s", last.Title, last.Body))
}

func (m Model) missedGrace() time.Duration {
	if m.eval != nil {
		return m.eval.MissedGrace()
	}
	return timestate.DefaultGrace
}

func (m Model) taskBucket(t model.Task) string {
	if t.Done {
		return views.BucketDone
	}
	if !t.HasDeadline() {
		return views.BucketSomeday
	}
	st := timestate.Classify(t, m.clock.Now(), m.missedGrace())
	switch {
	case st.IsMissed:
		return views.BucketMissed
	case st.IsOverdue:
		return views.BucketOverdue
	case st.IsToday:
		return views.BucketToday
	default:
		return views.BucketUpcoming
	}
}

func (m Model) renderTasksView() string {
	items := m.visibleTasks()
	rows := make([]views.TaskRowData, 0, len(items))
	for _, t := range items {
		rows = append(rows, views.TaskRowData{
			ID:         t.ID,
			Title:      t.Title,
			Bucket:     m.taskBucket(t),
			Due:        t.Due,
			Time:       t.Time,
			RemindMins: t.RemindMins,
			Priority:   string(t.Priority),
			Started:    t.Started(),
			Tags:       t.Tags,
		})
	}
	return views.RenderTasksPanel(views.TasksPanelData{
		QuickAddView: m.quickAddInput.View(),
		Capturing:    m.Tasks.CaptureMode,
		ListView:     m.taskList.View(),
		Items:        rows,
		SelectedID:   m.SelectedTaskID,
		ShowDone:     m.Tasks.ShowDone,
		TagFilter:    m.Tasks.TagFilter,
	})
}

func (m Model) renderAgendaView() string {
	items := m.agendaItems()
	rows := make([]views.AgendaRowData, 0, len(items))
	for _, t := range items {
		rows = append(rows, views.AgendaRowData{
			ID:     t.ID,
			Title:  t.Title,
			Date:   t.Due,
			Time:   t.Time,
			Bucket: m.taskBucket(t),
		})
	}
	var selected *views.AgendaRowData
	if len(rows) > 0 && m.Agenda.Cursor >= 0 && m.Agenda.Cursor < len(rows) {
		sel := rows[m.Agenda.Cursor]
		selected = &sel
	}
	start, end := m.agendaPeriod()
	return views.RenderAgendaPanel(views.AgendaPanelData{
		Mode:      string(m.Agenda.Mode),
		FocusDate: m.Agenda.FocusDate.Format(model.DueDateLayout),
		Period:    fmt.Sprintf("%s..%s", start.Format(model.DueDateLayout), end.Format(model.DueDateLayout)),
		TableView: m.agendaTable.View(),
		Items:     rows,
		Selected:  selected,
	})
}

func (m Model) renderHabitsView() string {
	now := m.clock.Now()
	rows := make([]views.HabitRowData, 0, len(m.Habits.Items))
	for _, h := range m.Habits.Items {
		last := ""
		if h.LastCheckIn != nil {
			last = h.LastCheckIn.Format(model.DueDateLayout)
		}
		rows = append(rows, views.HabitRowData{
			ID:          h.ID,
			Name:        h.Name,
			Cadence:     string(h.Cadence),
			Streak:      h.Streak,
			BestStreak:  h.BestStreak,
			LastCheckIn: last,
			Pending:     h.PendingAt(now),
		})
	}
	selectedID := ""
	if sel, ok := m.selectedHabit(); ok {
		selectedID = sel.ID
	}
	return views.RenderHabitsPanel(views.HabitsPanelData{
		CaptureView: m.habitInput.View(),
		Capturing:   m.Habits.CaptureMode,
		Items:       rows,
		SelectedID:  selectedID,
	})
}

func (m Model) renderFocusView() string {
	total := m.currentFocusTotal()
	pct := 0
	if total > 0 {
		pct = (total - m.Focus.RemainingSec) * 100 / total
	}
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return views.RenderFocusPanel(views.FocusPanelData{
		TaskTitle:          m.Focus.TaskTitle,
		Phase:              string(m.Focus.Phase),
		Timer:              formatDuration(m.Focus.RemainingSec),
		ProgressView:       m.focusProgress.View(),
		ProgressPct:        pct,
		CompletedPomodoros: m.Focus.CompletedBlocks,
		ShowEndPrompt:      !m.Focus.Running && m.Focus.RemainingSec == 0,
	})
}

func (m Model) renderTaskMetadataPane() string {
	sel, ok := m.selectedTask()
	if !ok {
		return views.RenderTaskMetadataPane(views.TaskMetadataData{})
	}
	started := ""
	if sel.StartedAt != nil {
		started = sel.StartedAt.Format("2006-01-02 15:04")
	}
	return views.RenderTaskMetadataPane(views.TaskMetadataData{
		SelectedID:      sel.ID,
		Priority:        string(sel.Priority),
		Due:             sel.Due,
		Time:            sel.Time,
		RemindMins:      sel.RemindMins,
		StartedAt:       started,
		Tags:            sel.Tags,
		NotesEditorView: m.notesArea.View(),
		MarkdownView:    m.metaViewport.View(),
	})
}

func (m Model) renderCommandPalette() string {
	return views.RenderCommandPalette(m.Palette.Active, m.Palette.Input)
}
