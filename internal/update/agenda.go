package update

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"duewatch/internal/model"
)

func (m Model) handleAgendaKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "d":
		m.Agenda.Mode = AgendaModeDay
		m.Agenda.Cursor = 0
	case "w":
		m.Agenda.Mode = AgendaModeWeek
		m.Agenda.Cursor = 0
	case "m":
		m.Agenda.Mode = AgendaModeMonth
		m.Agenda.Cursor = 0
	case "h", "left":
		m.Agenda.FocusDate = m.shiftFocusDate(-1)
		m.Agenda.Cursor = 0
	case "l", "right":
		m.Agenda.FocusDate = m.shiftFocusDate(1)
		m.Agenda.Cursor = 0
	case "t":
		m.Agenda.FocusDate = m.clock.Now()
		m.Agenda.Cursor = 0
	case "up", "k":
		if m.Agenda.Cursor > 0 {
			m.Agenda.Cursor--
		}
	case "down", "j":
		if m.Agenda.Cursor < len(m.agendaItems())-1 {
			m.Agenda.Cursor++
		}
	}
	m.syncSelectedTaskToAgenda()
	return m, nil
}

func (m Model) shiftFocusDate(dir int) time.Time {
	switch m.Agenda.Mode {
	case AgendaModeDay:
		return m.Agenda.FocusDate.AddDate(0, 0, dir)
	case AgendaModeMonth:
		return m.Agenda.FocusDate.AddDate(0, dir, 0)
	default:
		return m.Agenda.FocusDate.AddDate(0, 0, 7*dir)
	}
}

func (m Model) agendaPeriod() (start, end time.Time) {
	focus := m.Agenda.FocusDate
	y, mo, d := focus.Date()
	day := time.Date(y, mo, d, 0, 0, 0, 0, focus.Location())
	switch m.Agenda.Mode {
	case AgendaModeDay:
		return day, day
	case AgendaModeMonth:
		first := time.Date(y, mo, 1, 0, 0, 0, 0, focus.Location())
		return first, first.AddDate(0, 1, -1)
	default:
		weekday := int(day.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		monday := day.AddDate(0, 0, 1-weekday)
		return monday, monday.AddDate(0, 0, 6)
	}
}

func (m Model) agendaItems() []model.Task {
	start, end := m.agendaPeriod()
	from := start.Format(model.DueDateLayout)
	to := end.Format(model.DueDateLayout)
	out := make([]model.Task, 0)
	for _, t := range m.Tasks.Items {
		if t.Done || !t.HasDeadline() {
			continue
		}
		if t.Due < from || t.Due > to {
			continue
		}
		out = append(out, t)
	}
	return out
}

func (m *Model) syncSelectedTaskToAgenda() {
	items := m.agendaItems()
	if len(items) == 0 {
		return
	}
	if m.Agenda.Cursor >= len(items) {
		m.Agenda.Cursor = len(items) - 1
	}
	if m.Agenda.Cursor < 0 {
		m.Agenda.Cursor = 0
	}
	m.SelectedTaskID = items[m.Agenda.Cursor].ID
}
