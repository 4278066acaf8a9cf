package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"duewatch/internal/notify"
)

func waitForAlertCmd(ch <-chan notify.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return AlertFiredMsg{Event: ev}
	}
}

func (m Model) onAlert(ev notify.Event) (tea.Model, tea.Cmd) {
	m.Alerts = append(m.Alerts, ev)
	if len(m.Alerts) > 20 {
		m.Alerts = m.Alerts[len(m.Alerts)-20:]
	}

	switch ev.Kind {
	case notify.KindReminder:
		m.Status = StatusBar{Text: fmt.Sprintf("reminder: %s due %s", ev.Title, formatEventWhen(ev)), IsError: false}
		m.notify("Reminder", m.Status.Text, "info")
	case notify.KindEscalation:
		m.Status = StatusBar{Text: fmt.Sprintf("missed: %s (%s), priority raised to High", ev.Title, formatEventWhen(ev)), IsError: true}
		m.notify("Missed deadline", m.Status.Text, "error")
	case notify.KindOnboarding:
		m.Status = StatusBar{Text: "desktop notifications unavailable; alerts stay inside duewatch", IsError: false}
		m.notify("Notifications", m.Status.Text, "warn")
	default:
		m.Status = StatusBar{Text: fmt.Sprintf("alert: %s", ev.Title), IsError: false}
		m.notify("Alert", m.Status.Text, "info")
	}

	cmds := make([]tea.Cmd, 0, 2)
	if cmd := m.reloadTasksCmd(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if m.alertCh != nil {
		cmds = append(cmds, waitForAlertCmd(m.alertCh.C()))
	}
	if len(cmds) == 0 {
		return m, nil
	}
	return m, tea.Batch(cmds...)
}

func formatEventWhen(ev notify.Event) string {
	if ev.Due == "" {
		return "(unscheduled)"
	}
	if ev.Time == "" {
		return ev.Due
	}
	return ev.Due + " " + ev.Time
}
