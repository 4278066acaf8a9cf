package update

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"duewatch/internal/model"
)

func (m Model) handleHabitsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.Habits.Cursor > 0 {
			m.Habits.Cursor--
		}
		return m, nil
	case "down", "j":
		if m.Habits.Cursor < len(m.Habits.Items)-1 {
			m.Habits.Cursor++
		}
		return m, nil
	case "enter", "x":
		return m.checkInSelectedHabit()
	case "n":
		m.Habits.CaptureMode = true
		m.habitInput.Focus()
		m.Status = StatusBar{Text: "new habit: name [daily|weekly]", IsError: false}
		return m, nil
	case "D":
		return m.deleteSelectedHabit()
	}
	return m, nil
}

func (m Model) handleHabitCaptureKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Habits.CaptureMode = false
		m.habitInput.Blur()
		m.Status = StatusBar{Text: "habit list mode", IsError: false}
		return m, nil
	case "enter":
		line := strings.TrimSpace(m.habitInput.Value())
		m.habitInput.SetValue("")
		m.Habits.Input = ""
		m.Habits.CaptureMode = false
		m.habitInput.Blur()
		if line == "" {
			return m, nil
		}
		return m.createHabit(line)
	}
	var cmd tea.Cmd
	m.habitInput, cmd = m.habitInput.Update(msg)
	m.Habits.Input = m.habitInput.Value()
	return m, cmd
}

func (m Model) createHabit(line string) (tea.Model, tea.Cmd) {
	if m.habitSvc == nil {
		return m, nil
	}
	name := line
	cadence := model.CadenceDaily
	if fields := strings.Fields(line); len(fields) > 1 {
		last := model.HabitCadence(strings.ToLower(fields[len(fields)-1]))
		if last.IsValid() {
			cadence = last
			name = strings.TrimSpace(strings.Join(fields[:len(fields)-1], " "))
		}
	}
	habit, err := m.habitSvc.Create(context.Background(), name, cadence)
	if err != nil {
		return m.failStatus("create habit", err)
	}
	m.Status = StatusBar{Text: fmt.Sprintf("habit added: %s (%s)", habit.Name, habit.Cadence), IsError: false}
	return m, m.reloadHabitsCmd()
}

func (m Model) checkInSelectedHabit() (tea.Model, tea.Cmd) {
	sel, ok := m.selectedHabit()
	if !ok || m.habitSvc == nil {
		return m, nil
	}
	habit, advanced, err := m.habitSvc.CheckIn(context.Background(), sel.ID)
	if err != nil {
		return m.failStatus("habit check-in", err)
	}
	if advanced {
		m.Status = StatusBar{Text: fmt.Sprintf("%s: streak %d", habit.Name, habit.Streak), IsError: false}
	} else {
		m.Status = StatusBar{Text: fmt.Sprintf("%s already checked in this period", habit.Name), IsError: false}
	}
	return m, m.reloadHabitsCmd()
}

func (m Model) deleteSelectedHabit() (tea.Model, tea.Cmd) {
	sel, ok := m.selectedHabit()
	if !ok || m.habitSvc == nil {
		return m, nil
	}
	if err := m.habitSvc.Delete(context.Background(), sel.ID); err != nil {
		return m.failStatus("delete habit", err)
	}
	m.Status = StatusBar{Text: fmt.Sprintf("habit removed: %s", sel.Name), IsError: false}
	return m, m.reloadHabitsCmd()
}

func (m Model) selectedHabit() (model.Habit, bool) {
	if len(m.Habits.Items) == 0 || m.Habits.Cursor < 0 || m.Habits.Cursor >= len(m.Habits.Items) {
		return model.Habit{}, false
	}
	return m.Habits.Items[m.Habits.Cursor], true
}

func (m Model) reloadHabitsCmd() tea.Cmd {
	svc := m.habitSvc
	if svc == nil {
		return nil
	}
	return func() tea.Msg {
		items, err := svc.List(context.Background())
		if err != nil {
			return AppErrorMsg{Err: err}
		}
		return HabitsReloadedMsg{Items: items}
	}
}
