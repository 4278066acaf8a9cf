package update

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"duewatch/internal/model"
	"duewatch/internal/tasks"
)

func (m Model) handleTasksKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "a", "i":
		m.Tasks.CaptureMode = true
		m.quickAddInput.Focus()
		m.Status = StatusBar{Text: "quick add: title due:YYYY-MM-DD at:HH:MM remind:MINS pri:LEVEL #tag", IsError: false}
		return m, nil
	case "up", "k":
		if m.Tasks.Cursor > 0 {
			m.Tasks.Cursor--
		}
		m.syncSelectedTask()
		return m, nil
	case "down", "j":
		if m.Tasks.Cursor < len(m.visibleTasks())-1 {
			m.Tasks.Cursor++
		}
		m.syncSelectedTask()
		return m, nil
	case "enter", "x":
		return m.toggleSelectedTask()
	case "s":
		return m.startSelectedTask()
	case "D":
		return m.deleteSelectedTask()
	case ".":
		m.Tasks.ShowDone = !m.Tasks.ShowDone
		m.Tasks.Cursor = 0
		return m, m.reloadTasksCmd()
	case "e":
		if sel, ok := m.selectedTask(); ok {
			m.editingNotes = true
			m.notesArea.SetValue(sel.Notes)
			m.notesArea.Focus()
			m.Status = StatusBar{Text: "editing notes, esc saves", IsError: false}
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleQuickAddKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Tasks.CaptureMode = false
		m.quickAddInput.Blur()
		m.Status = StatusBar{Text: "task list mode", IsError: false}
		return m, nil
	case "enter":
		line := strings.TrimSpace(m.quickAddInput.Value())
		m.quickAddInput.SetValue("")
		m.Tasks.Input = ""
		m.Tasks.CaptureMode = false
		m.quickAddInput.Blur()
		if line == "" {
			return m, nil
		}
		return m.runCommandLine("add " + line)
	}
	var cmd tea.Cmd
	m.quickAddInput, cmd = m.quickAddInput.Update(msg)
	m.Tasks.Input = m.quickAddInput.Value()
	return m, cmd
}

func (m Model) handleNotesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.editingNotes = false
		m.notesArea.Blur()
		sel, ok := m.selectedTask()
		if !ok || m.taskSvc == nil {
			return m, nil
		}
		notes := m.notesArea.Value()
		if _, err := m.taskSvc.Update(context.Background(), sel.ID, func(task *model.Task) { task.Notes = notes }); err != nil {
			return m.failStatus("save notes", err)
		}
		m.Status = StatusBar{Text: "notes saved", IsError: false}
		return m, m.reloadTasksCmd()
	}
	var cmd tea.Cmd
	m.notesArea, cmd = m.notesArea.Update(msg)
	return m, cmd
}

func (m Model) toggleSelectedTask() (tea.Model, tea.Cmd) {
	sel, ok := m.selectedTask()
	if !ok || m.taskSvc == nil {
		return m, nil
	}
	task, err := m.taskSvc.Toggle(context.Background(), sel.ID)
	if err != nil {
		return m.failStatus("toggle done", err)
	}
	if task.Done {
		m.Status = StatusBar{Text: fmt.Sprintf("done: %s", task.Title), IsError: false}
	} else {
		m.Status = StatusBar{Text: fmt.Sprintf("reopened: %s", task.Title), IsError: false}
	}
	m.pokeEvaluator()
	return m, m.reloadTasksCmd()
}

func (m Model) startSelectedTask() (tea.Model, tea.Cmd) {
	sel, ok := m.selectedTask()
	if !ok || m.taskSvc == nil {
		return m, nil
	}
	task, err := m.taskSvc.Start(context.Background(), sel.ID)
	if err != nil {
		return m.failStatus("start task", err)
	}
	m.Status = StatusBar{Text: fmt.Sprintf("started: %s", task.Title), IsError: false}
	m.pokeEvaluator()
	return m, m.reloadTasksCmd()
}

func (m Model) deleteSelectedTask() (tea.Model, tea.Cmd) {
	sel, ok := m.selectedTask()
	if !ok || m.taskSvc == nil {
		return m, nil
	}
	if err := m.taskSvc.Delete(context.Background(), sel.ID); err != nil {
		return m.failStatus("delete task", err)
	}
	m.Status = StatusBar{Text: fmt.Sprintf("deleted: %s", sel.Title), IsError: false}
	m.pokeEvaluator()
	return m, m.reloadTasksCmd()
}

func (m Model) reloadTasksCmd() tea.Cmd {
	svc := m.taskSvc
	if svc == nil {
		return nil
	}
	includeDone := m.Tasks.ShowDone
	return func() tea.Msg {
		items, err := svc.List(context.Background(), tasks.ListOptions{IncludeDone: includeDone})
		if err != nil {
			return AppErrorMsg{Err: err}
		}
		return TasksReloadedMsg{Items: items}
	}
}

func (m Model) visibleTasks() []model.Task {
	if m.Tasks.TagFilter == "" {
		return m.Tasks.Items
	}
	out := make([]model.Task, 0, len(m.Tasks.Items))
	for _, t := range m.Tasks.Items {
		if taskHasTag(t, m.Tasks.TagFilter) {
			out = append(out, t)
		}
	}
	return out
}

func (m Model) selectedTask() (model.Task, bool) {
	items := m.visibleTasks()
	if len(items) == 0 || m.Tasks.Cursor < 0 || m.Tasks.Cursor >= len(items) {
		return model.Task{}, false
	}
	return items[m.Tasks.Cursor], true
}

func (m *Model) syncSelectedTask() {
	items := m.visibleTasks()
	if len(items) == 0 {
		m.SelectedTaskID = ""
		m.Tasks.Cursor = 0
		return
	}
	if m.Tasks.Cursor >= len(items) {
		m.Tasks.Cursor = len(items) - 1
	}
	if m.Tasks.Cursor < 0 {
		m.Tasks.Cursor = 0
	}
	m.SelectedTaskID = items[m.Tasks.Cursor].ID
}

func taskHasTag(t model.Task, tag string) bool {
	for _, candidate := range t.Tags {
		if strings.EqualFold(candidate, tag) {
			return true
		}
	}
	return false
}
