package update

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"duewatch/internal/commands"
	"duewatch/internal/model"
	"duewatch/internal/tasks"
)

var errNoTaskService = errors.New("task service unavailable")

func (m Model) handlePaletteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Palette.Active = false
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.commandInput.Blur()
		m.Status = StatusBar{Text: "command palette closed", IsError: false}
		return m, nil
	case "enter":
		line := m.commandInput.Value()
		m.Palette.Active = false
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.commandInput.Blur()
		return m.runCommandLine(line)
	}
	var cmd tea.Cmd
	m.commandInput, cmd = m.commandInput.Update(msg)
	m.Palette.Input = m.commandInput.Value()
	return m, cmd
}

func (m Model) runCommandLine(line string) (tea.Model, tea.Cmd) {
	parsed, err := commands.Parse(line)
	if err != nil {
		return m.failStatus("command", err)
	}
	res, err := commands.Execute(parsed, m.commandHandlers())
	if err != nil {
		return m.failStatus("command", err)
	}
	m.Status = StatusBar{Text: res.Message, IsError: false}
	m.notify("Command", res.Message, "info")
	m.pokeEvaluator()
	cmds := make([]tea.Cmd, 0, 2)
	if cmd := m.reloadTasksCmd(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if cmd := m.reloadHabitsCmd(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if len(cmds) == 0 {
		return m, nil
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) commandHandlers() commands.Handlers {
	return commands.Handlers{
		Add:    m.execAdd,
		Done:   m.execDone,
		Start:  m.execStart,
		Due:    m.execDue,
		Remind: m.execRemind,
		Pri:    m.execPri,
		Show:   m.execShow,
		Clear:  m.execClear,
	}
}

func (m *Model) execAdd(args commands.AddArgs) (commands.Result, error) {
	if m.taskSvc == nil {
		return commands.Result{}, errNoTaskService
	}
	priority, err := parsePriority(args.Priority)
	if err != nil {
		return commands.Result{}, err
	}
	task, err := m.taskSvc.Create(context.Background(), tasks.Draft{
		Title:      args.Title,
		Due:        args.Due,
		Time:       args.Time,
		RemindMins: args.RemindMins,
		Priority:   priority,
		Tags:       args.Tags,
	})
	if err != nil {
		return commands.Result{}, err
	}
	msg := fmt.Sprintf("added: %s", task.Title)
	if task.Due != "" {
		msg += " due " + task.Due
		if task.Time != "" {
			msg += " " + task.Time
		}
	}
	return commands.Result{Message: msg}, nil
}

func (m *Model) execDone(args commands.DoneArgs) (commands.Result, error) {
	task, err := m.resolveTarget(args.Target)
	if err != nil {
		return commands.Result{}, err
	}
	toggled, err := m.taskSvc.Toggle(context.Background(), task.ID)
	if err != nil {
		return commands.Result{}, err
	}
	if toggled.Done {
		return commands.Result{Message: fmt.Sprintf("done: %s", toggled.Title)}, nil
	}
	return commands.Result{Message: fmt.Sprintf("reopened: %s", toggled.Title)}, nil
}

func (m *Model) execStart(args commands.StartArgs) (commands.Result, error) {
	task, err := m.resolveTarget(args.Target)
	if err != nil {
		return commands.Result{}, err
	}
	started, err := m.taskSvc.Start(context.Background(), task.ID)
	if err != nil {
		return commands.Result{}, err
	}
	return commands.Result{Message: fmt.Sprintf("started: %s", started.Title)}, nil
}

func (m *Model) execDue(args commands.DueArgs) (commands.Result, error) {
	task, err := m.resolveTarget(args.Target)
	if err != nil {
		return commands.Result{}, err
	}
	if args.Date == "none" || args.Date == "clear" {
		cleared, err := m.taskSvc.SetSchedule(context.Background(), task.ID, "", "", 0)
		if err != nil {
			return commands.Result{}, err
		}
		return commands.Result{Message: fmt.Sprintf("deadline cleared: %s", cleared.Title)}, nil
	}
	clock := args.Time
	if clock == "" {
		clock = task.Time
	}
	updated, err := m.taskSvc.SetSchedule(context.Background(), task.ID, args.Date, clock, task.RemindMins)
	if err != nil {
		return commands.Result{}, err
	}
	msg := fmt.Sprintf("due set: %s -> %s", updated.Title, updated.Due)
	if updated.Time != "" {
		msg += " " + updated.Time
	}
	return commands.Result{Message: msg}, nil
}

func (m *Model) execRemind(args commands.RemindArgs) (commands.Result, error) {
	task, err := m.resolveTarget(args.Target)
	if err != nil {
		return commands.Result{}, err
	}
	updated, err := m.taskSvc.SetSchedule(context.Background(), task.ID, task.Due, task.Time, args.Mins)
	if err != nil {
		return commands.Result{}, err
	}
	if updated.RemindMins == 0 {
		return commands.Result{Message: fmt.Sprintf("reminders off: %s", updated.Title)}, nil
	}
	return commands.Result{Message: fmt.Sprintf("remind: %s %dm before due", updated.Title, updated.RemindMins)}, nil
}

func (m *Model) execPri(args commands.PriArgs) (commands.Result, error) {
	task, err := m.resolveTarget(args.Target)
	if err != nil {
		return commands.Result{}, err
	}
	priority, err := parsePriority(args.Level)
	if err != nil {
		return commands.Result{}, err
	}
	if priority == "" {
		return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "pri requires a level: low, medium, or high"}
	}
	updated, err := m.taskSvc.SetPriority(context.Background(), task.ID, priority)
	if err != nil {
		return commands.Result{}, err
	}
	return commands.Result{Message: fmt.Sprintf("priority: %s -> %s", updated.Title, updated.Priority)}, nil
}

func (m *Model) execShow(args commands.ShowArgs) (commands.Result, error) {
	subject := args.Subject
	tag := args.Tag
	if strings.HasPrefix(subject, "tag:") {
		tag = strings.TrimPrefix(subject, "tag:")
		subject = "tag"
	}
	switch subject {
	case "open":
		m.Tasks.ShowDone = false
		m.Tasks.TagFilter = ""
		m.CurrentView = ViewTasks
		return commands.Result{Message: "showing open tasks"}, nil
	case "done":
		m.Tasks.ShowDone = true
		m.Tasks.TagFilter = ""
		m.CurrentView = ViewTasks
		return commands.Result{Message: "showing done tasks too"}, nil
	case "all":
		m.Tasks.ShowDone = true
		m.Tasks.TagFilter = ""
		m.CurrentView = ViewTasks
		return commands.Result{Message: "showing everything"}, nil
	case "today":
		m.CurrentView = ViewAgenda
		m.Agenda.Mode = AgendaModeDay
		m.Agenda.FocusDate = m.clock.Now()
		m.Agenda.Cursor = 0
		return commands.Result{Message: "showing today's agenda"}, nil
	case "tag":
		if tag == "" {
			return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "show tag requires tag:<name>"}
		}
		m.Tasks.TagFilter = tag
		m.Tasks.Cursor = 0
		m.CurrentView = ViewTasks
		return commands.Result{Message: fmt.Sprintf("filtering by #%s", tag)}, nil
	default:
		return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown show subject: %s", subject)}
	}
}

func (m *Model) execClear(args commands.ClearArgs) (commands.Result, error) {
	switch args.Scope {
	case "done":
		if m.taskSvc == nil {
			return commands.Result{}, errNoTaskService
		}
		removed, err := m.taskSvc.ClearDone(context.Background())
		if err != nil {
			return commands.Result{}, err
		}
		return commands.Result{Message: fmt.Sprintf("cleared %d done tasks", removed)}, nil
	case "filter", "filters":
		m.Tasks.TagFilter = ""
		m.Tasks.ShowDone = false
		m.Tasks.Cursor = 0
		return commands.Result{Message: "filters cleared"}, nil
	default:
		return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown clear scope: %s", args.Scope)}
	}
}

func (m *Model) resolveTarget(raw string) (model.Task, error) {
	if m.taskSvc == nil {
		return model.Task{}, errNoTaskService
	}
	target := strings.TrimSpace(strings.ToLower(raw))
	if target == "" || target == "selected" {
		sel, ok := m.selectedTask()
		if !ok {
			return model.Task{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "no task selected"}
		}
		return sel, nil
	}
	for _, t := range m.Tasks.Items {
		if strings.ToLower(t.ID) == target {
			return t, nil
		}
	}
	var match model.Task
	found := 0
	for _, t := range m.Tasks.Items {
		if strings.HasPrefix(strings.ToLower(t.Title), target) {
			match = t
			found++
		}
	}
	switch found {
	case 1:
		return match, nil
	case 0:
		return model.Task{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("no task matches %q", raw)}
	default:
		return model.Task{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("%q matches %d tasks, be more specific", raw, found)}
	}
}

func parsePriority(raw string) (model.Priority, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return "", nil
	case "low":
		return model.PriorityLow, nil
	case "medium", "med":
		return model.PriorityMedium, nil
	case "high":
		return model.PriorityHigh, nil
	default:
		return "", &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown priority: %s", raw)}
	}
}
