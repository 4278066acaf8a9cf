package update

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"duewatch/internal/views"
)

func (m Model) Init() tea.Cmd {
	cmds := make([]tea.Cmd, 0, 3)
	if m.alertCh != nil {
		cmds = append(cmds, waitForAlertCmd(m.alertCh.C()))
	}
	if m.taskSvc != nil {
		cmds = append(cmds, m.reloadTasksCmd())
	}
	if m.habitSvc != nil {
		cmds = append(cmds, m.reloadHabitsCmd())
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(typed)
	case tea.FocusMsg:
		// Terminal regained focus: the schedule may be stale, re-check now.
		m.pokeEvaluator()
		return m, m.reloadTasksCmd()
	case tea.BlurMsg:
		// Focus lost is a trigger source too: check once more before the
		// user stops watching.
		m.pokeEvaluator()
		return m, nil
	case spinner.TickMsg:
		if m.spinnerActive {
			var cmd tea.Cmd
			m.scanSpinner, cmd = m.scanSpinner.Update(typed)
			return m, cmd
		}
	case SwitchViewMsg:
		if isKnownView(typed.View) {
			m.CurrentView = typed.View
			if typed.View == ViewFocus {
				m.bootstrapFocusTask()
			}
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		m.notify("Status", typed.Text, levelFromError(typed.IsError))
		if strings.Contains(strings.ToLower(typed.Text), "scan complete") {
			m.spinnerActive = false
			return m, m.reloadTasksCmd()
		}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			m.notify("Error", typed.Err.Error(), "error")
		}
		return m, nil
	case TasksReloadedMsg:
		m.Tasks.Items = typed.Items
		m.syncSelectedTask()
		return m, nil
	case HabitsReloadedMsg:
		m.Habits.Items = typed.Items
		if m.Habits.Cursor >= len(typed.Items) {
			m.Habits.Cursor = len(typed.Items) - 1
		}
		if m.Habits.Cursor < 0 {
			m.Habits.Cursor = 0
		}
		return m, nil
	case AlertFiredMsg:
		return m.onAlert(typed.Event)
	case AcknowledgeAlertMsg:
		if typed.TaskID != "" {
			m.AlertAck[typed.TaskID] = true
			m.Status = StatusBar{Text: fmt.Sprintf("alert acknowledged: %s", typed.TaskID), IsError: false}
		}
		return m, nil
	case FocusTickMsg:
		return m.onFocusTick()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.Palette.Active {
		if msg.String() == m.Keys.Help {
			m.HelpVisible = !m.HelpVisible
			return m, nil
		}
		return m.handlePaletteKey(msg)
	}

	if m.editingNotes && m.CurrentView == ViewTasks {
		return m.handleNotesKey(msg)
	}

	keyStr := msg.String()
	if m.CurrentView == ViewTasks && m.Tasks.CaptureMode && keyStr != "ctrl+c" {
		return m.handleQuickAddKey(msg)
	}
	if m.CurrentView == ViewHabits && m.Habits.CaptureMode && keyStr != "ctrl+c" {
		return m.handleHabitCaptureKey(msg)
	}

	switch keyStr {
	case "/":
		m.Palette.Active = true
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.commandInput.Focus()
		m.Status = StatusBar{Text: "command palette active", IsError: false}
		return m, nil
	case m.Keys.Tasks:
		m.CurrentView = ViewTasks
		return m, nil
	case m.Keys.Agenda:
		m.CurrentView = ViewAgenda
		m.syncSelectedTaskToAgenda()
		return m, nil
	case m.Keys.Habits:
		m.CurrentView = ViewHabits
		return m, m.reloadHabitsCmd()
	case m.Keys.Focus:
		m.CurrentView = ViewFocus
		m.bootstrapFocusTask()
		return m, nil
	case m.Keys.Help:
		m.HelpVisible = !m.HelpVisible
		if m.HelpVisible {
			m.Status = StatusBar{Text: "help shown", IsError: false}
		} else {
			m.Status = StatusBar{Text: "help hidden", IsError: false}
		}
		return m, nil
	case "S":
		if m.pokeEvaluator() && !m.spinnerActive {
			m.spinnerActive = true
			m.Status = StatusBar{Text: "scan requested", IsError: false}
			return m, tea.Batch(
				m.scanSpinner.Tick,
				tea.Tick(2*time.Second, func(time.Time) tea.Msg { return SetStatusMsg{Text: "scan complete", IsError: false} }),
			)
		}
		return m, nil
	case "A":
		if len(m.Alerts) > 0 {
			last := m.Alerts[len(m.Alerts)-1]
			return m, func() tea.Msg { return AcknowledgeAlertMsg{TaskID: last.TaskID} }
		}
		return m, nil
	case "ctrl+c", m.Keys.Quit:
		m.Quitting = true
		return m, tea.Quit
	}

	switch m.CurrentView {
	case ViewTasks:
		return m.handleTasksKey(msg)
	case ViewAgenda:
		return m.handleAgendaKey(msg)
	case ViewHabits:
		return m.handleHabitsKey(msg)
	case ViewFocus:
		return m.handleFocusKey(msg)
	}
	return m, nil
}

func (m Model) View() string {
	m.syncBubbleData()

	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	leftPane := ""
	rightPane := ""
	switch m.CurrentView {
	case ViewTasks:
		leftPane = m.renderTasksView()
		rightPane = m.renderTaskMetadataPane() + m.renderHelpIfVisible()
	case ViewAgenda:
		leftPane = m.renderAgendaView()
		rightPane = m.renderTaskMetadataPane() + m.renderHelpIfVisible()
	case ViewHabits:
		leftPane = m.renderHabitsView()
		rightPane = m.renderHelpIfVisible()
	case ViewFocus:
		leftPane = m.renderFocusView()
		rightPane = m.renderStatsView() + m.renderHelpIfVisible()
	}
	rightPane = m.renderCommandPalette() + rightPane

	alerts := ""
	if len(m.Alerts) > 0 {
		last := m.Alerts[len(m.Alerts)-1]
		alerts = fmt.Sprintf("last-alert: [%s] %s @ %s", last.Kind, last.Title, last.At.Format("15:04:05"))
		if m.AlertAck[last.TaskID] {
			alerts += " (ack)"
		}
	}
	if m.spinnerActive {
		alerts = strings.TrimSpace(strings.Join([]string{alerts, "scan: " + m.scanSpinner.View() + " running"}, "\n"))
	}
	alerts = strings.TrimSpace(strings.Join([]string{
		alerts,
		strings.TrimSpace(m.renderNotificationsView()),
	}, "\n"))

	return views.RenderApp(views.AppData{
		Header:     fmt.Sprintf("duewatch | view: %s | selected: %s", m.CurrentView, m.SelectedTaskID),
		LeftPane:   leftPane,
		RightPane:  rightPane,
		StatusLine: status,
		Alerts:     alerts,
		Footer:     fmt.Sprintf("keys: %s tasks | %s agenda | %s habits | %s focus | / cmd | %s help | %s quit", m.Keys.Tasks, m.Keys.Agenda, m.Keys.Habits, m.Keys.Focus, m.Keys.Help, m.Keys.Quit),
	})
}

func isKnownView(v View) bool {
	switch v {
	case ViewTasks, ViewAgenda, ViewHabits, ViewFocus:
		return true
	default:
		return false
	}
}
