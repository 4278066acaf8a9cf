package update

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"duewatch/internal/evaluator"
	"duewatch/internal/habits"
	"duewatch/internal/model"
	"duewatch/internal/notify"
	"duewatch/internal/tasks"
)

type View string

const (
	ViewTasks  View = "Tasks"
	ViewAgenda View = "Agenda"
	ViewHabits View = "Habits"
	ViewFocus  View = "Focus"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Tasks  string
	Agenda string
	Habits string
	Focus  string
	Help   string
	Quit   string
}

type TasksState struct {
	Items       []model.Task
	Cursor      int
	ShowDone    bool
	TagFilter   string
	CaptureMode bool
	Input       string
}

type AgendaMode string

const (
	AgendaModeDay   AgendaMode = "day"
	AgendaModeWeek  AgendaMode = "week"
	AgendaModeMonth AgendaMode = "month"
)

type AgendaState struct {
	Mode      AgendaMode
	FocusDate time.Time
	Cursor    int
}

type HabitsState struct {
	Items       []model.Habit
	Cursor      int
	CaptureMode bool
	Input       string
}

type FocusPhase string

const (
	FocusPhaseWork  FocusPhase = "work"
	FocusPhaseBreak FocusPhase = "break"
)

type FocusState struct {
	TaskID           string
	TaskTitle        string
	WorkDurationSec  int
	BreakDurationSec int
	RemainingSec     int
	Running          bool
	Phase            FocusPhase
	CompletedBlocks  int
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type Notification struct {
	Title string
	Body  string
	Level string
	At    time.Time
}

type listItem struct {
	title       string
	description string
}

func (i listItem) FilterValue() string { return i.title + " " + i.description }
func (i listItem) Title() string       { return i.title }
func (i listItem) Description() string { return i.description }

type Model struct {
	CurrentView    View
	SelectedTaskID string
	Tasks          TasksState
	Agenda         AgendaState
	Habits         HabitsState
	Focus          FocusState
	Palette        CommandPaletteState
	HelpVisible    bool
	Alerts         []notify.Event
	AlertAck       map[string]bool
	Notifications  []Notification
	Status         StatusBar
	Keys           GlobalKeyMap
	Quitting       bool
	LastError      error

	taskSvc  *tasks.Service
	habitSvc *habits.Service
	loop     *evaluator.Loop
	eval     *evaluator.Evaluator
	alertCh  *notify.Channel
	clock    evaluator.Clock

	// Bubble components backing the richer widgets.
	taskList      list.Model
	agendaTable   table.Model
	quickAddInput textinput.Model
	habitInput    textinput.Model
	commandInput  textinput.Model
	notesArea     textarea.Model
	focusProgress progress.Model
	scanSpinner   spinner.Model
	helpModel     help.Model
	metaViewport  viewport.Model
	spinnerActive bool
	editingNotes  bool
}

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

type TasksReloadedMsg struct {
	Items []model.Task
}

type HabitsReloadedMsg struct {
	Items []model.Habit
}

type AlertFiredMsg struct {
	Event notify.Event
}

type AcknowledgeAlertMsg struct {
	TaskID string
}

type FocusTickMsg struct{}

type Runtime struct {
	Tasks             *tasks.Service
	Habits            *habits.Service
	Loop              *evaluator.Loop
	Eval              *evaluator.Evaluator
	Alerts            *notify.Channel
	Clock             evaluator.Clock
	FocusWorkMinutes  int
	FocusBreakMinutes int
}

func NewModel() Model {
	m := Model{
		CurrentView: ViewTasks,
		Agenda: AgendaState{
			Mode: AgendaModeWeek,
		},
		Focus: FocusState{
			WorkDurationSec:  25 * 60,
			BreakDurationSec: 5 * 60,
			RemainingSec:     25 * 60,
			Phase:            FocusPhaseWork,
		},
		AlertAck: make(map[string]bool),
		Keys: GlobalKeyMap{
			Tasks:  "1",
			Agenda: "2",
			Habits: "3",
			Focus:  "4",
			Help:   "?",
			Quit:   "q",
		},
		clock: evaluator.SystemClock(),
	}
	m.Agenda.FocusDate = m.clock.Now()
	m.initBubbleComponents()
	return m
}

func NewModelWithRuntime(rt Runtime) Model {
	m := NewModel()
	m.taskSvc = rt.Tasks
	m.habitSvc = rt.Habits
	m.loop = rt.Loop
	m.eval = rt.Eval
	m.alertCh = rt.Alerts
	if rt.Clock != nil {
		m.clock = rt.Clock
		m.Agenda.FocusDate = m.clock.Now()
	}
	if rt.FocusWorkMinutes > 0 {
		m.Focus.WorkDurationSec = rt.FocusWorkMinutes * 60
	}
	if rt.FocusBreakMinutes > 0 {
		m.Focus.BreakDurationSec = rt.FocusBreakMinutes * 60
	}
	m.Focus.RemainingSec = m.Focus.WorkDurationSec
	return m
}

func (m Model) pokeEvaluator() bool {
	if m.loop == nil {
		return false
	}
	m.loop.Poke()
	return true
}
