package update

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"duewatch/internal/views"
)

func (m *Model) initBubbleComponents() {
	m.taskList = list.New([]list.Item{}, list.NewDefaultDelegate(), 56, 12)
	m.taskList.Title = "Tasks"
	m.taskList.SetShowHelp(false)
	m.taskList.SetFilteringEnabled(false)

	cols := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Time", Width: 7},
		{Title: "State", Width: 10},
		{Title: "Title", Width: 22},
	}
	m.agendaTable = table.New(table.WithColumns(cols), table.WithRows([]table.Row{}), table.WithFocused(true), table.WithHeight(10))

	m.quickAddInput = textinput.New()
	m.quickAddInput.Prompt = "add> "
	m.quickAddInput.CharLimit = 256
	m.quickAddInput.Width = 46

	m.habitInput = textinput.New()
	m.habitInput.Prompt = "habit> "
	m.habitInput.CharLimit = 128
	m.habitInput.Width = 40

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.notesArea = textarea.New()
	m.notesArea.SetWidth(54)
	m.notesArea.SetHeight(8)
	m.notesArea.ShowLineNumbers = false
	m.notesArea.Placeholder = "Task notes (markdown)"

	m.focusProgress = progress.New(progress.WithDefaultGradient())

	m.scanSpinner = spinner.New()
	m.scanSpinner.Spinner = spinner.Dot

	m.helpModel = help.New()
	m.metaViewport = viewport.New(54, 12)
}

func (m *Model) syncBubbleData() {
	items := m.visibleTasks()
	rows := make([]list.Item, 0, len(items))
	for _, t := range items {
		desc := m.taskBucket(t) + " | " + string(t.Priority)
		rows = append(rows, listItem{title: t.Title, description: desc})
	}
	m.taskList.SetItems(rows)
	if len(rows) > 0 && m.Tasks.Cursor < len(rows) {
		m.taskList.Select(m.Tasks.Cursor)
	}

	agenda := m.agendaItems()
	tableRows := make([]table.Row, 0, len(agenda))
	for _, t := range agenda {
		slot := t.Time
		if slot == "" {
			slot = "--:--"
		}
		tableRows = append(tableRows, table.Row{t.Due, slot, strings.ToLower(m.taskBucket(t)), t.Title})
	}
	m.agendaTable.SetRows(tableRows)
	if len(tableRows) > 0 && m.Agenda.Cursor < len(tableRows) {
		m.agendaTable.SetCursor(m.Agenda.Cursor)
	}

	if m.Tasks.CaptureMode {
		m.quickAddInput.Focus()
	}
	if m.Habits.CaptureMode {
		m.habitInput.Focus()
	}
	if m.Palette.Active {
		m.commandInput.Focus()
	}

	if sel, ok := m.selectedTask(); ok {
		md := sel.Notes
		if strings.TrimSpace(md) == "" {
			md = "_No notes_"
		}
		if !m.editingNotes {
			m.notesArea.SetValue(md)
		}
		m.metaViewport.SetContent(views.RenderMarkdown(md))
	}

	total := m.currentFocusTotal()
	pct := 0.0
	if total > 0 {
		pct = float64(total-m.Focus.RemainingSec) / float64(total)
	}
	if pct < 0 {
		pct = 0
	}
	if pct > 1 {
		pct = 1
	}
	_ = m.focusProgress.SetPercent(pct)
}
