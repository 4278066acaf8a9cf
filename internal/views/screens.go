package views

import (
	"fmt"
	"sort"
	"strings"
)

const (
	BucketMissed   = "Missed"
	BucketOverdue  = "Overdue"
	BucketToday    = "Today"
	BucketUpcoming = "Upcoming"
	BucketSomeday  = "Someday"
	BucketDone     = "Done"
)

type TaskRowData struct {
	ID         string
	Title      string
	Bucket     string
	Due        string
	Time       string
	RemindMins int
	Priority   string
	Started    bool
	Tags       []string
}

type TasksPanelData struct {
	QuickAddView string
	Capturing    bool
	ListView     string
	Items        []TaskRowData
	SelectedID   string
	ShowDone     bool
	TagFilter    string
}

func RenderTasksPanel(data TasksPanelData) string {
	var b strings.Builder
	b.WriteString("tasks:\n")
	if data.Capturing {
		b.WriteString(data.QuickAddView + "\n")
	}
	b.WriteString("actions: [a]dd [enter]done [s]tart [e]notes [D]elete [.]done-list\n")
	if data.TagFilter != "" {
		b.WriteString(fmt.Sprintf("filter: #%s\n", data.TagFilter))
	}
	b.WriteString(data.ListView + "\n")

	grouped := make(map[string][]TaskRowData)
	for _, item := range data.Items {
		grouped[item.Bucket] = append(grouped[item.Bucket], item)
	}
	order := []string{BucketMissed, BucketOverdue, BucketToday, BucketUpcoming, BucketSomeday}
	if data.ShowDone {
		order = append(order, BucketDone)
	}
	for _, bucket := range order {
		renderTaskSection(&b, bucket, grouped[bucket], data.SelectedID)
	}
	return strings.TrimSpace(b.String())
}

func renderTaskSection(b *strings.Builder, title string, items []TaskRowData, selectedID string) {
	b.WriteString(fmt.Sprintf("\n%s:\n", title))
	if len(items) == 0 {
		b.WriteString("  (none)\n")
		return
	}
	for _, item := range items {
		cursor := " "
		if selectedID == item.ID {
			cursor = ">"
		}
		b.WriteString(fmt.Sprintf("%s %s %s", cursor, deadlineBadge(item), item.Title))
		if item.Due != "" {
			b.WriteString(" due:" + item.Due)
			if item.Time != "" {
				b.WriteString(" " + item.Time)
			}
		}
		if item.RemindMins > 0 {
			b.WriteString(fmt.Sprintf(" remind:%dm", item.RemindMins))
		}
		if item.Started {
			b.WriteString(" (started)")
		}
		if len(item.Tags) > 0 {
			b.WriteString(" #" + strings.Join(item.Tags, " #"))
		}
		b.WriteString("\n")
	}
}

func deadlineBadge(item TaskRowData) string {
	switch item.Bucket {
	case BucketMissed, BucketOverdue:
		return "[RED]"
	case BucketDone:
		return "[DONE]"
	}
	if item.Bucket == BucketToday || item.Priority == "High" {
		return "[YELLOW]"
	}
	return "[GREEN]"
}

type AgendaRowData struct {
	ID     string
	Title  string
	Date   string
	Time   string
	Bucket string
}

type AgendaPanelData struct {
	Mode      string
	FocusDate string
	Period    string
	TableView string
	Items     []AgendaRowData
	Selected  *AgendaRowData
}

func RenderAgendaPanel(data AgendaPanelData) string {
	var b strings.Builder
	b.WriteString("agenda:\n")
	b.WriteString(fmt.Sprintf("mode: %s | focus: %s | period: %s\n", data.Mode, data.FocusDate, data.Period))
	b.WriteString("actions: [d]ay [w]eek [m]onth [h/l]shift [t]oday [j/k]move\n")
	b.WriteString(data.TableView + "\n")

	grouped := make(map[string][]AgendaRowData)
	days := make([]string, 0)
	for _, item := range data.Items {
		if _, ok := grouped[item.Date]; !ok {
			days = append(days, item.Date)
		}
		grouped[item.Date] = append(grouped[item.Date], item)
	}
	sort.Strings(days)
	if len(days) == 0 {
		b.WriteString("(nothing scheduled)")
		return b.String()
	}

	for _, day := range days {
		b.WriteString(fmt.Sprintf("\n%s:\n", day))
		items := grouped[day]
		sort.SliceStable(items, func(i, j int) bool { return items[i].Time < items[j].Time })
		for _, item := range items {
			cursor := " "
			if data.Selected != nil && data.Selected.ID == item.ID {
				cursor = ">"
			}
			slot := item.Time
			if slot == "" {
				slot = "--:--"
			}
			b.WriteString(fmt.Sprintf("%s %s %s [%s]\n", cursor, slot, item.Title, strings.ToLower(item.Bucket)))
		}
	}

	if data.Selected != nil {
		b.WriteString("\nagenda-detail:\n")
		b.WriteString(fmt.Sprintf("id: %s\n", data.Selected.ID))
		b.WriteString(fmt.Sprintf("when: %s %s\n", data.Selected.Date, data.Selected.Time))
		b.WriteString(fmt.Sprintf("state: %s\n", strings.ToLower(data.Selected.Bucket)))
	}
	return strings.TrimSpace(b.String())
}

type HabitRowData struct {
	ID          string
	Name        string
	Cadence     string
	Streak      int
	BestStreak  int
	LastCheckIn string
	Pending     bool
}

type HabitsPanelData struct {
	CaptureView string
	Capturing   bool
	Items       []HabitRowData
	SelectedID  string
}

func RenderHabitsPanel(data HabitsPanelData) string {
	var b strings.Builder
	b.WriteString("habits:\n")
	if data.Capturing {
		b.WriteString(data.CaptureView + "\n")
	}
	b.WriteString("actions: [j/k]move [enter]check-in [n]ew [D]elete\n")
	if len(data.Items) == 0 {
		b.WriteString("(no habits yet)")
		return strings.TrimSpace(b.String())
	}
	for _, h := range data.Items {
		cursor := " "
		if data.SelectedID == h.ID {
			cursor = ">"
		}
		mark := "ok"
		if h.Pending {
			mark = "due"
		}
		b.WriteString(fmt.Sprintf("%s [%s] %s (%s) streak:%d best:%d", cursor, mark, h.Name, h.Cadence, h.Streak, h.BestStreak))
		if h.LastCheckIn != "" {
			b.WriteString(" last:" + h.LastCheckIn)
		}
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}

type FocusPanelData struct {
	TaskTitle          string
	Phase              string
	Timer              string
	ProgressView       string
	ProgressPct        int
	CompletedPomodoros int
	ShowEndPrompt      bool
}

func RenderFocusPanel(data FocusPanelData) string {
	var b strings.Builder
	b.WriteString("focus:\n")
	if data.TaskTitle != "" {
		b.WriteString(fmt.Sprintf("task: %s\n", data.TaskTitle))
	} else {
		b.WriteString("task: (none selected)\n")
	}
	b.WriteString(fmt.Sprintf("phase: %s\n", strings.ToUpper(data.Phase)))
	b.WriteString(fmt.Sprintf("timer: %s\n", data.Timer))
	b.WriteString(fmt.Sprintf("progress: %s %d%%\n", data.ProgressView, data.ProgressPct))
	b.WriteString(fmt.Sprintf("blocks completed: %d\n", data.CompletedPomodoros))
	b.WriteString("actions: [space]start/pause [r]eset [n]ext-phase\n")
	if data.ShowEndPrompt {
		b.WriteString("prompt: session ended, press [n] to continue")
	}
	return strings.TrimSpace(b.String())
}

type StatsPanelData struct {
	Scans         int64
	Evaluated     int64
	Reminders     int64
	Escalations   int64
	Faults        int64
	DroppedAlerts uint64
	Open          int
	DueToday      int
	Overdue       int
	Missed        int
	PressureScore int
	PressureLabel string
}

func RenderStatsPanel(data StatsPanelData) string {
	var b strings.Builder
	b.WriteString("\nschedule:\n")
	b.WriteString(fmt.Sprintf("pressure: %d (%s)\n", data.PressureScore, data.PressureLabel))
	b.WriteString(fmt.Sprintf("open:%d today:%d overdue:%d missed:%d\n", data.Open, data.DueToday, data.Overdue, data.Missed))
	b.WriteString(fmt.Sprintf("scans:%d reminders:%d escalations:%d faults:%d", data.Scans, data.Reminders, data.Escalations, data.Faults))
	if data.DroppedAlerts > 0 {
		b.WriteString(fmt.Sprintf(" dropped-alerts:%d", data.DroppedAlerts))
	}
	return b.String()
}

type TaskMetadataData struct {
	SelectedID      string
	Priority        string
	Due             string
	Time            string
	RemindMins      int
	StartedAt       string
	Tags            []string
	NotesEditorView string
	MarkdownView    string
}

func RenderTaskMetadataPane(data TaskMetadataData) string {
	if strings.TrimSpace(data.SelectedID) == "" {
		return "metadata:\n(no selection)"
	}
	schedule := "(unscheduled)"
	if data.Due != "" {
		schedule = data.Due
		if data.Time != "" {
			schedule += " " + data.Time
		}
		if data.RemindMins > 0 {
			schedule += fmt.Sprintf(" | remind %dm before", data.RemindMins)
		}
	}
	started := data.StartedAt
	if started == "" {
		started = "(not started)"
	}
	return fmt.Sprintf("metadata:\nid: %s\npriority: %s\nschedule: %s\nstarted: %s\ntags: %s\n\nnotes-editor:\n%s\n\nmarkdown-preview:\n%s",
		data.SelectedID,
		data.Priority,
		schedule,
		started,
		strings.Join(data.Tags, ","),
		data.NotesEditorView,
		data.MarkdownView,
	)
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\nglobal:\n%s view:\n%s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: /%s", input)
}

func RenderNotification(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("\nnotification: [%s] %s", strings.ToUpper(level), body)
}
