package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

func levelFromError(isErr bool) string {
	if isErr {
		return "error"
	}
	return "info"
}

func formatDuration(totalSec int) string {
	if totalSec < 0 {
		totalSec = 0
	}
	min := totalSec / 60
	sec := totalSec % 60
	return fmt.Sprintf("%02d:%02d", min, sec)
}

func (m Model) failStatus(op string, err error) (tea.Model, tea.Cmd) {
	m.LastError = err
	m.Status = StatusBar{Text: fmt.Sprintf("%s: %v", op, err), IsError: true}
	m.notify("Error", m.Status.Text, "error")
	return m, nil
}
