package notify

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

type Desktop struct {
	goos     string
	run      func(name string, args ...string) error
	lookPath func(name string) (string, error)
}

func NewDesktop() *Desktop {
	return &Desktop{
		goos: runtime.GOOS,
		run: func(name string, args ...string) error {
			return exec.Command(name, args...).Run()
		},
		lookPath: exec.LookPath,
	}
}

func (d *Desktop) DeliverReminder(ev Event) {
	body := fmt.Sprintf("due %s %s", ev.Due, ev.Time)
	if ev.Time == "" {
		body = fmt.Sprintf("due %s", ev.Due)
	}
	d.send("Reminder: "+ev.Title, body)
}

func (d *Desktop) DeliverEscalationNotice(ev Event) {
	d.send("Deadline missed", fmt.Sprintf("%s was raised to high priority", ev.Title))
}

func (d *Desktop) DeliverOnboardingWarning() {
	d.send("duewatch", "Desktop notifications are unavailable; install a notification agent to get reminders outside the terminal.")
}

func (d *Desktop) Available() bool {
	bin := d.binary()
	if bin == "" {
		return false
	}
	_, err := d.lookPath(bin)
	return err == nil
}

func (d *Desktop) send(title, body string) {
	switch d.goos {
	case "linux":
		_ = d.run("notify-send", title, body)
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(body), escapeAppleScript(title))
		_ = d.run("osascript", "-e", script)
	}
}

func (d *Desktop) binary() string {
	switch d.goos {
	case "linux":
		return "notify-send"
	case "darwin":
		return "osascript"
	default:
		return ""
	}
}

func escapeAppleScript(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}
