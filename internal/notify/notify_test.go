package notify

import (
	"errors"
	"strings"
	"testing"
	"time"
)

type recorder struct {
	reminders   []Event
	escalations []Event
	onboardings int
	available   bool
}

func (r *recorder) DeliverReminder(ev Event)         { r.reminders = append(r.reminders, ev) }
func (r *recorder) DeliverEscalationNotice(ev Event) { r.escalations = append(r.escalations, ev) }
func (r *recorder) DeliverOnboardingWarning()        { r.onboardings++ }
func (r *recorder) Available() bool                  { return r.available }

func sampleEvent() Event {
	return Event{
		TaskID:     "task-1",
		Title:      "Submit filing",
		Due:        "2024-01-01",
		Time:       "10:00",
		RemindMins: 15,
		At:         time.Date(2024, 1, 1, 9, 45, 0, 0, time.UTC),
	}
}

func TestChannelDeliversWithKind(t *testing.T) {
	ch := NewChannel(4)
	ch.DeliverReminder(sampleEvent())
	ch.DeliverEscalationNotice(sampleEvent())
	ch.DeliverOnboardingWarning()

	got := []Kind{}
	for i := 0; i < 3; i++ {
		select {
		case ev := <-ch.C():
			got = append(got, ev.Kind)
		default:
			t.Fatalf("expected 3 buffered events, got %d", i)
		}
	}
	want := []Kind{KindReminder, KindEscalation, KindOnboarding}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d: expected kind %q, got %q", i, want[i], got[i])
		}
	}
}

func TestChannelDropsInsteadOfBlocking(t *testing.T) {
	ch := NewChannel(1)
	for i := 0; i < 3; i++ {
		ch.DeliverReminder(sampleEvent())
	}
	if ch.Dropped() != 2 {
		t.Fatalf("expected 2 dropped events, got %d", ch.Dropped())
	}
	select {
	case ev := <-ch.C():
		if ev.Kind != KindReminder {
			t.Fatalf("expected buffered reminder, got %q", ev.Kind)
		}
	default:
		t.Fatal("expected one buffered event")
	}
}

func TestDesktopLinuxCommand(t *testing.T) {
	var gotName string
	var gotArgs []string
	d := &Desktop{
		goos: "linux",
		run: func(name string, args ...string) error {
			gotName = name
			gotArgs = args
			return nil
		},
		lookPath: func(string) (string, error) { return "/usr/bin/notify-send", nil },
	}

	d.DeliverReminder(sampleEvent())
	if gotName != "notify-send" {
		t.Fatalf("expected notify-send, got %q", gotName)
	}
	if len(gotArgs) != 2 || !strings.Contains(gotArgs[0], "Submit filing") {
		t.Fatalf("unexpected args: %#v", gotArgs)
	}
	if !strings.Contains(gotArgs[1], "2024-01-01") || !strings.Contains(gotArgs[1], "10:00") {
		t.Fatalf("expected due schedule in body, got %q", gotArgs[1])
	}
}

func TestDesktopDarwinEscapesQuotes(t *testing.T) {
	var gotArgs []string
	d := &Desktop{
		goos: "darwin",
		run: func(name string, args ...string) error {
			gotArgs = args
			return nil
		},
		lookPath: func(string) (string, error) { return "/usr/bin/osascript", nil },
	}

	ev := sampleEvent()
	ev.Title = `Ship "v2"`
	d.DeliverReminder(ev)
	if len(gotArgs) != 2 || gotArgs[0] != "-e" {
		t.Fatalf("unexpected osascript args: %#v", gotArgs)
	}
	if !strings.Contains(gotArgs[1], `\"v2\"`) {
		t.Fatalf("expected escaped quotes in script, got %q", gotArgs[1])
	}
}

func TestDesktopSwallowsRunErrors(t *testing.T) {
	d := &Desktop{
		goos:     "linux",
		run:      func(string, ...string) error { return errors.New("display gone") },
		lookPath: func(string) (string, error) { return "", nil },
	}
	// Must not panic or surface anything.
	d.DeliverReminder(sampleEvent())
	d.DeliverEscalationNotice(sampleEvent())
	d.DeliverOnboardingWarning()
}

func TestDesktopAvailability(t *testing.T) {
	d := &Desktop{
		goos:     "linux",
		lookPath: func(string) (string, error) { return "", errors.New("not found") },
	}
	if d.Available() {
		t.Fatal("expected unavailable when binary is missing")
	}

	d.lookPath = func(string) (string, error) { return "/usr/bin/notify-send", nil }
	if !d.Available() {
		t.Fatal("expected available when binary resolves")
	}

	d.goos = "plan9"
	if d.Available() {
		t.Fatal("expected unavailable on unsupported platform")
	}
}

func TestMultiFansOut(t *testing.T) {
	a := &recorder{available: true}
	b := &recorder{available: true}
	m := NewMulti(a, b)

	m.DeliverReminder(sampleEvent())
	m.DeliverEscalationNotice(sampleEvent())
	m.DeliverOnboardingWarning()

	for i, r := range []*recorder{a, b} {
		if len(r.reminders) != 1 || len(r.escalations) != 1 || r.onboardings != 1 {
			t.Fatalf("child %d: expected full fan-out, got %+v", i, r)
		}
	}
}

func TestMultiAvailableRequiresAllChildren(t *testing.T) {
	ok := &recorder{available: true}
	broken := &recorder{available: false}

	if !NewMulti(ok).Available() {
		t.Fatal("expected available with healthy child")
	}
	if NewMulti(ok, broken).Available() {
		t.Fatal("expected unavailable with one broken child")
	}
	if !NewMulti().Available() {
		t.Fatal("expected empty multi to be available")
	}
}

func TestKindIsValid(t *testing.T) {
	valid := []Kind{KindReminder, KindEscalation, KindOnboarding}
	for _, item := range valid {
		if !item.IsValid() {
			t.Fatalf("expected valid kind: %q", item)
		}
	}
	if Kind("toast").IsValid() {
		t.Fatal("expected invalid kind")
	}
}
