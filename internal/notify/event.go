package notify

import "time"

type Kind string

const (
	KindReminder   Kind = "reminder"
	KindEscalation Kind = "escalation"
	KindOnboarding Kind = "onboarding"
)

func (k Kind) IsValid() bool {
	switch k {
	case KindReminder, KindEscalation, KindOnboarding:
		return true
	default:
		return false
	}
}

type Event struct {
	Kind       Kind
	TaskID     string
	Title      string
	Due        string
	Time       string
	RemindMins int
	At         time.Time
}

type Notifier interface {
	DeliverReminder(ev Event)
	DeliverEscalationNotice(ev Event)
	DeliverOnboardingWarning()
	Available() bool
}

type Noop struct{}

func (Noop) DeliverReminder(Event)         {}
func (Noop) DeliverEscalationNotice(Event) {}
func (Noop) DeliverOnboardingWarning()     {}
func (Noop) Available() bool               { return true }

type Multi struct {
	children []Notifier
}

func NewMulti(children ...Notifier) *Multi {
	return &Multi{children: children}
}

func (m *Multi) DeliverReminder(ev Event) {
	for _, child := range m.children {
		child.DeliverReminder(ev)
	}
}

func (m *Multi) DeliverEscalationNotice(ev Event) {
	for _, child := range m.children {
		child.DeliverEscalationNotice(ev)
	}
}

func (m *Multi) DeliverOnboardingWarning() {
	for _, child := range m.children {
		child.DeliverOnboardingWarning()
	}
}

func (m *Multi) Available() bool {
	for _, child := range m.children {
		if !child.Available() {
			return false
		}
	}
	return true
}
