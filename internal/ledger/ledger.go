package ledger

import (
	"strconv"
	"strings"
)

type Key string

const keySeparator = "|"

func ReminderKey(taskID, due, clock string, remindMins int) Key {
	return Key(strings.Join([]string{"reminder", taskID, due, clock, strconv.Itoa(remindMins)}, keySeparator))
}

func EscalationKey(taskID, due, clock string) Key {
	return Key(strings.Join([]string{"escalation", taskID, due, clock}, keySeparator))
}

const OnboardingKey Key = "onboarding/notifications"

type Ledger interface {
	IsFired(key Key) (bool, error)
	MarkFired(key Key) error
}
