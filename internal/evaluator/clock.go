package evaluator

import "time"

type Clock interface {
	Now() time.Time
}

func SystemClock() Clock { return systemClock{} }

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
