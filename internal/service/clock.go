package service

import "time"

// Clock is injected wherever date-based decisions are made so the reminder
// scheduler's skip logic can be tested.
type Clock interface {
	Today() time.Time
}

type systemClock struct{}

func (systemClock) Today() time.Time {
	return time.Now()
}

func SystemClock() Clock {
	return systemClock{}
}
