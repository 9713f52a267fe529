package pipeline

import "time"

// Clock abstracts wall-clock reads so tests can drive elapsed time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// timer accumulates recording time. Only running stretches count; paused
// time is excluded.
type timer struct {
	clock     Clock
	accrued   time.Duration
	startedAt time.Time
	running   bool
}

func (t *timer) start() {
	if t.running {
		return
	}
	t.startedAt = t.clock.Now()
	t.running = true
}

func (t *timer) pause() {
	if !t.running {
		return
	}
	t.accrued += t.clock.Now().Sub(t.startedAt)
	t.running = false
}

func (t *timer) reset() {
	t.accrued = 0
	t.running = false
}

func (t *timer) elapsed() time.Duration {
	if t.running {
		return t.accrued + t.clock.Now().Sub(t.startedAt)
	}
	return t.accrued
}
