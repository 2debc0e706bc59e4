package engine

import (
	"sync"
	"time"
)

// Clock supplies wall-clock time to the search deadline check.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the process clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// ClockFunc adapts a plain function to the Clock interface.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// StepClock is a deterministic clock that advances by Step on every read.
// The first read returns Start.
type StepClock struct {
	Start time.Time
	Step  time.Duration

	mu    sync.Mutex
	reads int64
}

func NewStepClock(step time.Duration) *StepClock {
	return &StepClock{Start: time.Unix(0, 0), Step: step}
}

func (c *StepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.Start.Add(time.Duration(c.reads) * c.Step)
	c.reads++
	return t
}

// Reads returns how many times Now has been called.
func (c *StepClock) Reads() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reads
}

func elapsedMs(clock Clock, start time.Time) float64 {
	return float64(clock.Now().Sub(start)) / float64(time.Millisecond)
}
