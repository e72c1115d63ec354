// Package clock is the single time source for the simulation core. Every
// deadline (merge rest, combo window, danger suppression, drop rate window) is
// evaluated against a Clock so tests can advance virtual time instead of sleeping.
package clock

import (
	"sync"
	"time"
)

// Clock provides monotonic time readings
type Clock interface {
	Now() time.Time
}

// System reads the real monotonic clock
type System struct{}

// NewSystem creates a real-time clock
func NewSystem() System {
	return System{}
}

// Now returns the current time with monotonic clock reading
func (System) Now() time.Time {
	return time.Now()
}

// Manual is a controllable clock for tests and deterministic replays
type Manual struct {
	mu  sync.RWMutex
	now time.Time
}

// NewManual creates a manual clock starting at start
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the current virtual time
func (m *Manual) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.now
}

// Set moves the clock to t
func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
}

// Advance moves the clock forward by d
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}
