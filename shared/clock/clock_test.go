package clock

import (
	"testing"
	"time"
)

func TestManualClock(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewManual(start)

	if !c.Now().Equal(start) {
		t.Fatalf("Expected initial time %v, got %v", start, c.Now())
	}

	c.Advance(80 * time.Millisecond)
	c.Advance(20 * time.Millisecond)
	if got := c.Now().Sub(start); got != 100*time.Millisecond {
		t.Errorf("Expected 100ms elapsed, got %v", got)
	}

	later := start.Add(time.Hour)
	c.Set(later)
	if !c.Now().Equal(later) {
		t.Errorf("Expected %v after Set, got %v", later, c.Now())
	}
}

func TestSystemClockMonotonic(t *testing.T) {
	c := NewSystem()
	t1 := c.Now()
	t2 := c.Now()
	if t2.Before(t1) {
		t.Errorf("Expected non-decreasing readings, got %v then %v", t1, t2)
	}
}
