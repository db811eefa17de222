package model

import (
	"testing"
	"time"
)

func TestClock(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewClock(time.Minute)
	c.now = func() time.Time { return now }

	now = now.Add(time.Hour)
	if got := c.Remaining(); got != time.Minute {
		t.Errorf("stopped clock ran: %v", got)
	}

	c.Start()
	now = now.Add(20 * time.Second)
	if got := c.Remaining(); got != 40*time.Second {
		t.Errorf("Remaining = %v, want 40s", got)
	}

	c.Stop()
	now = now.Add(time.Hour)
	if got := c.tenths(); got != 400 {
		t.Errorf("tenths = %d, want 400", got)
	}

	c.Start()
	c.Start()
	now = now.Add(2 * time.Minute)
	if !c.Expired() || c.Remaining() != 0 {
		t.Errorf("overrun clock: expired %v remaining %v", c.Expired(), c.Remaining())
	}
}
