package model

import (
	"sync"
	"time"
)

// Clock is one side's countdown. It only runs between Start and Stop.
type Clock struct {
	mu          sync.Mutex
	timeLeft    time.Duration
	lastStarted time.Time
	isRunning   bool
	now         func() time.Time
}

func NewClock(initialTime time.Duration) *Clock {
	return &Clock{
		timeLeft: initialTime,
		now:      time.Now,
	}
}

func (c *Clock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isRunning {
		c.lastStarted = c.now()
		c.isRunning = true
	}
}

func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isRunning {
		c.timeLeft -= c.now().Sub(c.lastStarted)
		c.isRunning = false
	}
}

func (c *Clock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isRunning
}

// Remaining never goes below zero.
func (c *Clock) Remaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	left := c.timeLeft
	if c.isRunning {
		left -= c.now().Sub(c.lastStarted)
	}
	if left < 0 {
		return 0
	}
	return left
}

func (c *Clock) Expired() bool {
	return c.Remaining() == 0
}

// tenths is the remaining time in the unit clients display.
func (c *Clock) tenths() int {
	return int(c.Remaining().Milliseconds() / 100)
}
