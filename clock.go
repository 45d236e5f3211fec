package main

import (
	"time"
)

/// Clock paces a periodic event against wall time. Each tick moves
/// the clock forward by exactly one period, so a late caller catches
/// up instead of drifting.
///
type Clock struct {
	period time.Duration

	// time of the last tick
	offset time.Time
}

// NewClock returns a clock ticking hz times a second, starting at now.
func NewClock(hz int, now time.Time) *Clock {
	c := &Clock{offset: now}
	c.SetRate(hz)

	return c
}

/// SetRate changes the frequency of the clock. Rates below 1 Hz are
/// raised to 1 Hz.
///
func (c *Clock) SetRate(hz int) {
	if hz < 1 {
		hz = 1
	}

	c.period = time.Second / time.Duration(hz)
}

// Rate returns the frequency of the clock in Hz.
func (c *Clock) Rate() int {
	return int(time.Second / c.period)
}

/// Tick returns true and advances the clock by one period if a full
/// period has elapsed since the last tick.
///
func (c *Clock) Tick(now time.Time) bool {
	if now.Sub(c.offset) < c.period {
		return false
	}

	c.offset = c.offset.Add(c.period)

	return true
}

/// Due consumes and returns the number of ticks elapsed by now, up to
/// max. When more than max are owed the clock skips ahead to now so
/// a stall (a dialog, a breakpoint) doesn't cause a burst afterwards.
///
func (c *Clock) Due(now time.Time, max int) int {
	n := 0

	for n < max && c.Tick(now) {
		n++
	}

	if n == max && now.Sub(c.offset) >= c.period {
		c.offset = now
	}

	return n
}

// Reset restarts the clock at now.
func (c *Clock) Reset(now time.Time) {
	c.offset = now
}
