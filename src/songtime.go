package main

import (
	"fmt"
	"time"
)

// SongTime is a millisecond tick count on the current song's clock.
// Values taken from different songs must not be compared.
type SongTime int64

func SongTimeOf(d time.Duration) SongTime {
	return SongTime(d / time.Millisecond)
}

func (t SongTime) Add(o SongTime) SongTime { return t + o }
func (t SongTime) Sub(o SongTime) SongTime { return t - o }

func (t SongTime) Before(o SongTime) bool { return t < o }
func (t SongTime) After(o SongTime) bool  { return t > o }

func (t SongTime) Duration() time.Duration {
	return time.Duration(t) * time.Millisecond
}

func (t SongTime) Seconds() float64 {
	return float64(t) / 1000
}

func (t SongTime) String() string {
	return fmt.Sprintf("%dms", int64(t))
}

// SongClock turns wall time into SongTime. A zero SongClock has not started
// and reports zero.
type SongClock struct {
	start  time.Time
	offset SongTime
	now    func() time.Time
}

func NewSongClock(now func() time.Time) *SongClock {
	if now == nil {
		now = time.Now
	}
	return &SongClock{now: now}
}

// Start (re)starts the clock so that Now returns at.
func (c *SongClock) Start(at SongTime) {
	c.start = c.now()
	c.offset = at
}

func (c *SongClock) Started() bool {
	return !c.start.IsZero()
}

func (c *SongClock) Now() SongTime {
	if !c.Started() {
		return 0
	}
	return c.offset + SongTimeOf(c.now().Sub(c.start))
}

// Wall returns the wall clock reading used for press timestamps.
func (c *SongClock) Wall() time.Time {
	return c.now()
}
