package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeClock is a wall clock that only moves when told to.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func TestSongTimeConversions(t *testing.T) {
	st := SongTimeOf(1500 * time.Millisecond)
	assert.Equal(t, SongTime(1500), st)
	assert.Equal(t, 1500*time.Millisecond, st.Duration())
	assert.Equal(t, 1.5, st.Seconds())
	assert.Equal(t, "1500ms", st.String())
	assert.True(t, st.Before(st.Add(1)))
	assert.True(t, st.After(st.Sub(1)))
}

func TestSongClock(t *testing.T) {
	fc := newFakeClock()
	c := NewSongClock(fc.Now)
	assert.False(t, c.Started())
	assert.Equal(t, SongTime(0), c.Now())

	c.Start(250)
	assert.Equal(t, SongTime(250), c.Now())
	fc.Advance(2 * time.Second)
	assert.Equal(t, SongTime(2250), c.Now())
	assert.Equal(t, fc.Now(), c.Wall())

	c.Start(0)
	assert.Equal(t, SongTime(0), c.Now())
}
