package main

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpinWindow(t *testing.T) {
	s := Spin{Start: 1000, Duration: 500, Direction: true}

	assert.Equal(t, float32(0), s.ClampedRotate(999))
	assert.Equal(t, float32(0), s.ClampedRotate(1000))
	assert.Equal(t, float32(0), s.ClampedRotate(1500))
	assert.Equal(t, float32(0), s.ClampedRotate(4000))
	assert.False(t, s.Active(1500))
	assert.True(t, s.Active(1000))
	assert.Equal(t, SongTime(1500), s.End())
}

func TestSpinFull(t *testing.T) {
	ccw := Spin{Start: 1000, Duration: 500, Direction: true}
	assert.InDelta(t, 1.5*math.Pi, ccw.ClampedRotate(1250), 1e-5)
	assert.InDelta(t, 2*math.Pi, ccw.ClampedRotate(1499), 0.01)

	cw := ccw
	cw.Direction = false
	assert.InDelta(t, -1.5*math.Pi, cw.ClampedRotate(1250), 1e-5)
}

func TestSpinSway(t *testing.T) {
	s := Spin{Start: 0, Duration: 1000, Direction: true, Type: SpinSway}
	assert.InDelta(t, math.Pi/12, s.ClampedRotate(500), 1e-5)
	assert.InDelta(t, 0, s.ClampedRotate(999), 0.001)
}

func TestSpinZeroDuration(t *testing.T) {
	s := Spin{Start: 10}
	assert.False(t, s.Active(10))
	assert.Equal(t, float32(0), s.ClampedRotate(10))
}

func TestParseSpinType(t *testing.T) {
	st, err := ParseSpinType("Sway")
	assert.NoError(t, err)
	assert.Equal(t, SpinSway, st)
	st, err = ParseSpinType("")
	assert.NoError(t, err)
	assert.Equal(t, SpinFull, st)
	_, err = ParseSpinType("flip")
	assert.Error(t, err)
}
