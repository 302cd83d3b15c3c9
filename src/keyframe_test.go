package main

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kf(t SongTime, v float32) Keyframe {
	return Keyframe{Time: t, Value: v}
}

func TestTrackEmpty(t *testing.T) {
	var tr Track
	_, ok := tr.At(0)
	assert.False(t, ok)
	assert.Equal(t, float32(7), tr.AtOr(100, 7))
}

func TestTrackClampsOutsideRange(t *testing.T) {
	tr := NewTrack(kf(1000, 10), kf(0, 2))

	v, ok := tr.At(-500)
	require.True(t, ok)
	assert.Equal(t, float32(2), v)

	v, _ = tr.At(5000)
	assert.Equal(t, float32(10), v)
}

func TestTrackExactMatch(t *testing.T) {
	tr := NewTrack(kf(0, 0), kf(400, 3), kf(1000, 10))
	v, _ := tr.At(400)
	assert.Equal(t, float32(3), v)
}

func TestTrackLinearMidpoint(t *testing.T) {
	tr := NewTrack(kf(0, 0), kf(1000, 10))
	v, _ := tr.At(500)
	assert.InDelta(t, 5, v, 1e-5)
	v, _ = tr.At(250)
	assert.InDelta(t, 2.5, v, 1e-5)
}

func TestTrackInsertKeepsOrder(t *testing.T) {
	tr := NewTrack(kf(500, 1), kf(0, 0), kf(500, 2), kf(200, 5))
	var times []SongTime
	var values []float32
	for _, k := range tr {
		times = append(times, k.Time)
		values = append(values, k.Value)
	}
	assert.Equal(t, []SongTime{0, 200, 500, 500}, times)
	assert.Equal(t, []float32{0, 5, 1, 2}, values)
}

func TestTrackUsesEarlierKeyframeCurve(t *testing.T) {
	tr := NewTrack(
		Keyframe{Time: 0, Value: 0, Curve: CurveStair, Tension: 2},
		Keyframe{Time: 1000, Value: 10, Curve: CurveLinear},
	)
	v, _ := tr.At(400)
	assert.Equal(t, float32(0), v)
	v, _ = tr.At(600)
	assert.Equal(t, float32(5), v)
}

func TestCurveEndpoints(t *testing.T) {
	k0, k1 := kf(100, -3), kf(900, 12)
	for _, c := range []Curve{CurveLinear, CurveHalfSigmoid, CurveSigmoid, CurveStair} {
		for _, tension := range []float32{-6, -1, 0, 0.5, 4} {
			assert.InDelta(t, -3, c.Interpolate(100, k0, k1, tension), 1e-4, "%s tension %v at start", c, tension)
			assert.InDelta(t, 12, c.Interpolate(900, k0, k1, tension), 1e-4, "%s tension %v at end", c, tension)
		}
	}
}

func TestCurveZeroTensionIsLinear(t *testing.T) {
	k0, k1 := kf(0, 0), kf(1000, 10)
	for _, c := range []Curve{CurveHalfSigmoid, CurveSigmoid, CurveStair} {
		assert.InDelta(t, 3, c.Interpolate(300, k0, k1, 0), 1e-5, c.String())
	}
}

func TestCurveTinyTensionIsLinear(t *testing.T) {
	k0, k1 := kf(0, 0), kf(100, 1)
	for _, c := range []Curve{CurveHalfSigmoid, CurveSigmoid} {
		for _, tension := range []float32{1e-20, -1e-20, 1e-9, -1e-9, 1e-6, -1e-6} {
			v := c.Interpolate(50, k0, k1, tension)
			assert.False(t, math.IsNaN(float64(v)), "%s tension %v", c, tension)
			assert.InDelta(t, 0.5, v, 1e-3, "%s tension %v", c, tension)
		}
	}

	tr := NewTrack(
		Keyframe{Time: 0, Value: 0, Curve: CurveHalfSigmoid, Tension: 1e-20},
		Keyframe{Time: 100, Value: 1},
	)
	v, ok := tr.At(50)
	require.True(t, ok)
	assert.InDelta(t, 0.5, v, 1e-6)
}

func TestCurveShapes(t *testing.T) {
	k0, k1 := kf(0, 0), kf(1000, 10)

	// Positive half sigmoid leads, negative lags.
	assert.Greater(t, CurveHalfSigmoid.Interpolate(500, k0, k1, 5), float32(5))
	assert.Less(t, CurveHalfSigmoid.Interpolate(500, k0, k1, -5), float32(5))

	// Sigmoid is symmetric around the midpoint.
	assert.InDelta(t, 5, CurveSigmoid.Interpolate(500, k0, k1, 8), 1e-4)
	assert.Less(t, CurveSigmoid.Interpolate(200, k0, k1, 8), float32(2))
	assert.Greater(t, CurveSigmoid.Interpolate(800, k0, k1, 8), float32(8))
}

func TestCurveStairSteps(t *testing.T) {
	k0, k1 := kf(0, 0), kf(1000, 8)
	for _, tc := range []struct {
		t    SongTime
		want float32
	}{
		{100, 0},
		{249, 0},
		{250, 2},
		{300, 2},
		{740, 4},
		{999, 6},
		{1000, 8},
	} {
		assert.InDelta(t, tc.want, CurveStair.Interpolate(tc.t, k0, k1, 4), 1e-5, "t=%v", tc.t)
	}
	// Fractional tensions round down, with at least one step.
	assert.Equal(t, float32(0), CurveStair.Interpolate(900, k0, k1, 0.3))
}

func TestCurveCoincidentKeyframes(t *testing.T) {
	assert.Equal(t, float32(4), CurveSigmoid.Interpolate(10, kf(10, 1), kf(10, 4), 3))
}

func TestParseCurve(t *testing.T) {
	for s, want := range map[string]Curve{
		"":            CurveLinear,
		"linear":      CurveLinear,
		"HalfSigmoid": CurveHalfSigmoid,
		" sigmoid ":   CurveSigmoid,
		"STAIR":       CurveStair,
	} {
		c, err := ParseCurve(s)
		require.NoError(t, err, s)
		assert.Equal(t, want, c, s)
	}
	_, err := ParseCurve("wobbly")
	assert.Error(t, err)
}
