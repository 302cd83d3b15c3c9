package main

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/exp/slices"
)

type Curve int

const (
	CurveLinear Curve = iota
	CurveHalfSigmoid
	CurveSigmoid
	CurveStair
)

var curveNames = map[Curve]string{
	CurveLinear:      "linear",
	CurveHalfSigmoid: "halfsigmoid",
	CurveSigmoid:     "sigmoid",
	CurveStair:       "stair",
}

func (c Curve) String() string {
	if s, ok := curveNames[c]; ok {
		return s
	}
	return fmt.Sprintf("Curve(%d)", int(c))
}

func ParseCurve(s string) (Curve, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return CurveLinear, nil
	}
	for c, name := range curveNames {
		if name == s {
			return c, nil
		}
	}
	return CurveLinear, fmt.Errorf("unknown curve %q", s)
}

// Keyframe is one point of an animated scalar.
type Keyframe struct {
	Value   float32
	Time    SongTime
	Curve   Curve
	Tension float32
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func linearMap(x, xmin, xmax, ymin, ymax float64) float64 {
	return (x-xmin)/(xmax-xmin)*(ymax-ymin) + ymin
}

// halfSigmoid maps [0,1] onto [0,1] along the upper half of the logistic
// curve, steepness k > 0.
func halfSigmoid(u, k float64) float64 {
	return (sigmoid(k*u) - 0.5) / (sigmoid(k) - 0.5)
}

// flatTension is the steepness below which the sigmoid curves are taken
// as linear. Their normalizing denominators vanish in float64 near zero.
const flatTension = 1e-6

// shape returns the normalized progress g(u) for this curve. g(0) = 0 and
// g(1) = 1 for every curve.
func (c Curve) shape(u float64, tension float32) float64 {
	if tension == 0 {
		return u
	}
	k := math.Abs(float64(tension))
	switch c {
	case CurveHalfSigmoid:
		if k < flatTension {
			return u
		}
		if tension > 0 {
			return halfSigmoid(u, k)
		}
		return 1 - halfSigmoid(1-u, k)
	case CurveSigmoid:
		if k < flatTension {
			return u
		}
		lo, hi := sigmoid(-k/2), sigmoid(k/2)
		return (sigmoid(k*(u-0.5)) - lo) / (hi - lo)
	case CurveStair:
		if u >= 1 {
			return u
		}
		n := math.Max(1, math.Floor(k))
		return math.Floor(u*n) / n
	}
	return u
}

// Interpolate resolves the value at t between (v0,t0) and (v1,t1). t is
// normally inside [t0,t1] but is not clamped.
func (c Curve) Interpolate(t SongTime, k0, k1 Keyframe, tension float32) float32 {
	if k1.Time == k0.Time {
		return k1.Value
	}
	u := float64(t-k0.Time) / float64(k1.Time-k0.Time)
	g := c.shape(u, tension)
	return float32(linearMap(g, 0, 1, float64(k0.Value), float64(k1.Value)))
}

// InterpolateAgainst uses this keyframe's curve and tension to reach next.
func (k Keyframe) InterpolateAgainst(t SongTime, next Keyframe) float32 {
	return k.Curve.Interpolate(t, k, next, k.Tension)
}

// Track is a keyframe sequence sorted by Time.
type Track []Keyframe

func compareKeyframeTime(k Keyframe, t SongTime) int {
	switch {
	case k.Time < t:
		return -1
	case k.Time > t:
		return 1
	}
	return 0
}

// Insert keeps the track sorted. Keyframes at an equal time are placed after
// the existing ones.
func (tr *Track) Insert(k Keyframe) {
	i, _ := slices.BinarySearchFunc(*tr, k.Time+1, compareKeyframeTime)
	*tr = slices.Insert(*tr, i, k)
}

func NewTrack(keys ...Keyframe) Track {
	tr := make(Track, 0, len(keys))
	for _, k := range keys {
		tr.Insert(k)
	}
	return tr
}

// At resolves the track's value at t. ok is false for an empty track.
func (tr Track) At(t SongTime) (v float32, ok bool) {
	if len(tr) == 0 {
		return 0, false
	}
	i, found := slices.BinarySearchFunc(tr, t, compareKeyframeTime)
	switch {
	case found:
		return tr[i].Value, true
	case i == 0:
		return tr[0].Value, true
	case i == len(tr):
		return tr[len(tr)-1].Value, true
	}
	return tr[i-1].InterpolateAgainst(t, tr[i]), true
}

// AtOr is At with a fallback for empty tracks.
func (tr Track) AtOr(t SongTime, def float32) float32 {
	if v, ok := tr.At(t); ok {
		return v
	}
	return def
}
