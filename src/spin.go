package main

import (
	"fmt"
	"math"
	"strings"
)

type SpinType int

const (
	SpinFull SpinType = iota
	SpinSway
)

func (s SpinType) String() string {
	if s == SpinSway {
		return "sway"
	}
	return "spin"
}

func ParseSpinType(s string) (SpinType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "spin", "":
		return SpinFull, nil
	case "sway":
		return SpinSway, nil
	}
	return SpinFull, fmt.Errorf("unknown spin type %q", s)
}

const swayAmplitude = math.Pi / 12

// Spin is a transient rotation laid over the keyframed base rotation.
// Direction true turns counter-clockwise (positive radians).
type Spin struct {
	Start     SongTime
	Duration  SongTime
	Direction bool
	Type      SpinType
}

func (s Spin) End() SongTime {
	return s.Start + s.Duration
}

// Active reports whether t falls inside [Start, Start+Duration).
func (s Spin) Active(t SongTime) bool {
	return s.Duration > 0 && t >= s.Start && t < s.End()
}

// ClampedRotate is the spin's rotation at t in radians, exactly zero
// outside its window.
func (s Spin) ClampedRotate(t SongTime) float32 {
	if !s.Active(t) {
		return 0
	}
	u := float64(t-s.Start) / float64(s.Duration)
	sign := -1.0
	if s.Direction {
		sign = 1
	}
	switch s.Type {
	case SpinSway:
		return float32(sign * swayAmplitude * math.Sin(math.Pi*u))
	default:
		return float32(sign * 2 * math.Pi * (1 - (1-u)*(1-u)))
	}
}
