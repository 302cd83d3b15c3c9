package main

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const demoChartJSON = `{
	"rotation": [
		{"time": 1000, "value": 1.5, "curve": "sigmoid", "tension": 4},
		{"time": 0, "value": 0}
	],
	"slant": [{"time": 500, "value": 0.6, "curve": "stair", "tension": 3}],
	"spins": [
		{"start": 2000, "duration": 500, "direction": true, "type": "sway"},
		{"start": 100, "duration": 200}
	]
}`

const demoChartLua = `
rotation(0, 0)
rotation(1000, 1.5, "sigmoid", 4)
slant(500, 0.6, "stair", 3)
spin(2000, 500, true, "sway")
spin(100, 200, false)
`

func TestChartJSON(t *testing.T) {
	c, err := ParseChartJSON([]byte(demoChartJSON))
	require.NoError(t, err)

	require.Len(t, c.Tracks[TrackRotation], 2)
	assert.Equal(t, SongTime(0), c.Tracks[TrackRotation][0].Time)
	assert.Equal(t, CurveSigmoid, c.Tracks[TrackRotation][1].Curve)
	assert.Equal(t, float32(4), c.Tracks[TrackRotation][1].Tension)
	assert.Empty(t, c.Tracks[TrackZoom])

	require.Len(t, c.Spins, 2)
	assert.Equal(t, Spin{Start: 100, Duration: 200}, c.Spins[0])
	assert.Equal(t, Spin{Start: 2000, Duration: 500, Direction: true, Type: SpinSway}, c.Spins[1])
}

func TestChartLuaMatchesJSON(t *testing.T) {
	fromJSON, err := ParseChartJSON([]byte(demoChartJSON))
	require.NoError(t, err)
	fromLua, err := ParseChartLua("demo.lua", demoChartLua)
	require.NoError(t, err)
	assert.Equal(t, fromJSON, fromLua)
}

func TestChartErrors(t *testing.T) {
	_, err := ParseChartJSON([]byte(`{"rotation": [`))
	assert.Error(t, err)

	_, err = ParseChartJSON([]byte(`{"zoom": [{"time": 0, "value": 1, "curve": "wobbly"}]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wobbly")

	_, err = ParseChartJSON([]byte(`{"spins": [{"start": 0, "duration": 1, "type": "flip"}]}`))
	assert.Error(t, err)

	_, err = ParseChartLua("bad.lua", `rotation(0, 1, "wobbly")`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wobbly")

	_, err = ParseChartLua("bad.lua", `slant("soon", 1)`)
	assert.Error(t, err)

	_, err = ParseChartLua("bad.lua", `this is not lua`)
	assert.Error(t, err)
}

func TestLoadChart(t *testing.T) {
	fsys := fstest.MapFS{
		"charts/demo.json": {Data: []byte(demoChartJSON)},
		"charts/demo.lua":  {Data: []byte(demoChartLua)},
		"charts/demo.txt":  {Data: []byte("rotation 0 0")},
	}
	a, err := LoadChart(fsys, "charts/demo.json")
	require.NoError(t, err)
	b, err := LoadChart(fsys, `charts\demo.lua`)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	_, err = LoadChart(fsys, "charts/demo.txt")
	assert.Error(t, err)
	_, err = LoadChart(fsys, "charts/none.json")
	assert.Error(t, err)
}

func TestChartAddSpinStable(t *testing.T) {
	var c Chart
	c.AddSpin(Spin{Start: 50, Duration: 1})
	c.AddSpin(Spin{Start: 10, Duration: 2})
	c.AddSpin(Spin{Start: 50, Duration: 3})
	var durations []SongTime
	for _, s := range c.Spins {
		durations = append(durations, s.Duration)
	}
	assert.Equal(t, []SongTime{2, 1, 3}, durations)
}
