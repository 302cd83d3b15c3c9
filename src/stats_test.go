package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestCalibrationRoundTrip(t *testing.T) {
	file := filepath.Join(t.TempDir(), "save", "calibration.json")

	c, err := LoadCalibration(file)
	require.NoError(t, err)
	assert.Equal(t, Calibration{}, c)

	want := Calibration{Rotation: 0.0349, Slant: -0.0043, Zoom: 0.0234375}
	require.NoError(t, SaveCalibration(file, want))
	c, err = LoadCalibration(file)
	require.NoError(t, err)
	assert.InDelta(t, want.Rotation, c.Rotation, 1e-6)
	assert.InDelta(t, want.Slant, c.Slant, 1e-6)
	assert.InDelta(t, want.Zoom, c.Zoom, 1e-6)
}

func TestCalibrationKeepsOtherKeys(t *testing.T) {
	file := filepath.Join(t.TempDir(), "calibration.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"player":{"name":"kai"},"calibration":{"zoom":1}}`), 0o644))

	require.NoError(t, SaveCalibration(file, Calibration{Rotation: 1}))
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "kai", gjson.GetBytes(data, "player.name").String())
	assert.Equal(t, 0.0, gjson.GetBytes(data, "calibration.zoom").Float())
	assert.Equal(t, 1.0, gjson.GetBytes(data, "calibration.rotation").Float())
}

func TestEmptyFileNamesAreNoOps(t *testing.T) {
	assert.NoError(t, SaveCalibration("", Calibration{Zoom: 1}))
	assert.NoError(t, SavePlayRecord("", PlayRecord{}))
	c, err := LoadCalibration("")
	assert.NoError(t, err)
	assert.Equal(t, Calibration{}, c)
}

func TestSavePlayRecordAccumulates(t *testing.T) {
	file := filepath.Join(t.TempDir(), "stats.json")
	var r PlayRecord
	r.Chart = "charts/Demo.Song.lua"
	r.Played = 90 * time.Second
	r.Presses[BT_A] = 3
	r.Presses[BT_Start] = 1

	require.NoError(t, SavePlayRecord(file, r))
	require.NoError(t, SavePlayRecord(file, r))

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, 3.0, gjson.GetBytes(data, "playtime").Float())
	assert.Equal(t, int64(2), gjson.GetBytes(data, "songs.demo_song.plays").Int())
	assert.Equal(t, 3.0, gjson.GetBytes(data, "songs.demo_song.playtime").Float())
	assert.Equal(t, int64(6), gjson.GetBytes(data, "buttons.BT_A").Int())
	assert.Equal(t, int64(2), gjson.GetBytes(data, "buttons.Start").Int())
	assert.False(t, gjson.GetBytes(data, "buttons.BT_B").Exists())
}

func TestChartKey(t *testing.T) {
	for in, want := range map[string]string{
		"":                 "default",
		".":                "default",
		"/":                "default",
		".json":            "default",
		"charts/":          "charts",
		`charts\Song.json`: "song",
		"charts/a*b?.lua":  "a_b_",
	} {
		assert.Equal(t, want, chartKey(in), "chartKey(%q)", in)
	}
}

func TestSavePlayRecordUnnamedChart(t *testing.T) {
	file := filepath.Join(t.TempDir(), "stats.json")
	require.NoError(t, SavePlayRecord(file, PlayRecord{Played: time.Minute}))
	require.NoError(t, SavePlayRecord(file, PlayRecord{Played: time.Minute}))

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	songs := gjson.GetBytes(data, "songs")
	assert.True(t, songs.IsObject())
	assert.Equal(t, int64(2), gjson.GetBytes(data, "songs.default.plays").Int())
	assert.Equal(t, 2.0, gjson.GetBytes(data, "songs.default.playtime").Float())
}

func TestInvalidSaveFileIsKept(t *testing.T) {
	file := filepath.Join(t.TempDir(), "calibration.json")
	garbage := []byte(`{"calibration": {"zoom": 0.5`)
	require.NoError(t, os.WriteFile(file, garbage, 0o644))

	_, err := LoadCalibration(file)
	assert.Error(t, err)
	assert.Error(t, SaveCalibration(file, Calibration{Zoom: 1}))
	assert.Error(t, SavePlayRecord(file, PlayRecord{Played: time.Minute}))

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, garbage, data)
}

func TestEmptySaveFileStartsFresh(t *testing.T) {
	file := filepath.Join(t.TempDir(), "calibration.json")
	require.NoError(t, os.WriteFile(file, []byte("\n"), 0o644))
	require.NoError(t, SaveCalibration(file, Calibration{Zoom: 1}))
	c, err := LoadCalibration(file)
	require.NoError(t, err)
	assert.Equal(t, float32(1), c.Zoom)
}
