package main

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Calibration holds the player's additive corrections to the lane
// transform, in radians (rotation, slant) and zoom units.
type Calibration struct {
	Rotation float32
	Slant    float32
	Zoom     float32
}

func round2(x float64) float64 { return math.Round(x*100) / 100 }

// pathSpecials are the characters gjson and sjson give meaning to in a path.
var pathSpecials = strings.NewReplacer(".", "_", "*", "_", "?", "_", "|", "_", "#", "_", "@", "_")

// chartKey names a chart's entry under "songs". Unnamed charts share
// "default".
func chartKey(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	if strings.TrimSpace(p) == "" {
		return "default"
	}
	base := filepath.Base(p)
	if base == "." || base == "/" {
		return "default"
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" {
		return "default"
	}
	return strings.ToLower(pathSpecials.Replace(base))
}

// readJSONFile returns the file's content, or an empty object if it does
// not exist yet or is empty. Invalid content is an error so that a save
// never replaces it.
func readJSONFile(file string) ([]byte, error) {
	data, err := os.ReadFile(file)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return []byte(`{}`), nil
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%s: invalid JSON", file)
	}
	return data, nil
}

func writeJSONFile(file string, data []byte) error {
	if dir := filepath.Dir(file); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(file, data, 0o644)
}

func LoadCalibration(file string) (Calibration, error) {
	var c Calibration
	if file == "" {
		return c, nil
	}
	data, err := readJSONFile(file)
	if err != nil {
		return c, err
	}
	c.Rotation = float32(gjson.GetBytes(data, "calibration.rotation").Float())
	c.Slant = float32(gjson.GetBytes(data, "calibration.slant").Float())
	c.Zoom = float32(gjson.GetBytes(data, "calibration.zoom").Float())
	return c, nil
}

// SaveCalibration rewrites the calibration keys and leaves the rest of the
// file alone.
func SaveCalibration(file string, c Calibration) error {
	if file == "" {
		return nil
	}
	data, err := readJSONFile(file)
	if err != nil {
		return err
	}
	for _, kv := range []struct {
		path string
		v    float32
	}{
		{"calibration.rotation", c.Rotation},
		{"calibration.slant", c.Slant},
		{"calibration.zoom", c.Zoom},
	} {
		if data, err = sjson.SetBytes(data, kv.path, kv.v); err != nil {
			return err
		}
	}
	return writeJSONFile(file, data)
}

// PlayRecord summarises one stay in the Song stage.
type PlayRecord struct {
	Chart   string
	Played  time.Duration
	Presses [ButtonRoleCount]int
}

// SavePlayRecord adds r to the running totals in file.
func SavePlayRecord(file string, r PlayRecord) error {
	if file == "" {
		return nil
	}
	data, err := readJSONFile(file)
	if err != nil {
		return err
	}
	minutes := r.Played.Minutes()
	set := func(path string, v interface{}) {
		if err == nil {
			data, err = sjson.SetBytes(data, path, v)
		}
	}

	set("playtime", round2(gjson.GetBytes(data, "playtime").Float()+minutes))

	songBase := "songs." + chartKey(r.Chart)
	set(songBase+".playtime", round2(gjson.GetBytes(data, songBase+".playtime").Float()+minutes))
	set(songBase+".plays", gjson.GetBytes(data, songBase+".plays").Int()+1)

	for role := ButtonRole(0); role < ButtonRoleCount; role++ {
		if r.Presses[role] == 0 {
			continue
		}
		path := "buttons." + role.String()
		set(path, gjson.GetBytes(data, path).Int()+int64(r.Presses[role]))
	}
	if err != nil {
		return err
	}
	return writeJSONFile(file, data)
}
