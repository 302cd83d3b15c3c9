package main

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
)

type TrackKind int

const (
	TrackRotation TrackKind = iota
	TrackSlant
	TrackZoom
	trackKindCount
)

var trackKindNames = [trackKindCount]string{"rotation", "slant", "zoom"}

func (k TrackKind) String() string {
	if k >= 0 && k < trackKindCount {
		return trackKindNames[k]
	}
	return fmt.Sprintf("TrackKind(%d)", int(k))
}

// Chart holds the lane transform animation of one song: keyframes for each
// track and the spins to trigger, sorted by start.
type Chart struct {
	Tracks [trackKindCount]Track
	Spins  []Spin
}

func (c *Chart) AddKeyframe(kind TrackKind, k Keyframe) {
	c.Tracks[kind].Insert(k)
}

func (c *Chart) AddSpin(s Spin) {
	i := sort.Search(len(c.Spins), func(i int) bool { return c.Spins[i].Start > s.Start })
	c.Spins = append(c.Spins, Spin{})
	copy(c.Spins[i+1:], c.Spins[i:])
	c.Spins[i] = s
}

// LoadChart reads a .json or .lua chart from fsys.
func LoadChart(fsys fs.FS, name string) (*Chart, error) {
	name = cleanAssetPath(name)
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(path.Ext(name)) {
	case ".json":
		return ParseChartJSON(data)
	case ".lua":
		return ParseChartLua(name, string(data))
	}
	return nil, fmt.Errorf("chart %s: unsupported format", name)
}

// ParseChartJSON reads
//
//	{"rotation": [{"time": 0, "value": 0, "curve": "linear", "tension": 0}],
//	 "slant": [...], "zoom": [...],
//	 "spins": [{"start": 0, "duration": 500, "direction": true, "type": "spin"}]}
func ParseChartJSON(data []byte) (*Chart, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("chart: invalid json")
	}
	root := gjson.ParseBytes(data)
	c := &Chart{}
	var err error
	for kind := TrackKind(0); kind < trackKindCount; kind++ {
		root.Get(kind.String()).ForEach(func(_, v gjson.Result) bool {
			var curve Curve
			if curve, err = ParseCurve(v.Get("curve").String()); err != nil {
				err = fmt.Errorf("chart %s: %w", kind, err)
				return false
			}
			c.AddKeyframe(kind, Keyframe{
				Time:    SongTime(v.Get("time").Int()),
				Value:   float32(v.Get("value").Float()),
				Curve:   curve,
				Tension: float32(v.Get("tension").Float()),
			})
			return true
		})
		if err != nil {
			return nil, err
		}
	}
	root.Get("spins").ForEach(func(_, v gjson.Result) bool {
		var st SpinType
		if st, err = ParseSpinType(v.Get("type").String()); err != nil {
			err = fmt.Errorf("chart spins: %w", err)
			return false
		}
		c.AddSpin(Spin{
			Start:     SongTime(v.Get("start").Int()),
			Duration:  SongTime(v.Get("duration").Int()),
			Direction: v.Get("direction").Bool(),
			Type:      st,
		})
		return true
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}
