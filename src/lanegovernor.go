package main

import (
	"context"
	"math"

	mgl "github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"
)

// Defaults tuned for a 90 degree vertical field of view.
var (
	defaultRotation float32 = 0
	defaultSlant            = mgl.DegToRad(36.5)
	defaultZoom     float32 = -0.9765625
)

const (
	laneBackOffset float32 = -3.6
	laneVertScale  float32 = 10.25
	laneViewDrop   float32 = -0.975
	laneFov        float32 = 90
	laneNear       float32 = 0.01
	laneFar        float32 = 100

	calibRotationStep float32 = 2 * math.Pi / 180
	calibSlantStep    float32 = math.Pi / 720
	calibZoomStep     float32 = 0.0078125
)

// TrackKeyframe adds k to one of the governor's tracks.
type TrackKeyframe struct {
	Track    TrackKind
	Keyframe Keyframe
}

// GovernorEvents is the governor's update payload: keyframes and spins
// arriving from gameplay on top of the chart's own.
type GovernorEvents struct {
	Keyframes []TrackKeyframe
	Spins     []Spin
}

type GovernorOptions struct {
	Calibration     Calibration
	CalibrationFile string
	DebugKeys       bool
	// Bindings, if set, keeps bound keys from calibrating without Shift.
	Bindings *KeyBindings
}

// LaneGovernor computes the lane transform for the current song time and
// draws the lanes with it.
type LaneGovernor struct {
	NopHooks
	tracks   [trackKindCount]Track
	spins    []Spin
	nextSpin int
	spin     *Spin

	calibration Calibration
	calibDirty  bool
	opts        GovernorOptions

	view, projection mgl.Mat4
	lanes            *Addr[mgl.Mat4, LanesDetails]
	log              zerolog.Logger
}

func NewLaneGovernor(chart *Chart, lanes *Addr[mgl.Mat4, LanesDetails], opts GovernorOptions, log zerolog.Logger) *LaneGovernor {
	g := &LaneGovernor{
		calibration: opts.Calibration,
		opts:        opts,
		lanes:       lanes,
		log:         log.With().Str("component", "lane-governor").Logger(),
		// First-person camera at the origin looking down -z.
		view:       mgl.LookAtV(mgl.Vec3{0, 0, 0}, mgl.Vec3{0, 0, -1}, mgl.Vec3{0, 1, 0}),
		projection: mgl.Perspective(mgl.DegToRad(laneFov), 1, laneNear, laneFar),
	}
	if chart != nil {
		for kind := range chart.Tracks {
			g.tracks[kind] = append(Track(nil), chart.Tracks[kind]...)
		}
		g.spins = append([]Spin(nil), chart.Spins...)
	}
	return g
}

func (g *LaneGovernor) Rotation(t SongTime) float32 {
	r := g.tracks[TrackRotation].AtOr(t, defaultRotation)
	if g.spin != nil {
		r += g.spin.ClampedRotate(t)
	}
	return r + g.calibration.Rotation
}

func (g *LaneGovernor) Slant(t SongTime) float32 {
	return g.tracks[TrackSlant].AtOr(t, defaultSlant) + g.calibration.Slant
}

func (g *LaneGovernor) Zoom(t SongTime) float32 {
	return g.tracks[TrackZoom].AtOr(t, defaultZoom) + g.calibration.Zoom
}

// CalculateMatrix is the full lane transform at t:
// rotate(z) * translate(view drop) * projection * view * model.
func (g *LaneGovernor) CalculateMatrix(t SongTime) mgl.Mat4 {
	rotation, slant, zoom := g.Rotation(t), g.Slant(t), g.Zoom(t)

	model := mgl.Translate3D(0, 0, laneBackOffset*float32(math.Exp(float64(zoom)))).
		Mul4(mgl.HomogRotate3DX(-slant)).
		Mul4(mgl.Scale3D(1, laneVertScale, 1)).
		Mul4(mgl.Translate3D(0, 1, 0))

	mvp := g.projection.Mul4(g.view.Mul4(model))

	return mgl.HomogRotate3DZ(rotation).
		Mul4(mgl.Translate3D(0, laneViewDrop, 0)).
		Mul4(mvp)
}

// trigger makes s the active spin unless a later one is already running.
func (g *LaneGovernor) trigger(s Spin) {
	if g.spin != nil && g.spin.Start > s.Start {
		return
	}
	g.spin = &s
}

func (g *LaneGovernor) Update(_ context.Context, p UpdatePayload[GovernorEvents]) {
	for _, tk := range p.Payload.Keyframes {
		if tk.Track >= 0 && tk.Track < trackKindCount {
			g.tracks[tk.Track].Insert(tk.Keyframe)
		}
	}
	for _, s := range p.Payload.Spins {
		g.trigger(s)
	}
	for g.nextSpin < len(g.spins) && g.spins[g.nextSpin].Start <= p.Time {
		g.trigger(g.spins[g.nextSpin])
		g.nextSpin++
	}
	if g.spin != nil && p.Time >= g.spin.End() {
		g.spin = nil
	}
	if g.opts.DebugKeys {
		g.calibrate(p.Event)
	}
}

var calibrationKeys = []struct {
	key   Key
	apply func(c *Calibration)
}{
	{Letter('O'), func(c *Calibration) { c.Rotation += calibRotationStep }},
	{Letter('L'), func(c *Calibration) { c.Rotation -= calibRotationStep }},
	{Letter('I'), func(c *Calibration) { c.Slant += calibSlantStep }},
	{Letter('K'), func(c *Calibration) { c.Slant -= calibSlantStep }},
	{Letter('U'), func(c *Calibration) { c.Zoom += calibZoomStep }},
	{Letter('J'), func(c *Calibration) { c.Zoom -= calibZoomStep }},
	{Key0, func(c *Calibration) { *c = Calibration{} }},
}

// calibrate applies a calibration key. A key bound to a button only
// calibrates with Shift held, so play does not move the lanes.
func (g *LaneGovernor) calibrate(ev *InputEvent) {
	if ev == nil {
		return
	}
	if g.opts.Bindings != nil && ev.Mod&ModShift == 0 {
		if _, bound := g.opts.Bindings.Role(ev.Key); bound {
			return
		}
	}
	c := &g.calibration
	applied := false
	for _, ck := range calibrationKeys {
		if ev.Pressed(ck.key) {
			ck.apply(c)
			applied = true
			break
		}
	}
	if !applied {
		return
	}
	g.calibDirty = true
	g.log.Debug().
		Float32("rotation", c.Rotation).
		Float32("slant", c.Slant).
		Float32("zoom", c.Zoom).
		Msg("calibration")
}

func (g *LaneGovernor) EmitRenderDetails(_ context.Context, p RenderPayload[GovernorEvents]) GovernorDetails {
	m := g.CalculateMatrix(p.Time)
	var layers Layers
	if g.lanes != nil {
		layers = AddLayer(layers, "lanes", g.lanes.Render(WithRenderPayload(p, m)))
	}
	return GovernorDetails{Transform: m, layers: layers}
}

func (g *LaneGovernor) OnStop(context.Context) {
	if g.lanes != nil {
		g.lanes.Stop()
	}
	if g.calibDirty {
		if err := SaveCalibration(g.opts.CalibrationFile, g.calibration); err != nil {
			g.log.Warn().Err(err).Msg("calibration not saved")
		}
	}
}

// GovernorDetails draws the governor's layers: the lanes first, overlays
// after.
type GovernorDetails struct {
	Transform mgl.Mat4
	layers    Layers
}

func (d GovernorDetails) Render(ctx context.Context, rw *RenderWindowParts) {
	d.layers.Render(ctx, rw)
}
