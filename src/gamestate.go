package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	mgl "github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"
)

type Stage int

const (
	StageUninitialized Stage = iota
	StageTitleScreen
	StageSettings
	StageSongSelection
	StageSong
)

func (s Stage) String() string {
	switch s {
	case StageUninitialized:
		return "uninitialized"
	case StageTitleScreen:
		return "title"
	case StageSettings:
		return "settings"
	case StageSongSelection:
		return "song-selection"
	case StageSong:
		return "song"
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// EntryMode decides how the game first reaches a song.
type EntryMode int

const (
	// EntryDirect starts the song on the very first update.
	EntryDirect EntryMode = iota
	// EntryTitle shows the title screen and waits for Start.
	EntryTitle
)

func ParseEntryMode(s string) (EntryMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "direct":
		return EntryDirect, nil
	case "title":
		return EntryTitle, nil
	}
	return EntryDirect, fmt.Errorf("unknown entry mode %q", s)
}

type GameOptions struct {
	EntryMode   EntryMode
	Bindings    *KeyBindings
	Chart       *Chart
	ChartName   string
	LaneTexture string
	StatsFile   string
	Governor    GovernorOptions
}

// ButtonPress is one held button and when it went down.
type ButtonPress struct {
	Button ButtonRole
	At     time.Time
}

// GameState is the top-level actor. It owns the current stage and, while
// a song plays, the lane governor.
type GameState struct {
	NopHooks
	pool *Pool
	opts GameOptions
	log  zerolog.Logger

	stage      Stage
	governor   *Addr[GovernorEvents, GovernorDetails]
	lanes      *Addr[mgl.Mat4, LanesDetails]
	laneRes    *LaneResources
	songOffset SongTime
	songStart  time.Time
	record     PlayRecord
	pressed    []ButtonPress
}

func NewGameState(pool *Pool, opts GameOptions, log zerolog.Logger) *GameState {
	if opts.Bindings == nil {
		opts.Bindings = DefaultKeyBindings()
	}
	return &GameState{
		pool: pool,
		opts: opts,
		log:  log.With().Str("component", "game").Logger(),
	}
}

func (s *GameState) Stage() Stage { return s.stage }

// Pressed returns the buttons currently held, oldest first.
func (s *GameState) Pressed() []ButtonPress {
	return append([]ButtonPress(nil), s.pressed...)
}

func (s *GameState) trackButtons(ev *InputEvent, wall time.Time) (ButtonRole, bool) {
	if ev == nil {
		return 0, false
	}
	role, ok := s.opts.Bindings.Role(ev.Key)
	if !ok {
		return 0, false
	}
	at := ev.At
	if at.IsZero() {
		at = wall
	}
	switch ev.Kind {
	case InputPress:
		s.pressed = append(s.pressed, ButtonPress{Button: role, At: at})
		if s.stage == StageSong {
			s.record.Presses[role]++
		}
	case InputRelease:
		kept := s.pressed[:0]
		for _, bp := range s.pressed {
			if bp.Button != role {
				kept = append(kept, bp)
			}
		}
		s.pressed = kept
	}
	return role, ev.Kind == InputPress
}

func (s *GameState) Update(ctx context.Context, p UpdatePayload[struct{}]) {
	role, pressed := s.trackButtons(p.Event, p.Wall)
	is := func(r ButtonRole) bool { return pressed && role == r }

	switch s.stage {
	case StageUninitialized:
		if s.opts.EntryMode != EntryDirect || !s.enterSong(ctx, p) {
			s.setStage(StageTitleScreen)
		}
	case StageTitleScreen:
		switch {
		case is(BT_Start):
			s.enterSong(ctx, p)
		case is(FX_L):
			s.setStage(StageSettings)
		case is(FX_R):
			s.setStage(StageSongSelection)
		}
	case StageSettings:
		if is(BT_Back) {
			s.setStage(StageTitleScreen)
		}
	case StageSongSelection:
		switch {
		case is(BT_Start):
			s.enterSong(ctx, p)
		case is(BT_Back):
			s.setStage(StageTitleScreen)
		}
	case StageSong:
		if is(BT_Back) {
			s.leaveSong(ctx, p)
			return
		}
		gp := WithUpdatePayload(p, GovernorEvents{})
		gp.Time = p.Time - s.songOffset
		if _, err := s.governor.Update(gp).Wait(ctx); err != nil {
			s.log.Debug().Err(err).Msg("governor update cancelled")
		}
	}
}

func (s *GameState) setStage(next Stage) {
	if next == s.stage {
		return
	}
	s.log.Info().Stringer("from", s.stage).Stringer("to", next).Msg("stage")
	s.stage = next
}

// enterSong creates the lane resources on the owning thread and starts the
// governor. On failure the stage stays as it was.
func (s *GameState) enterSong(ctx context.Context, p UpdatePayload[struct{}]) bool {
	res, err := SendThenReceive[*LaneResources](ctx, p.Init, LanesInitRequest{Texture: s.opts.LaneTexture})
	if err != nil {
		s.log.Warn().Err(err).Msg("song initialization failed")
		return false
	}
	s.laneRes = res
	s.lanes = Spawn[mgl.Mat4, LanesDetails](ctx, s.pool, "lanes", NewLanes(res, s.log), s.log)
	gopts := s.opts.Governor
	gopts.Bindings = s.opts.Bindings
	gov := NewLaneGovernor(s.opts.Chart, s.lanes, gopts, s.log)
	s.governor = Spawn[GovernorEvents, GovernorDetails](ctx, s.pool, "lane-governor", gov, s.log)
	s.songOffset = p.Time
	s.songStart = p.Wall
	s.record = PlayRecord{Chart: s.opts.ChartName}
	s.setStage(StageSong)
	return true
}

func (s *GameState) leaveSong(ctx context.Context, p UpdatePayload[struct{}]) {
	s.stopGovernor(ctx)
	if s.laneRes != nil {
		if _, err := SendThenReceive[struct{}](ctx, p.Init, ReleaseLanesRequest{Res: s.laneRes}); err != nil {
			s.log.Warn().Err(err).Msg("lane resources not released")
		}
		s.laneRes = nil
	}
	s.record.Played = p.Wall.Sub(s.songStart)
	if err := SavePlayRecord(s.opts.StatsFile, s.record); err != nil {
		s.log.Warn().Err(err).Msg("play stats not saved")
	}
	s.pressed = s.pressed[:0]
	s.setStage(StageTitleScreen)
}

// stopGovernor waits for the governor and its lanes to wind down. The
// waits give up the pool slot, since both need one to run their stop hooks.
func (s *GameState) stopGovernor(ctx context.Context) {
	if s.governor != nil {
		s.governor.Stop()
		_, _ = Await(ctx, s.governor.Done())
		s.governor = nil
	}
	if s.lanes != nil {
		s.lanes.Stop()
		_, _ = Await(ctx, s.lanes.Done())
		s.lanes = nil
	}
}

func (s *GameState) EmitRenderDetails(_ context.Context, p RenderPayload[struct{}]) GameDetails {
	d := GameDetails{Stage: s.stage}
	if s.stage == StageSong && s.governor != nil {
		gp := WithRenderPayload(p, GovernorEvents{})
		gp.Time = p.Time - s.songOffset
		d.layers = AddLayer(d.layers, "lane-governor", s.governor.Render(gp))
	}
	return d
}

func (s *GameState) OnStop(ctx context.Context) {
	s.stopGovernor(ctx)
}

// GameDetails is the frame description for whatever stage is active.
type GameDetails struct {
	Stage  Stage
	layers Layers
}

func (d GameDetails) Render(ctx context.Context, rw *RenderWindowParts) {
	d.layers.Render(ctx, rw)
}
