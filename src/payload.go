package main

import "time"

// UpdatePayload is what an actor sees on an update: at most one input
// event, the queue for resource requests and the current time.
type UpdatePayload[P any] struct {
	Event   *InputEvent
	Init    *EnvelopeQueue
	Time    SongTime
	Wall    time.Time
	Payload P
}

// WithUpdatePayload re-types u for a child actor.
func WithUpdatePayload[P, Q any](u UpdatePayload[P], q Q) UpdatePayload[Q] {
	return UpdatePayload[Q]{
		Event:   u.Event,
		Init:    u.Init,
		Time:    u.Time,
		Wall:    u.Wall,
		Payload: q,
	}
}

// RenderPayload carries the frame's draw target and shader capability.
type RenderPayload[P any] struct {
	Target        DrawTarget
	ShaderVersion ShaderVersion
	Time          SongTime
	Init          *EnvelopeQueue
	Payload       P
}

// WithRenderPayload re-types r for a child actor.
func WithRenderPayload[P, Q any](r RenderPayload[P], q Q) RenderPayload[Q] {
	return RenderPayload[Q]{
		Target:        r.Target,
		ShaderVersion: r.ShaderVersion,
		Time:          r.Time,
		Init:          r.Init,
		Payload:       q,
	}
}
