//go:build headless

package main

import "sync"

func newRenderer() Renderer {
	return &NullRenderer{}
}

// Window is a stand-in with no display. Events can be fed with Inject.
type Window struct {
	mu            sync.Mutex
	title         string
	width, height int32
	events        []InputEvent
	closed        bool
}

func newWindow(cfg *Config, _ bool) (*Window, error) {
	return &Window{title: cfg.Config.WindowTitle, width: cfg.Video.Width, height: cfg.Video.Height}, nil
}

func (w *Window) Inject(events ...InputEvent) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.events = append(w.events, events...)
}

func (w *Window) PollEvents() []InputEvent {
	w.mu.Lock()
	defer w.mu.Unlock()
	events := w.events
	w.events = nil
	return events
}

func (w *Window) ShouldClose() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

func (w *Window) FramebufferSize() (int32, int32) { return w.width, w.height }
func (w *Window) SwapBuffers()                    {}

func (w *Window) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
}
