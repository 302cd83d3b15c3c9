//go:build !headless

package main

import (
	"fmt"
	"time"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
)

type Window struct {
	*glfw.Window
	title      string
	fullscreen bool
	events     []InputEvent
}

func newWindow(cfg *Config, fullscreen bool) (*Window, error) {
	var err error
	var window *glfw.Window
	var monitor *glfw.Monitor

	if err = glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	if monitor = glfw.GetPrimaryMonitor(); monitor == nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to obtain primary monitor")
	}

	// Calculate window size & offset it
	var mode = monitor.GetVideoMode()
	w, h := int(cfg.Video.Width), int(cfg.Video.Height)
	var x, y = (mode.Width - w) / 2, (mode.Height - h) / 2

	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 2)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)

	if fullscreen {
		window, err = glfw.CreateWindow(w, h, cfg.Config.WindowTitle, monitor, nil)
	} else {
		window, err = glfw.CreateWindow(w, h, cfg.Config.WindowTitle, nil, nil)
	}
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	if fullscreen {
		window.SetInputMode(glfw.CursorMode, glfw.CursorHidden)
	} else {
		window.SetPos(x, y)
		window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	}

	window.MakeContextCurrent()

	// V-Sync
	if cfg.Video.VSync >= 0 {
		glfw.SwapInterval(cfg.Video.VSync)
	}

	ret := &Window{Window: window, title: cfg.Config.WindowTitle, fullscreen: fullscreen}
	window.SetKeyCallback(ret.keyCallback)
	return ret, nil
}

// keyCallback buffers key transitions for the next PollEvents. Repeats are
// dropped; a held button is one press.
func (w *Window) keyCallback(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, mk glfw.ModifierKey) {
	var kind InputKind
	switch action {
	case glfw.Press:
		kind = InputPress
	case glfw.Release:
		kind = InputRelease
	default:
		return
	}
	w.events = append(w.events, InputEvent{Kind: kind, Key: Key(key), Mod: ModifierKey(mk), At: time.Now()})
}

func (w *Window) PollEvents() []InputEvent {
	glfw.PollEvents()
	events := w.events
	w.events = nil
	return events
}

func (w *Window) ShouldClose() bool {
	return w.Window.ShouldClose()
}

func (w *Window) FramebufferSize() (int32, int32) {
	width, height := w.Window.GetFramebufferSize()
	return int32(width), int32(height)
}

func (w *Window) SwapBuffers() {
	w.Window.SwapBuffers()
}

func (w *Window) Close() {
	w.Window.Destroy()
	glfw.Terminate()
}
