// Package glfwwindow implements window.Window with GLFW. The window is created without a
// client API so the renderer owns the presentation surface.
//
// GLFW must be driven from the main OS thread; callers lock it before calling New.
package glfwwindow

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/go-gl/glfw/v3.3/glfw"

	"cubes/internal/platform"
	"cubes/internal/window"
)

// Config describes the window to open.
type Config struct {
	Width  int
	Height int
	Title  string
}

// Window is a GLFW window that queues its callbacks as window.Events.
type Window struct {
	w      *glfw.Window
	events []window.Event
	log    *slog.Logger
}

var _ window.Window = (*Window)(nil)

// New initializes GLFW and opens a window.
func New(cfg Config, log *slog.Logger) (*Window, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfwwindow: init: %w", err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	gw, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("glfwwindow: create window: %w", err)
	}

	win := &Window{w: gw, log: log}
	gw.SetKeyCallback(win.onKey)
	gw.SetCursorPosCallback(win.onCursor)
	gw.SetCloseCallback(win.onClose)

	fw, fh := gw.GetFramebufferSize()
	log.Info("window created", "title", cfg.Title, "width", fw, "height", fh)
	return win, nil
}

func (win *Window) onKey(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	win.events = append(win.events, window.KeyEvent{Key: mapKey(key), Action: mapAction(action)})
}

func (win *Window) onCursor(_ *glfw.Window, x, y float64) {
	win.events = append(win.events, window.CursorEvent{X: x, Y: y})
}

func (win *Window) onClose(_ *glfw.Window) {
	win.events = append(win.events, window.CloseEvent{})
}

// PollEvents pumps GLFW and returns the events queued by its callbacks.
func (win *Window) PollEvents() []window.Event {
	glfw.PollEvents()
	out := win.events
	win.events = nil
	return out
}

func (win *Window) FramebufferSize() (int, int) {
	return win.w.GetFramebufferSize()
}

// NativeHandle returns the handle of the window for the platform GLFW was built for.
func (win *Window) NativeHandle() (platform.NativeHandle, error) {
	return nativeHandle(win.w)
}

// Close destroys the window and terminates GLFW.
func (win *Window) Close() {
	win.w.Destroy()
	glfw.Terminate()
}

func mapKey(k glfw.Key) window.Key {
	switch k {
	case glfw.KeyEscape:
		return window.KeyEscape
	case glfw.KeySpace:
		return window.KeySpace
	case glfw.KeyEnter:
		return window.KeyEnter
	}
	return window.KeyUnknown
}

func mapAction(a glfw.Action) window.Action {
	switch a {
	case glfw.Press:
		return window.Press
	case glfw.Repeat:
		return window.Repeat
	}
	return window.Release
}
