// Package window defines the event model the frame loop consumes and the window contract a
// windowing backend implements.
package window

import (
	"fmt"

	"cubes/internal/platform"
)

// Key represents a keyboard key. Only the keys the demo reacts to are named.
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeySpace
	KeyEnter
)

func (k Key) String() string {
	switch k {
	case KeyEscape:
		return "Escape"
	case KeySpace:
		return "Space"
	case KeyEnter:
		return "Enter"
	}
	return fmt.Sprintf("Key(%d)", int(k))
}

// Action is what happened to a key.
type Action int

const (
	Release Action = iota
	Press
	Repeat
)

// Event is one input event. The set of variants is closed.
type Event interface {
	event()
}

// KeyEvent is a key press, release or repeat.
type KeyEvent struct {
	Key    Key
	Action Action
}

// CursorEvent is a cursor move, in window coordinates.
type CursorEvent struct {
	X, Y float64
}

// CloseEvent means the user asked to close the window.
type CloseEvent struct{}

func (KeyEvent) event()    {}
func (CursorEvent) event() {}
func (CloseEvent) event()  {}

// Window is an OS window the renderer draws into.
type Window interface {
	// PollEvents processes pending OS events without blocking and returns them in order.
	PollEvents() []Event
	// FramebufferSize is the drawable size in pixels.
	FramebufferSize() (width, height int)
	// NativeHandle returns the raw handle for surface creation.
	NativeHandle() (platform.NativeHandle, error)
	Close()
}
