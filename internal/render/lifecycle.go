package render

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// ErrAlreadyInitialized is returned by Lifecycle.Init when the renderer was already initialized.
var ErrAlreadyInitialized = errors.New("render: renderer already initialized")

// ErrShutdown is returned by Lifecycle.Init after the renderer has been shut down.
var ErrShutdown = errors.New("render: renderer has been shut down")

// InitError reports a backend that failed to initialize.
type InitError struct {
	Kind BackendKind
	Err  error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("render: init %s backend: %v", e.Kind, e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }

// LifecycleState is the state of a renderer owned by a Lifecycle.
type LifecycleState int

const (
	Uninitialized LifecycleState = iota
	Initialized
	ShutDown
)

func (s LifecycleState) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Initialized:
		return "initialized"
	case ShutDown:
		return "shutdown"
	}
	return fmt.Sprintf("LifecycleState(%d)", int(s))
}

// Lifecycle guards a Renderer so that Init succeeds at most once and Shutdown runs exactly once
// after a successful Init.
type Lifecycle struct {
	r     Renderer
	state LifecycleState
	log   *slog.Logger
}

// NewLifecycle wraps r. A nil logger discards output.
func NewLifecycle(r Renderer, log *slog.Logger) *Lifecycle {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Lifecycle{r: r, log: log}
}

// Renderer returns the wrapped renderer.
func (l *Lifecycle) Renderer() Renderer { return l.r }

// State returns the current lifecycle state.
func (l *Lifecycle) State() LifecycleState { return l.state }

// Init initializes the renderer. Backend failures are returned as *InitError.
func (l *Lifecycle) Init(cfg InitConfig) error {
	switch l.state {
	case Initialized:
		return ErrAlreadyInitialized
	case ShutDown:
		return ErrShutdown
	}
	if err := l.r.Init(cfg); err != nil {
		return &InitError{Kind: cfg.Type, Err: err}
	}
	l.state = Initialized
	l.log.Info("renderer initialized",
		"backend", cfg.Type,
		"width", cfg.Resolution.Width,
		"height", cfg.Resolution.Height)
	return nil
}

// Shutdown releases the renderer. It is a no-op unless the renderer is initialized, so it is
// safe to call from every exit path.
func (l *Lifecycle) Shutdown() {
	if l.state != Initialized {
		return
	}
	l.r.Shutdown()
	l.state = ShutDown
	l.log.Info("renderer shut down")
}
