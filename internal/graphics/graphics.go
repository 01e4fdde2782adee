package graphics

import (
	"io"
	"log/slog"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"cubes/internal/primitives"
	"cubes/internal/render"
	"cubes/internal/window"
)

// MainView is the only view the demo renders into.
const MainView render.ViewID = 0

// Shader program names.
const (
	VertexShader   = "vs_cubes"
	FragmentShader = "fs_cubes"
)

// State is the loop state. Closing is terminal.
type State int

const (
	Running State = iota
	Closing
)

func (s State) String() string {
	if s == Closing {
		return "closing"
	}
	return "running"
}

// FrameState is what the loop knows about the current frame.
type FrameState struct {
	// Elapsed is seconds since Start.
	Elapsed float32
	Width   int
	Height  int
	// Cursor is the last cursor sample; zero until the first cursor event.
	Cursor    Cursor
	CursorSet bool
	// Frame is the number of frames presented so far.
	Frame uint32
}

// ProgramLoader builds shader programs by name.
type ProgramLoader interface {
	LoadProgram(vsName, fsName string) (render.ProgramHandle, error)
}

// Overlay draws into the renderer's debug text layer once per frame.
type Overlay interface {
	Draw(r render.Renderer, f FrameState)
}

// Config configures a Loop. Zero values pick defaults.
type Config struct {
	ClearColor uint32
	// DebugText enables the renderer text layer.
	DebugText bool
	VSync     bool
	// Overlay, when set, draws the debug text every frame.
	Overlay Overlay
	// Now is the clock; time.Now when nil.
	Now func() time.Time
	Log *slog.Logger
}

// Loop owns the renderer for the lifetime of the demo and drives one frame per Step. It must
// be used from the goroutine that owns the window.
type Loop struct {
	win  window.Window
	r    render.Renderer
	life *render.Lifecycle
	cfg  Config
	log  *slog.Logger
	now  func() time.Time

	state   State
	start   time.Time
	frame   FrameState
	mesh    primitives.Mesh
	program render.ProgramHandle
	reset   render.ResetFlags
}

// NewLoop creates a loop rendering win through r.
func NewLoop(win window.Window, r render.Renderer, cfg Config) *Loop {
	log := cfg.Log
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Loop{
		win:  win,
		r:    r,
		life: render.NewLifecycle(r, log),
		cfg:  cfg,
		log:  log,
		now:  now,
	}
}

// State returns the loop state.
func (l *Loop) State() State { return l.state }

// Frame returns the state of the last stepped frame.
func (l *Loop) Frame() FrameState { return l.frame }

// Start initializes the renderer, uploads the cube geometry and builds the shader program.
// If anything after renderer init fails, the renderer is shut down before returning.
func (l *Loop) Start(cfg render.InitConfig, shaders ProgramLoader) error {
	if l.cfg.VSync {
		cfg.Resolution.Reset |= render.ResetVSync
	}
	if err := l.life.Init(cfg); err != nil {
		return err
	}
	l.reset = cfg.Resolution.Reset

	debug := render.DebugNone
	if l.cfg.DebugText {
		debug = render.DebugText
	}
	l.r.SetDebug(debug)
	l.r.SetViewClear(MainView, render.ClearColor|render.ClearDepth, l.cfg.ClearColor, 1.0, 0)

	mesh, err := primitives.NewRegistry(l.r).Mesh("cube")
	if err != nil {
		l.life.Shutdown()
		return err
	}
	program, err := shaders.LoadProgram(VertexShader, FragmentShader)
	if err != nil {
		l.life.Shutdown()
		return err
	}
	l.mesh = mesh
	l.program = program

	l.start = l.now()
	l.frame = FrameState{
		Width:  int(cfg.Resolution.Width),
		Height: int(cfg.Resolution.Height),
	}
	l.state = Running
	return nil
}

// RequestClose makes the next Step end the loop.
func (l *Loop) RequestClose() {
	l.state = Closing
}

// Step runs one iteration and reports whether the loop is still running. An iteration that
// observes a close request submits nothing and presents nothing.
func (l *Loop) Step() bool {
	if l.state == Closing {
		return false
	}
	l.pollEvents()
	if l.state == Closing {
		l.log.Info("close requested", "frames", l.frame.Frame)
		return false
	}

	l.frame.Elapsed = float32(l.now().Sub(l.start).Seconds())

	w, h := l.win.FramebufferSize()
	if w != l.frame.Width || h != l.frame.Height {
		l.r.Reset(uint32(w), uint32(h), l.reset)
		l.log.Debug("framebuffer resized", "width", w, "height", h)
		l.frame.Width, l.frame.Height = w, h
	}

	cam := NewCamera(w, h)
	l.r.SetViewRect(MainView, 0, 0, uint16(w), uint16(h))
	l.r.SetViewTransform(MainView, cam.View(), cam.Proj())
	l.r.Touch(MainView)

	l.submitGrid()

	if l.cfg.Overlay != nil {
		l.cfg.Overlay.Draw(l.r, l.frame)
	}
	l.frame.Frame = l.r.Frame()
	return true
}

func (l *Loop) pollEvents() {
	for _, ev := range l.win.PollEvents() {
		switch e := ev.(type) {
		case window.KeyEvent:
			if e.Key == window.KeyEscape && e.Action == window.Press {
				l.state = Closing
			}
		case window.CursorEvent:
			l.frame.Cursor = Cursor{X: e.X, Y: e.Y}
			l.frame.CursorSet = true
		case window.CloseEvent:
			l.state = Closing
		}
	}
}

func (l *Loop) submitGrid() {
	t := l.frame.Elapsed
	for yy := 0; yy < GridSize; yy++ {
		for xx := 0; xx < GridSize; xx++ {
			for zz := 0; zz < GridSize; zz++ {
				pos := mgl32.Vec3{GridCoord(xx), GridCoord(yy), GridCoord(zz)}
				ax, ay, az := RotationAngles(t, xx, yy, l.frame.Cursor)

				l.r.SetTransform(InstanceTransform(pos, ax, ay, az))
				l.r.SetVertexBuffer(0, l.mesh.VB)
				l.r.SetIndexBuffer(l.mesh.IB)
				l.r.SetState(render.StateDefault, 0)
				l.r.Submit(MainView, l.program)
			}
		}
	}
}

// Shutdown releases the renderer. Safe to call more than once.
func (l *Loop) Shutdown() {
	l.life.Shutdown()
}

// Run steps until the loop closes, then shuts the renderer down.
func (l *Loop) Run() {
	for l.Step() {
	}
	l.Shutdown()
}
