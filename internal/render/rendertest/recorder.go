// Package rendertest provides a render.Renderer that records every call instead of drawing.
package rendertest

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"cubes/internal/render"
)

// Draw is one submitted draw call with the per-draw state that was bound when it was submitted.
type Draw struct {
	View         render.ViewID
	Program      render.ProgramHandle
	Transform    mgl32.Mat4
	Stream       uint8
	VertexBuffer render.VertexBufferHandle
	IndexBuffer  render.IndexBufferHandle
	State        render.StateFlags
	// Frame is the frame number the draw belongs to.
	Frame uint32
}

// Reset records a call to Reset.
type Reset struct {
	Width, Height uint32
	Flags         render.ResetFlags
}

// ViewClear records the clear parameters of a view.
type ViewClear struct {
	Flags   render.ClearFlags
	RGBA    uint32
	Depth   float32
	Stencil uint8
}

// ViewRect records the rectangle of a view.
type ViewRect struct {
	X, Y, Width, Height uint16
}

// ViewTransform records the matrices of a view.
type ViewTransform struct {
	View, Proj mgl32.Mat4
}

// Program records a linked program.
type Program struct {
	VS, FS render.ShaderHandle
}

// Recorder implements render.Renderer by recording.
type Recorder struct {
	// InitErr, when set, is returned from Init.
	InitErr error
	// ShaderErr, when set, is returned from CreateShader.
	ShaderErr error

	Config        render.InitConfig
	Calls         []string
	InitCount     int
	ShutdownCount int
	Debug         render.DebugFlags
	Resets        []Reset
	Clears        map[render.ViewID]ViewClear
	Rects         map[render.ViewID]ViewRect
	Transforms    map[render.ViewID]ViewTransform
	Touched       []render.ViewID

	VertexBuffers [][]byte
	IndexBuffers  [][]byte
	Shaders       [][]byte
	Destroyed     []render.ShaderHandle
	Programs      []Program

	Draws  []Draw
	Frames uint32
	Text   *render.TextBuffer
	// TextFrames holds the non-empty text lines captured at every Frame.
	TextFrames [][]string

	pending Draw
}

var _ render.Renderer = (*Recorder)(nil)

// New returns an empty Recorder.
func New() *Recorder {
	return &Recorder{
		Clears:     make(map[render.ViewID]ViewClear),
		Rects:      make(map[render.ViewID]ViewRect),
		Transforms: make(map[render.ViewID]ViewTransform),
		Text:       render.NewTextBuffer(0, 0),
		pending:    newPending(),
	}
}

func newPending() Draw {
	return Draw{
		Transform:    mgl32.Ident4(),
		VertexBuffer: render.InvalidHandle,
		IndexBuffer:  render.InvalidHandle,
	}
}

func (r *Recorder) call(name string) {
	r.Calls = append(r.Calls, name)
}

func (r *Recorder) Init(cfg render.InitConfig) error {
	r.call("Init")
	r.InitCount++
	if r.InitErr != nil {
		return r.InitErr
	}
	r.Config = cfg
	r.Text.Resize(cfg.Resolution.Width, cfg.Resolution.Height)
	return nil
}

func (r *Recorder) Shutdown() {
	r.call("Shutdown")
	r.ShutdownCount++
}

func (r *Recorder) Type() render.BackendKind {
	return r.Config.Type
}

func (r *Recorder) SetDebug(flags render.DebugFlags) {
	r.call("SetDebug")
	r.Debug = flags
}

func (r *Recorder) Reset(width, height uint32, flags render.ResetFlags) {
	r.call("Reset")
	r.Resets = append(r.Resets, Reset{Width: width, Height: height, Flags: flags})
	r.Text.Resize(width, height)
}

func (r *Recorder) SetViewClear(view render.ViewID, flags render.ClearFlags, rgba uint32, depth float32, stencil uint8) {
	r.call("SetViewClear")
	r.Clears[view] = ViewClear{Flags: flags, RGBA: rgba, Depth: depth, Stencil: stencil}
}

func (r *Recorder) SetViewRect(view render.ViewID, x, y, width, height uint16) {
	r.call("SetViewRect")
	r.Rects[view] = ViewRect{X: x, Y: y, Width: width, Height: height}
}

func (r *Recorder) SetViewTransform(view render.ViewID, viewMtx, proj mgl32.Mat4) {
	r.call("SetViewTransform")
	r.Transforms[view] = ViewTransform{View: viewMtx, Proj: proj}
}

func (r *Recorder) Touch(view render.ViewID) {
	r.call("Touch")
	r.Touched = append(r.Touched, view)
}

func (r *Recorder) CreateVertexBuffer(data []byte, layout *render.VertexLayout) (render.VertexBufferHandle, error) {
	r.call("CreateVertexBuffer")
	if layout == nil || layout.Stride() == 0 {
		return render.InvalidHandle, fmt.Errorf("rendertest: vertex buffer without layout")
	}
	r.VertexBuffers = append(r.VertexBuffers, append([]byte(nil), data...))
	return render.VertexBufferHandle(len(r.VertexBuffers) - 1), nil
}

func (r *Recorder) CreateIndexBuffer(data []byte) (render.IndexBufferHandle, error) {
	r.call("CreateIndexBuffer")
	r.IndexBuffers = append(r.IndexBuffers, append([]byte(nil), data...))
	return render.IndexBufferHandle(len(r.IndexBuffers) - 1), nil
}

func (r *Recorder) CreateShader(blob []byte) (render.ShaderHandle, error) {
	r.call("CreateShader")
	if r.ShaderErr != nil {
		return render.InvalidHandle, r.ShaderErr
	}
	r.Shaders = append(r.Shaders, append([]byte(nil), blob...))
	return render.ShaderHandle(len(r.Shaders) - 1), nil
}

func (r *Recorder) DestroyShader(h render.ShaderHandle) {
	r.call("DestroyShader")
	r.Destroyed = append(r.Destroyed, h)
}

func (r *Recorder) CreateProgram(vs, fs render.ShaderHandle, destroyShaders bool) (render.ProgramHandle, error) {
	r.call("CreateProgram")
	if int(vs) >= len(r.Shaders) || int(fs) >= len(r.Shaders) {
		return render.InvalidHandle, fmt.Errorf("rendertest: invalid shader handles %d, %d", vs, fs)
	}
	r.Programs = append(r.Programs, Program{VS: vs, FS: fs})
	return render.ProgramHandle(len(r.Programs) - 1), nil
}

func (r *Recorder) SetTransform(mtx mgl32.Mat4) {
	r.call("SetTransform")
	r.pending.Transform = mtx
}

func (r *Recorder) SetVertexBuffer(stream uint8, h render.VertexBufferHandle) {
	r.call("SetVertexBuffer")
	r.pending.Stream = stream
	r.pending.VertexBuffer = h
}

func (r *Recorder) SetIndexBuffer(h render.IndexBufferHandle) {
	r.call("SetIndexBuffer")
	r.pending.IndexBuffer = h
}

func (r *Recorder) SetState(state render.StateFlags, _ uint32) {
	r.call("SetState")
	r.pending.State = state
}

func (r *Recorder) Submit(view render.ViewID, program render.ProgramHandle) {
	r.call("Submit")
	d := r.pending
	d.View = view
	d.Program = program
	d.Frame = r.Frames
	r.Draws = append(r.Draws, d)
	r.pending = newPending()
}

func (r *Recorder) DbgTextClear(attr uint8, _ bool) {
	r.call("DbgTextClear")
	r.Text.Clear(attr)
}

func (r *Recorder) DbgTextPrintf(x, y uint16, attr uint8, format string, args ...any) {
	r.call("DbgTextPrintf")
	r.Text.Print(int(x), int(y), attr, fmt.Sprintf(format, args...))
}

func (r *Recorder) Frame() uint32 {
	r.call("Frame")
	var lines []string
	for y := 0; y < r.Text.Rows(); y++ {
		if l := r.Text.Line(y); l != "" {
			lines = append(lines, l)
		}
	}
	r.TextFrames = append(r.TextFrames, lines)
	r.Frames++
	return r.Frames
}

// DrawsInFrame returns the draws submitted during frame n (0-based).
func (r *Recorder) DrawsInFrame(n uint32) []Draw {
	var out []Draw
	for _, d := range r.Draws {
		if d.Frame == n {
			out = append(out, d)
		}
	}
	return out
}

// Count returns how many times the named method was called.
func (r *Recorder) Count(name string) int {
	n := 0
	for _, c := range r.Calls {
		if c == name {
			n++
		}
	}
	return n
}

// Index returns the position of the first call to name at or after from, or -1.
func (r *Recorder) Index(name string, from int) int {
	for i := from; i < len(r.Calls); i++ {
		if r.Calls[i] == name {
			return i
		}
	}
	return -1
}
