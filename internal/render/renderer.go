package render

import "github.com/go-gl/mathgl/mgl32"

// Renderer is an immediate-submission GPU backend. Per-draw state (transform, buffers, state
// flags) is set and then consumed by Submit; view state persists until changed. Frame presents
// everything submitted since the previous Frame.
//
// A Renderer is owned by a single goroutine.
type Renderer interface {
	Init(cfg InitConfig) error
	Shutdown()
	Type() BackendKind

	SetDebug(flags DebugFlags)
	Reset(width, height uint32, flags ResetFlags)

	SetViewClear(view ViewID, flags ClearFlags, rgba uint32, depth float32, stencil uint8)
	SetViewRect(view ViewID, x, y, width, height uint16)
	SetViewTransform(view ViewID, viewMtx, proj mgl32.Mat4)
	// Touch makes the view render (and clear) even when nothing is submitted to it.
	Touch(view ViewID)

	CreateVertexBuffer(data []byte, layout *VertexLayout) (VertexBufferHandle, error)
	CreateIndexBuffer(data []byte) (IndexBufferHandle, error)
	CreateShader(blob []byte) (ShaderHandle, error)
	// DestroyShader releases a shader that was never linked into a program.
	DestroyShader(h ShaderHandle)
	// CreateProgram links a vertex and fragment shader. With destroyShaders the shader
	// handles are released once the program is built.
	CreateProgram(vs, fs ShaderHandle, destroyShaders bool) (ProgramHandle, error)

	SetTransform(mtx mgl32.Mat4)
	SetVertexBuffer(stream uint8, h VertexBufferHandle)
	SetIndexBuffer(h IndexBufferHandle)
	SetState(state StateFlags, rgba uint32)
	Submit(view ViewID, program ProgramHandle)

	DbgTextClear(attr uint8, small bool)
	DbgTextPrintf(x, y uint16, attr uint8, format string, args ...any)

	// Frame presents the current frame and returns the frame number.
	Frame() uint32
}
