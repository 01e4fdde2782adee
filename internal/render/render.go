// Package render defines the immediate-submission renderer contract used by the frame loop,
// together with the value types shared by every backend: backend kinds, resource handles,
// state and clear flags, vertex layouts and the debug text layer.
package render

import (
	"fmt"
	"unsafe"
)

// BackendKind identifies a GPU API family.
type BackendKind int

const (
	Noop BackendKind = iota
	Direct3D
	OpenGL
	Metal
	OpenGLES
	Vulkan
)

var backendNames = map[BackendKind]string{
	Noop:     "Noop",
	Direct3D: "Direct3D",
	OpenGL:   "OpenGL",
	Metal:    "Metal",
	OpenGLES: "OpenGLES",
	Vulkan:   "Vulkan",
}

func (k BackendKind) String() string {
	if s, ok := backendNames[k]; ok {
		return s
	}
	return fmt.Sprintf("BackendKind(%d)", int(k))
}

// NativeWindowType tells the backend how to interpret PlatformData.NWH.
type NativeWindowType int

const (
	// NativeWindowDefault: NWH is the platform window (X11 Window, HWND, NSWindow).
	NativeWindowDefault NativeWindowType = iota
	// NativeWindowWayland: NWH is a wl_surface and NDT the wl_display.
	NativeWindowWayland
)

// PlatformData carries the native handles a backend needs to create its surface.
type PlatformData struct {
	// NDT is the native display type (X11 Display*, wl_display*), nil when unused.
	NDT unsafe.Pointer
	// NWH is the native window handle.
	NWH  uintptr
	Type NativeWindowType
}

// Resolution is the initial backbuffer size and reset flags.
type Resolution struct {
	Width  uint32
	Height uint32
	Reset  ResetFlags
}

// InitConfig is passed to Renderer.Init.
type InitConfig struct {
	Type         BackendKind
	Resolution   Resolution
	PlatformData PlatformData
}

// ViewID selects a view (render pass). The cube demo only uses view 0.
type ViewID uint16

// InvalidHandle is the value of every handle type that does not reference a resource.
const InvalidHandle = 0xFFFF

type (
	VertexBufferHandle uint16
	IndexBufferHandle  uint16
	ShaderHandle       uint16
	ProgramHandle      uint16
)

func (h VertexBufferHandle) Valid() bool { return h != InvalidHandle }
func (h IndexBufferHandle) Valid() bool  { return h != InvalidHandle }
func (h ShaderHandle) Valid() bool       { return h != InvalidHandle }
func (h ProgramHandle) Valid() bool      { return h != InvalidHandle }

// ResetFlags control backbuffer behaviour on Init and Reset.
type ResetFlags uint32

const (
	ResetNone  ResetFlags = 0
	ResetVSync ResetFlags = 1 << 0
)

// DebugFlags enable backend debug features.
type DebugFlags uint32

const (
	DebugNone DebugFlags = 0
	// DebugText enables the debug text layer drawn over the frame.
	DebugText DebugFlags = 1 << 0
)

// ClearFlags select which attachments a view clears at the start of a frame.
type ClearFlags uint16

const (
	ClearNone  ClearFlags = 0
	ClearColor ClearFlags = 1 << 0
	ClearDepth ClearFlags = 1 << 1
)

// StateFlags describe the fixed-function state of a draw.
type StateFlags uint64

const (
	StateWriteR StateFlags = 1 << iota
	StateWriteG
	StateWriteB
	StateWriteA
	StateWriteZ
	StateDepthTestLess
	StateDepthTestAlways
	StateCullCW
	StateCullCCW

	StateWriteRGB = StateWriteR | StateWriteG | StateWriteB

	StateDefault = StateWriteRGB | StateWriteA | StateWriteZ | StateDepthTestLess | StateCullCW
)

// Has reports whether all bits of f are set in s.
func (s StateFlags) Has(f StateFlags) bool {
	return s&f == f
}

// UnpackRGBA splits a 0xRRGGBBAA colour into normalized components.
func UnpackRGBA(rgba uint32) (r, g, b, a float64) {
	return float64(rgba>>24&0xff) / 255,
		float64(rgba>>16&0xff) / 255,
		float64(rgba>>8&0xff) / 255,
		float64(rgba&0xff) / 255
}
