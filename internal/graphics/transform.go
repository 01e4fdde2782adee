package graphics

import (
	"github.com/go-gl/mathgl/mgl32"

	"cubes/internal/mathutil"
)

// Grid layout: GridSize³ cubes spaced GridSpacing apart, centred on the origin.
const (
	GridSize    = 11
	GridSpacing = 3
	GridOrigin  = -15
)

// Per-axis rotation phase added per grid step, in radians.
const (
	RotationStepX = 0.21
	RotationStepY = 0.37
)

// CursorScale converts cursor pixels into radians of extra rotation.
const CursorScale = 1024

// Camera settings.
var (
	CameraEye    = mgl32.Vec3{0, 0, -35}
	CameraTarget = mgl32.Vec3{0, 0, 0}
	CameraUp     = mgl32.Vec3{0, 1, 0}
)

const (
	CameraFovY = 60 // degrees
	CameraNear = 0.1
	CameraFar  = 100
)

// Cursor is the last cursor position reported by the window.
type Cursor struct {
	X, Y float64
}

// Camera is the fixed left-handed perspective camera.
type Camera struct {
	Eye, Target, Up mgl32.Vec3
	FovY            float32 // radians
	Aspect          float32
	Near, Far       float32
}

// NewCamera returns the demo camera for a framebuffer of width×height pixels. A degenerate
// framebuffer (minimized window) gets an aspect of 1.
func NewCamera(width, height int) Camera {
	aspect := float32(1)
	if width > 0 && height > 0 {
		aspect = float32(width) / float32(height)
	}
	return Camera{
		Eye:    CameraEye,
		Target: CameraTarget,
		Up:     CameraUp,
		FovY:   mgl32.DegToRad(CameraFovY),
		Aspect: aspect,
		Near:   CameraNear,
		Far:    CameraFar,
	}
}

func (c Camera) View() mgl32.Mat4 {
	return mathutil.LookAtLH(c.Eye, c.Target, c.Up)
}

func (c Camera) Proj() mgl32.Mat4 {
	return mathutil.PerspectiveLH(c.FovY, c.Aspect, c.Near, c.Far)
}

// GridCoord is the world coordinate of grid index i along any axis.
func GridCoord(i int) float32 {
	return GridOrigin + float32(i)*GridSpacing
}

// RotationAngles returns the Euler XYZ angles of the cube at grid column xi and row yi at time
// t seconds. The cursor adds a small offset to the X and Y angles; Z is always 0.
func RotationAngles(t float32, xi, yi int, cursor Cursor) (x, y, z float32) {
	x = t + float32(xi)*RotationStepX + float32(cursor.X/CursorScale)
	y = t + float32(yi)*RotationStepY + float32(cursor.Y/CursorScale)
	return x, y, 0
}

// InstanceTransform is translation(pos) · Rx · Ry · Rz.
func InstanceTransform(pos mgl32.Vec3, x, y, z float32) mgl32.Mat4 {
	return mgl32.Translate3D(pos[0], pos[1], pos[2]).Mul4(mathutil.EulerXYZ(x, y, z))
}
