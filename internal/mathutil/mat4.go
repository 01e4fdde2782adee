// Package mathutil adds the left-handed, [0,1]-depth camera matrices that mgl32 lacks.
// Everything else uses mgl32 directly; its Mat4 is column-major, the layout WGSL expects.
package mathutil

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// EulerXYZ composes Rx(x) · Ry(y) · Rz(z).
func EulerXYZ(x, y, z float32) mgl32.Mat4 {
	return mgl32.HomogRotate3DX(x).Mul4(mgl32.HomogRotate3DY(y)).Mul4(mgl32.HomogRotate3DZ(z))
}

// PerspectiveLH builds a left-handed perspective projection with a [0,1] depth range.
// fovY is the vertical field of view in radians.
func PerspectiveLH(fovY, aspect, near, far float32) mgl32.Mat4 {
	h := 1 / math32.Tan(fovY*0.5)
	w := h / aspect
	r := far / (far - near)
	return mgl32.Mat4{
		w, 0, 0, 0,
		0, h, 0, 0,
		0, 0, r, 1,
		0, 0, -r * near, 0,
	}
}

// LookAtLH builds a left-handed view matrix for a camera at eye looking at target.
func LookAtLH(eye, target, up mgl32.Vec3) mgl32.Mat4 {
	f := target.Sub(eye).Normalize()
	s := up.Cross(f).Normalize()
	u := f.Cross(s)
	return mgl32.Mat4{
		s[0], u[0], f[0], 0,
		s[1], u[1], f[1], 0,
		s[2], u[2], f[2], 0,
		-s.Dot(eye), -u.Dot(eye), -f.Dot(eye), 1,
	}
}

// TransformPoint applies m to the point p (w = 1) and returns the homogeneous result.
func TransformPoint(m mgl32.Mat4, p mgl32.Vec3) mgl32.Vec4 {
	return m.Mul4x1(p.Vec4(1))
}
