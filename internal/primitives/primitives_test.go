package primitives

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"cubes/internal/mathutil"
	"cubes/internal/render"
	"cubes/internal/render/rendertest"
)

func pos(i uint16) mgl32.Vec3 {
	v := CubeVertices[i]
	return mgl32.Vec3{v.X, v.Y, v.Z}
}

func TestCubeIndicesInRange(t *testing.T) {
	for i, idx := range CubeIndices {
		if int(idx) >= len(CubeVertices) {
			t.Errorf("index %d = %d out of range", i, idx)
		}
	}
}

func TestCubeWindingPointsInward(t *testing.T) {
	for tri := 0; tri < len(CubeIndices)/3; tri++ {
		a, b, c := pos(CubeIndices[tri*3]), pos(CubeIndices[tri*3+1]), pos(CubeIndices[tri*3+2])
		n := b.Sub(a).Cross(c.Sub(a))
		centroid := a.Add(b).Add(c).Mul(1.0 / 3)
		if n.Dot(centroid) >= 0 {
			t.Errorf("triangle %d normal %v points outward", tri, n)
		}
	}
}

// With the demo camera, every triangle facing the eye must wind counter-clockwise on
// screen so that StateCullCW discards exactly the hidden faces.
func TestCubeWindingMatchesCullCW(t *testing.T) {
	eye := mgl32.Vec3{0, 0, -35}
	view := mathutil.LookAtLH(eye, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	proj := mathutil.PerspectiveLH(mgl32.DegToRad(60), 16.0/9.0, 0.1, 100)
	vp := proj.Mul4(view)

	ndc := func(p mgl32.Vec3) (float32, float32) {
		c := mathutil.TransformPoint(vp, p)
		return c[0] / c[3], c[1] / c[3]
	}

	front := 0
	for tri := 0; tri < len(CubeIndices)/3; tri++ {
		a, b, c := pos(CubeIndices[tri*3]), pos(CubeIndices[tri*3+1]), pos(CubeIndices[tri*3+2])
		outward := b.Sub(a).Cross(c.Sub(a)).Mul(-1)
		facing := outward.Dot(eye.Sub(a)) > 0

		ax, ay := ndc(a)
		bx, by := ndc(b)
		cx, cy := ndc(c)
		area := (bx-ax)*(cy-ay) - (by-ay)*(cx-ax)
		ccw := area > 0

		if facing != ccw {
			t.Errorf("triangle %d: facing=%v ccw=%v", tri, facing, ccw)
		}
		if facing {
			front++
		}
	}
	if front != 2 {
		t.Errorf("front-facing triangles = %d, want 2", front)
	}
	if !render.StateDefault.Has(render.StateCullCW) {
		t.Error("default state does not cull clockwise triangles")
	}
}

func TestVertexBytes(t *testing.T) {
	b := VertexBytes(CubeVertices[:])
	if len(b) != 8*PosColorVertexSize {
		t.Fatalf("len = %d, want %d", len(b), 8*PosColorVertexSize)
	}
	// vertex 1: (1, 1, 1, 0xff0000ff)
	v1 := b[PosColorVertexSize : 2*PosColorVertexSize]
	if x := math.Float32frombits(binary.LittleEndian.Uint32(v1[0:])); x != 1 {
		t.Errorf("v1.x = %v", x)
	}
	if c := binary.LittleEndian.Uint32(v1[12:]); c != 0xff0000ff {
		t.Errorf("v1.abgr = %#x", c)
	}
	if got := CubeLayout().Stride(); int(got) != PosColorVertexSize {
		t.Errorf("layout stride = %d, want %d", got, PosColorVertexSize)
	}
}

func TestIndexBytes(t *testing.T) {
	b := IndexBytes(CubeIndices[:])
	if len(b) != 72 {
		t.Fatalf("len = %d, want 72", len(b))
	}
	if got := binary.LittleEndian.Uint16(b[2*34:]); got != 3 {
		t.Errorf("index 34 = %d, want 3", got)
	}
}

func TestRegistryUploadsOnce(t *testing.T) {
	rec := rendertest.New()
	reg := NewRegistry(rec)

	m1, err := reg.Mesh("cube")
	if err != nil {
		t.Fatalf("Mesh() error = %v", err)
	}
	m2, err := reg.Mesh("cube")
	if err != nil {
		t.Fatalf("Mesh() error = %v", err)
	}
	if m1 != m2 {
		t.Errorf("Mesh() = %+v then %+v", m1, m2)
	}
	if len(rec.VertexBuffers) != 1 || len(rec.IndexBuffers) != 1 {
		t.Errorf("uploads = %d vb, %d ib; want 1 each", len(rec.VertexBuffers), len(rec.IndexBuffers))
	}
	if m1.IndexCount != 36 {
		t.Errorf("IndexCount = %d", m1.IndexCount)
	}
	if _, err := reg.Mesh("teapot"); err == nil {
		t.Error("Mesh(teapot) succeeded")
	}
}
