package webgpu

import (
	"encoding/binary"
	"image"
	"math"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"

	"cubes/internal/mathutil"
	"cubes/internal/primitives"
	"cubes/internal/render"
)

func TestVertexBufferLayoutCube(t *testing.T) {
	l, err := vertexBufferLayout(primitives.CubeLayout())
	if err != nil {
		t.Fatalf("vertexBufferLayout() error = %v", err)
	}
	if l.ArrayStride != 16 {
		t.Errorf("ArrayStride = %d, want 16", l.ArrayStride)
	}
	if len(l.Attributes) != 2 {
		t.Fatalf("attributes = %d, want 2", len(l.Attributes))
	}
	pos, col := l.Attributes[0], l.Attributes[1]
	if pos.Format != wgpu.VertexFormatFloat32x3 || pos.Offset != 0 || pos.ShaderLocation != 0 {
		t.Errorf("position = %+v", pos)
	}
	if col.Format != wgpu.VertexFormatUnorm8x4 || col.Offset != 12 || col.ShaderLocation != 1 {
		t.Errorf("color0 = %+v", col)
	}
}

func TestVertexFormatUnsupported(t *testing.T) {
	a := render.VertexAttribute{Attrib: render.AttribColor0, Num: 3, Type: render.AttribUint8}
	if _, err := vertexFormat(a); err == nil {
		t.Error("vertexFormat accepted 3 x uint8")
	}
}

func TestPrimitiveState(t *testing.T) {
	cw := primitiveState(render.StateDefault)
	if cw.FrontFace != wgpu.FrontFaceCCW || cw.CullMode != wgpu.CullModeBack {
		t.Errorf("cull CW = %+v", cw)
	}
	ccw := primitiveState(render.StateWriteRGB | render.StateCullCCW)
	if ccw.FrontFace != wgpu.FrontFaceCW || ccw.CullMode != wgpu.CullModeBack {
		t.Errorf("cull CCW = %+v", ccw)
	}
	none := primitiveState(render.StateWriteRGB)
	if none.CullMode != wgpu.CullModeNone {
		t.Errorf("no cull = %+v", none)
	}
}

func TestDepthAndWriteMask(t *testing.T) {
	ds := depthStencilState(render.StateDefault)
	if !ds.DepthWriteEnabled || ds.DepthCompare != wgpu.CompareFunctionLess {
		t.Errorf("default depth = %+v", ds)
	}
	ds = depthStencilState(render.StateWriteRGB)
	if ds.DepthWriteEnabled || ds.DepthCompare != wgpu.CompareFunctionAlways {
		t.Errorf("no depth = %+v", ds)
	}
	if m := writeMask(render.StateDefault); m != wgpu.ColorWriteMaskAll {
		t.Errorf("default mask = %v", m)
	}
	if m := writeMask(render.StateWriteR | render.StateWriteA); m != wgpu.ColorWriteMaskRed|wgpu.ColorWriteMaskAlpha {
		t.Errorf("RA mask = %v", m)
	}
}

func float32At(b []byte, i int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
}

func TestViewUniforms(t *testing.T) {
	v := &view{
		viewMtx: mgl32.Translate3D(0, 0, 35),
		proj:    mathutil.PerspectiveLH(mgl32.DegToRad(60), 16.0/9.0, 0.1, 100),
	}
	out := viewUniforms(v)
	if len(out) != viewUniformSize {
		t.Fatalf("len = %d", len(out))
	}
	want := v.proj.Mul4(v.viewMtx)
	for i := 0; i < 16; i++ {
		if got := float32At(out, 32+i); got != want[i] {
			t.Fatalf("view_proj[%d] = %v, want %v", i, got, want[i])
		}
	}
	if got := float32At(out, 14); got != 35 {
		t.Errorf("view translation z = %v, want 35", got)
	}
}

func TestModelUniformsStride(t *testing.T) {
	draws := []drawCall{newDraw(), newDraw()}
	draws[1].transform = mgl32.Translate3D(1, 2, 3)
	out := modelUniforms(draws)
	if len(out) != 2*uniformStride {
		t.Fatalf("len = %d", len(out))
	}
	if got := float32At(out, 0); got != 1 {
		t.Errorf("identity[0] = %v", got)
	}
	base := uniformStride / 4
	if x, y, z := float32At(out, base+12), float32At(out, base+13), float32At(out, base+14); x != 1 || y != 2 || z != 3 {
		t.Errorf("translation = %v %v %v", x, y, z)
	}
}

func TestAlign4(t *testing.T) {
	for n, want := range map[int]int{0: 0, 1: 4, 4: 4, 72: 72, 73: 76} {
		if got := align4(n); got != want {
			t.Errorf("align4(%d) = %d, want %d", n, got, want)
		}
	}
}

func TestSubmitResetsPending(t *testing.T) {
	b := New(nil)
	b.SetVertexBuffer(0, 3)
	b.SetIndexBuffer(4)
	b.SetTransform(mgl32.Translate3D(1, 0, 0))
	b.Submit(0, 7)
	b.Submit(1, 7)

	if len(b.draws) != 2 {
		t.Fatalf("draws = %d", len(b.draws))
	}
	if d := b.draws[0]; d.vb != 3 || d.ib != 4 || d.program != 7 || d.transform[12] != 1 {
		t.Errorf("first draw = %+v", d)
	}
	if d := b.draws[1]; d.vb != render.InvalidHandle || d.transform != mgl32.Ident4() {
		t.Errorf("second draw kept state: %+v", d)
	}
	if ids := b.touchedViews(); len(ids) != 2 {
		t.Errorf("touched = %v", ids)
	}
	b.Submit(maxViews, 7)
	if len(b.draws) != 2 {
		t.Error("draw on out-of-range view recorded")
	}
}

func TestSortDrawsKeepsSubmissionOrder(t *testing.T) {
	b := New(nil)
	for i, id := range []render.ViewID{2, 0, 2, 1, 0} {
		b.Submit(id, render.ProgramHandle(i))
	}
	sortDraws(b.draws)

	want := []struct {
		view render.ViewID
		prog render.ProgramHandle
	}{{0, 1}, {0, 4}, {1, 3}, {2, 0}, {2, 2}}
	for i, w := range want {
		if d := b.draws[i]; d.view != w.view || d.program != w.prog {
			t.Errorf("draws[%d] = view %d program %d, want view %d program %d", i, d.view, d.program, w.view, w.prog)
		}
	}
}

func TestDestroyShaderWithoutDevice(t *testing.T) {
	b := New(nil)
	b.shaders = []*wgpu.ShaderModule{nil}
	b.DestroyShader(0)
	b.DestroyShader(9)
	if b.shaderAt(0) != nil || b.shaderAt(9) != nil {
		t.Error("destroyed shader still resolvable")
	}
}

func TestFrameWithoutDevice(t *testing.T) {
	b := New(nil)
	b.Touch(0)
	b.Submit(0, 0)
	if n := b.Frame(); n != 1 {
		t.Errorf("Frame() = %d, want 1", n)
	}
	if len(b.draws) != 0 || len(b.touchedViews()) != 0 {
		t.Error("frame state not cleared")
	}
}

func TestRasterize(t *testing.T) {
	buf := render.NewTextBuffer(80, 32)
	buf.Print(0, 0, 0x0f, "A")
	buf.Print(0, 1, 0x30, " ")
	img := image.NewRGBA(image.Rect(0, 0, buf.Cols()*render.TextCellWidth, buf.Rows()*render.TextCellHeight))
	rasterize(img, buf)

	lit := 0
	for y := 0; y < render.TextCellHeight; y++ {
		for x := 0; x < render.TextCellWidth; x++ {
			if img.RGBAAt(x, y).A != 0 {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Error("glyph A drew no pixels")
	}
	if img.RGBAAt(12, 4).A != 0 {
		t.Error("empty cell is not transparent")
	}
	if got := img.RGBAAt(4, render.TextCellHeight+8); got != render.TextPalette[3] {
		t.Errorf("background = %v, want %v", got, render.TextPalette[3])
	}
}

func TestSameCells(t *testing.T) {
	buf := render.NewTextBuffer(16, 16)
	buf.Print(0, 0, 0x0f, "x")
	a := snapshot(buf)
	if !sameCells(a, snapshot(buf)) {
		t.Error("identical grids differ")
	}
	buf.Print(0, 0, 0x0f, "y")
	if sameCells(a, snapshot(buf)) {
		t.Error("changed grid compared equal")
	}
}
