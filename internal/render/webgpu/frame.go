package webgpu

import (
	"cmp"
	"encoding/binary"
	"math"
	"slices"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"

	"cubes/internal/render"
)

func newDraw() drawCall {
	return drawCall{
		transform: mgl32.Ident4(),
		vb:        render.InvalidHandle,
		ib:        render.InvalidHandle,
		state:     render.StateDefault,
	}
}

func (b *Backend) viewAt(id render.ViewID) *view {
	if int(id) >= maxViews {
		b.log.Warn("view id out of range", "view", id, "max", maxViews-1)
		return nil
	}
	return &b.views[id]
}

func (b *Backend) SetViewClear(id render.ViewID, flags render.ClearFlags, rgba uint32, depth float32, _ uint8) {
	if v := b.viewAt(id); v != nil {
		v.clear, v.clearColor, v.clearDepth = flags, rgba, depth
	}
}

func (b *Backend) SetViewRect(id render.ViewID, x, y, width, height uint16) {
	if v := b.viewAt(id); v != nil {
		v.x, v.y, v.w, v.h, v.rectSet = x, y, width, height, true
	}
}

func (b *Backend) SetViewTransform(id render.ViewID, viewMtx, proj mgl32.Mat4) {
	if v := b.viewAt(id); v != nil {
		v.viewMtx, v.proj, v.transformed = viewMtx, proj, true
	}
}

// Touch makes the view render this frame even without draws.
func (b *Backend) Touch(id render.ViewID) {
	if v := b.viewAt(id); v != nil {
		v.touched = true
	}
}

func (b *Backend) SetTransform(mtx mgl32.Mat4) {
	b.pending.transform = mtx
}

// SetVertexBuffer binds h for the next draw. Only stream 0 is supported.
func (b *Backend) SetVertexBuffer(stream uint8, h render.VertexBufferHandle) {
	if stream != 0 {
		b.log.Warn("vertex stream not supported", "stream", stream)
		return
	}
	b.pending.vb = h
}

func (b *Backend) SetIndexBuffer(h render.IndexBufferHandle) {
	b.pending.ib = h
}

func (b *Backend) SetState(state render.StateFlags, _ uint32) {
	b.pending.state = state
}

// Submit queues the pending draw for view and resets the per-draw state.
func (b *Backend) Submit(id render.ViewID, prog render.ProgramHandle) {
	d := b.pending
	b.pending = newDraw()
	v := b.viewAt(id)
	if v == nil {
		return
	}
	v.touched = true
	d.view, d.program = id, prog
	b.draws = append(b.draws, d)
}

func (b *Backend) DbgTextClear(attr uint8, _ bool) {
	if b.text != nil {
		b.text.buf.Clear(attr)
	}
}

func (b *Backend) DbgTextPrintf(x, y uint16, attr uint8, format string, args ...any) {
	if b.text != nil {
		b.text.printf(int(x), int(y), attr, format, args...)
	}
}

// putMat4 writes m as little-endian floats at dst.
func putMat4(dst []byte, m mgl32.Mat4) {
	for i, f := range m {
		binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(f))
	}
}

// viewUniforms encodes {view, proj, view_proj}.
func viewUniforms(v *view) []byte {
	out := make([]byte, viewUniformSize)
	viewProj := v.proj.Mul4(v.viewMtx)
	putMat4(out[0:], v.viewMtx)
	putMat4(out[64:], v.proj)
	putMat4(out[128:], viewProj)
	return out
}

// modelUniforms lays the draw transforms out at uniformStride offsets.
func modelUniforms(draws []drawCall) []byte {
	out := make([]byte, len(draws)*uniformStride)
	for i, d := range draws {
		putMat4(out[i*uniformStride:], d.transform)
	}
	return out
}

// sortDraws groups draws by view. Within a view they keep submission order.
func sortDraws(draws []drawCall) {
	slices.SortStableFunc(draws, func(x, y drawCall) int { return cmp.Compare(x.view, y.view) })
}

// touchedViews returns the views to render this frame in ascending id order.
func (b *Backend) touchedViews() []render.ViewID {
	var ids []render.ViewID
	for i := range b.views {
		if b.views[i].touched {
			ids = append(ids, render.ViewID(i))
		}
	}
	return ids
}

// Frame encodes every queued draw, presents the backbuffer and returns the new frame number.
func (b *Backend) Frame() uint32 {
	b.frameNum++
	defer b.endFrame()
	if !b.ready || b.width == 0 || b.height == 0 {
		return b.frameNum
	}

	sortDraws(b.draws)

	if err := b.growModels(len(b.draws)); err != nil {
		b.log.Error("frame skipped", "err", err)
		return b.frameNum
	}
	if len(b.draws) > 0 {
		b.queue.WriteBuffer(b.modelBuf, 0, modelUniforms(b.draws))
	}
	ids := b.touchedViews()
	for _, id := range ids {
		b.queue.WriteBuffer(b.viewBuf, uint64(id)*uniformStride, viewUniforms(&b.views[id]))
	}

	tex, err := b.surface.GetCurrentTexture()
	if err != nil {
		b.log.Debug("surface texture unavailable", "err", err)
		return b.frameNum
	}
	target, err := tex.CreateView(nil)
	if err != nil {
		b.log.Debug("surface view unavailable", "err", err)
		return b.frameNum
	}
	defer target.Release()

	enc, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		b.log.Error("command encoder", "err", err)
		return b.frameNum
	}
	defer enc.Release()

	cleared := false
	next := 0
	for _, id := range ids {
		start := next
		for next < len(b.draws) && b.draws[next].view == id {
			next++
		}
		b.encodeView(enc, target, id, start, next, !cleared)
		cleared = true
	}
	if b.debug&render.DebugText != 0 && b.text != nil {
		if err := b.text.encode(b.device, b.queue, enc, target, b.surfaceFormat); err != nil {
			b.log.Debug("text overlay skipped", "err", err)
		}
	}

	cmd, err := enc.Finish(nil)
	if err != nil {
		b.log.Error("finish command buffer", "err", err)
		return b.frameNum
	}
	defer cmd.Release()
	b.queue.Submit(cmd)
	b.surface.Present()
	return b.frameNum
}

// endFrame drops the frame's draws and touches.
func (b *Backend) endFrame() {
	b.draws = b.draws[:0]
	for i := range b.views {
		b.views[i].touched = false
	}
}

// encodeView records one render pass for view id covering b.draws[start:end].
// The first pass of a frame always clears so no stale swapchain contents are shown.
func (b *Backend) encodeView(enc *wgpu.CommandEncoder, target *wgpu.TextureView, id render.ViewID, start, end int, first bool) {
	v := &b.views[id]

	colorLoad := wgpu.LoadOpLoad
	if v.clear&render.ClearColor != 0 || first {
		colorLoad = wgpu.LoadOpClear
	}
	depthLoad := wgpu.LoadOpLoad
	if v.clear&render.ClearDepth != 0 || first {
		depthLoad = wgpu.LoadOpClear
	}
	r, g, bl, a := render.UnpackRGBA(v.clearColor)
	depth := v.clearDepth
	if v.clear&render.ClearDepth == 0 {
		depth = 1
	}

	pass := enc.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       target,
			LoadOp:     colorLoad,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{R: r, G: g, B: bl, A: a},
		}},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depthView,
			DepthLoadOp:     depthLoad,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: depth,
		},
	})
	defer pass.Release()

	if v.rectSet && v.w > 0 && v.h > 0 {
		x, y := uint32(v.x), uint32(v.y)
		w, h := min(uint32(v.w), b.width-min(x, b.width)), min(uint32(v.h), b.height-min(y, b.height))
		if w > 0 && h > 0 {
			pass.SetViewport(float32(x), float32(y), float32(w), float32(h), 0, 1)
		}
	}

	for slot := start; slot < end; slot++ {
		b.encodeDraw(pass, b.draws[slot], id, slot)
	}
	pass.End()
}

func (b *Backend) encodeDraw(pass *wgpu.RenderPassEncoder, d drawCall, id render.ViewID, slot int) {
	vb := b.vertexBufferAt(d.vb)
	if vb == nil {
		b.log.Debug("draw without vertex buffer", "view", id)
		return
	}
	p, err := b.pipeline(pipelineKey{program: d.program, state: d.state, layout: vb.layout})
	if err != nil {
		b.log.Debug("draw skipped", "view", id, "err", err)
		return
	}
	pass.SetPipeline(p)
	pass.SetBindGroup(0, b.viewGroup, []uint32{uint32(id) * uniformStride})
	pass.SetBindGroup(1, b.modelGroup, []uint32{uint32(slot) * uniformStride})
	pass.SetVertexBuffer(0, vb.buf, 0, wgpu.WholeSize)

	if ib := b.indexBufferAt(d.ib); ib != nil {
		pass.SetIndexBuffer(ib.buf, wgpu.IndexFormatUint16, 0, wgpu.WholeSize)
		pass.DrawIndexed(ib.count, 1, 0, 0, 0)
		return
	}
	count := uint32(vb.buf.GetSize()) / uint32(vb.layout.Stride())
	pass.Draw(count, 1, 0, 0)
}
