// Package webgpu implements render.Renderer on top of wgpu-native.
//
// Draw calls are recorded between frames and encoded into a single command buffer by Frame.
// Per-draw model matrices live in one dynamic-offset uniform buffer, view matrices in another.
package webgpu

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"

	"cubes/internal/render"
)

const (
	// entryPoint is the entry function name of every cube shader stage.
	entryPoint = "main"
	// uniformStride is the dynamic offset granularity (minUniformBufferOffsetAlignment).
	uniformStride = 256
	// maxViews bounds the view uniform buffer.
	maxViews = 16
	// initialDraws is the starting capacity of the model uniform buffer.
	initialDraws = 2048

	viewUniformSize  = 3 * 64
	modelUniformSize = 64
)

var errNotInitialized = errors.New("webgpu: backend not initialized")

type vertexBuffer struct {
	buf    *wgpu.Buffer
	layout *render.VertexLayout
}

type indexBuffer struct {
	buf   *wgpu.Buffer
	count uint32
}

type program struct {
	vs, fs *wgpu.ShaderModule
	// owned modules are released with the program rather than with the shader table.
	owned bool
}

type view struct {
	clear       render.ClearFlags
	clearColor  uint32
	clearDepth  float32
	x, y        uint16
	w, h        uint16
	rectSet     bool
	viewMtx     mgl32.Mat4
	proj        mgl32.Mat4
	touched     bool
	transformed bool
}

type drawCall struct {
	view      render.ViewID
	program   render.ProgramHandle
	state     render.StateFlags
	vb        render.VertexBufferHandle
	ib        render.IndexBufferHandle
	transform mgl32.Mat4
}

// Backend is a wgpu renderer. Create it with New and hand it to a render.Lifecycle.
type Backend struct {
	log *slog.Logger

	kind      render.BackendKind
	debug     render.DebugFlags
	reset     render.ResetFlags
	width     uint32
	height    uint32
	frameNum  uint32
	ready     bool
	instance  *wgpu.Instance
	surface   *wgpu.Surface
	adapter   *wgpu.Adapter
	device    *wgpu.Device
	queue     *wgpu.Queue
	alphaMode wgpu.CompositeAlphaMode

	surfaceFormat wgpu.TextureFormat
	depthTex      *wgpu.Texture
	depthView     *wgpu.TextureView

	viewLayout     *wgpu.BindGroupLayout
	modelLayout    *wgpu.BindGroupLayout
	pipelineLayout *wgpu.PipelineLayout
	viewBuf        *wgpu.Buffer
	viewGroup      *wgpu.BindGroup
	modelBuf       *wgpu.Buffer
	modelGroup     *wgpu.BindGroup
	modelCap       int

	vertexBuffers []*vertexBuffer
	indexBuffers  []*indexBuffer
	shaders       []*wgpu.ShaderModule
	programs      []*program
	pipelines     map[pipelineKey]*wgpu.RenderPipeline

	views   [maxViews]view
	pending drawCall
	draws   []drawCall

	text *textLayer
}

var _ render.Renderer = (*Backend)(nil)

// New returns an uninitialized backend. A nil logger discards output.
func New(log *slog.Logger) *Backend {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Backend{log: log, pending: newDraw()}
}

func (b *Backend) Type() render.BackendKind { return b.kind }

// Init creates the surface for cfg.PlatformData and a device on the requested backend.
func (b *Backend) Init(cfg render.InitConfig) error {
	bt, err := backendType(cfg.Type)
	if err != nil {
		return err
	}
	desc, err := surfaceDescriptor(cfg.PlatformData)
	if err != nil {
		return err
	}

	b.instance = wgpu.CreateInstance(nil)
	b.surface = b.instance.CreateSurface(desc)

	b.adapter, err = b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: b.surface,
		BackendType:       bt,
	})
	if err != nil {
		b.release()
		return fmt.Errorf("webgpu: request adapter: %w", err)
	}
	b.device, err = b.adapter.RequestDevice(&wgpu.DeviceDescriptor{Label: "cubes device"})
	if err != nil {
		b.release()
		return fmt.Errorf("webgpu: request device: %w", err)
	}
	b.queue = b.device.GetQueue()

	caps := b.surface.GetCapabilities(b.adapter)
	if len(caps.Formats) == 0 {
		b.release()
		return errors.New("webgpu: surface reports no formats")
	}
	b.surfaceFormat = caps.Formats[0]
	b.alphaMode = wgpu.CompositeAlphaModeAuto
	if len(caps.AlphaModes) > 0 {
		b.alphaMode = caps.AlphaModes[0]
	}

	b.kind = cfg.Type
	b.pipelines = make(map[pipelineKey]*wgpu.RenderPipeline)
	if err := b.createUniforms(); err != nil {
		b.release()
		return err
	}
	b.text = newTextLayer(b.log)
	if err := b.configure(cfg.Resolution.Width, cfg.Resolution.Height, cfg.Resolution.Reset); err != nil {
		b.release()
		return err
	}
	b.pending = newDraw()
	b.ready = true
	b.log.Debug("webgpu device ready", "backend", cfg.Type, "format", b.surfaceFormat)
	return nil
}

// configure (re)configures the surface and depth buffer for a new size.
func (b *Backend) configure(width, height uint32, flags render.ResetFlags) error {
	b.width, b.height, b.reset = width, height, flags
	b.text.resize(width, height)
	if width == 0 || height == 0 {
		// minimized; nothing can be presented until the next reset
		return nil
	}

	mode := wgpu.PresentModeImmediate
	if flags&render.ResetVSync != 0 {
		mode = wgpu.PresentModeFifo
	}
	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.surfaceFormat,
		Width:       width,
		Height:      height,
		PresentMode: mode,
		AlphaMode:   b.alphaMode,
	})

	if b.depthView != nil {
		b.depthView.Release()
		b.depthTex.Release()
	}
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "depth",
		Size: wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        depthFormat,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return fmt.Errorf("webgpu: depth texture: %w", err)
	}
	dv, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return fmt.Errorf("webgpu: depth view: %w", err)
	}
	b.depthTex, b.depthView = tex, dv
	return nil
}

func (b *Backend) createUniforms() error {
	var err error
	b.viewLayout, err = b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "view uniforms",
		Entries: []wgpu.BindGroupLayoutEntry{{
			Binding:    0,
			Visibility: wgpu.ShaderStageVertex,
			Buffer: wgpu.BufferBindingLayout{
				Type:             wgpu.BufferBindingTypeUniform,
				HasDynamicOffset: true,
				MinBindingSize:   viewUniformSize,
			},
		}},
	})
	if err != nil {
		return fmt.Errorf("webgpu: view layout: %w", err)
	}
	b.modelLayout, err = b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "model uniforms",
		Entries: []wgpu.BindGroupLayoutEntry{{
			Binding:    0,
			Visibility: wgpu.ShaderStageVertex,
			Buffer: wgpu.BufferBindingLayout{
				Type:             wgpu.BufferBindingTypeUniform,
				HasDynamicOffset: true,
				MinBindingSize:   modelUniformSize,
			},
		}},
	})
	if err != nil {
		return fmt.Errorf("webgpu: model layout: %w", err)
	}
	b.pipelineLayout, err = b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "cubes",
		BindGroupLayouts: []*wgpu.BindGroupLayout{b.viewLayout, b.modelLayout},
	})
	if err != nil {
		return fmt.Errorf("webgpu: pipeline layout: %w", err)
	}

	b.viewBuf, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "view uniforms",
		Size:  maxViews * uniformStride,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("webgpu: view buffer: %w", err)
	}
	b.viewGroup, err = b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "view uniforms",
		Layout: b.viewLayout,
		Entries: []wgpu.BindGroupEntry{{
			Binding: 0,
			Buffer:  b.viewBuf,
			Size:    viewUniformSize,
		}},
	})
	if err != nil {
		return fmt.Errorf("webgpu: view bind group: %w", err)
	}
	return b.growModels(initialDraws)
}

// growModels makes room for n per-draw transforms.
func (b *Backend) growModels(n int) error {
	if n <= b.modelCap {
		return nil
	}
	capacity := b.modelCap
	if capacity == 0 {
		capacity = initialDraws
	}
	for capacity < n {
		capacity *= 2
	}
	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "model uniforms",
		Size:  uint64(capacity) * uniformStride,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("webgpu: model buffer: %w", err)
	}
	group, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "model uniforms",
		Layout: b.modelLayout,
		Entries: []wgpu.BindGroupEntry{{
			Binding: 0,
			Buffer:  buf,
			Size:    modelUniformSize,
		}},
	})
	if err != nil {
		buf.Release()
		return fmt.Errorf("webgpu: model bind group: %w", err)
	}
	if b.modelBuf != nil {
		b.modelGroup.Release()
		b.modelBuf.Release()
	}
	b.modelBuf, b.modelGroup, b.modelCap = buf, group, capacity
	b.log.Debug("model uniforms resized", "draws", capacity)
	return nil
}

func (b *Backend) SetDebug(flags render.DebugFlags) {
	b.debug = flags
}

// Reset resizes the backbuffer. Draws recorded for the current frame are kept.
func (b *Backend) Reset(width, height uint32, flags render.ResetFlags) {
	if !b.ready {
		return
	}
	if err := b.configure(width, height, flags); err != nil {
		b.log.Error("reset failed", "width", width, "height", height, "err", err)
	}
}

// Shutdown releases every GPU object.
func (b *Backend) Shutdown() {
	b.ready = false
	b.release()
}

func (b *Backend) release() {
	for _, p := range b.pipelines {
		p.Release()
	}
	b.pipelines = nil
	for _, p := range b.programs {
		if p != nil && p.owned {
			p.vs.Release()
			p.fs.Release()
		}
	}
	b.programs = nil
	for _, s := range b.shaders {
		if s != nil {
			s.Release()
		}
	}
	b.shaders = nil
	for _, vb := range b.vertexBuffers {
		if vb != nil {
			vb.buf.Release()
		}
	}
	b.vertexBuffers = nil
	for _, ib := range b.indexBuffers {
		if ib != nil {
			ib.buf.Release()
		}
	}
	b.indexBuffers = nil

	if b.text != nil {
		b.text.release()
		b.text = nil
	}
	if b.modelGroup != nil {
		b.modelGroup.Release()
		b.modelBuf.Release()
	}
	if b.viewGroup != nil {
		b.viewGroup.Release()
	}
	if b.viewBuf != nil {
		b.viewBuf.Release()
	}
	if b.pipelineLayout != nil {
		b.pipelineLayout.Release()
	}
	if b.modelLayout != nil {
		b.modelLayout.Release()
	}
	if b.viewLayout != nil {
		b.viewLayout.Release()
	}
	if b.depthView != nil {
		b.depthView.Release()
		b.depthTex.Release()
	}
	if b.queue != nil {
		b.queue.Release()
	}
	if b.device != nil {
		b.device.Release()
	}
	if b.adapter != nil {
		b.adapter.Release()
	}
	if b.surface != nil {
		b.surface.Release()
	}
	if b.instance != nil {
		b.instance.Release()
	}
	b.modelGroup, b.modelBuf, b.modelCap = nil, nil, 0
	b.viewGroup, b.viewBuf = nil, nil
	b.pipelineLayout, b.modelLayout, b.viewLayout = nil, nil, nil
	b.depthView, b.depthTex = nil, nil
	b.queue, b.device, b.adapter, b.surface, b.instance = nil, nil, nil, nil, nil
}
