package webgpu

import (
	_ "embed"
	"fmt"
	"image"
	"image/draw"
	"log/slog"

	"github.com/cogentcore/webgpu/wgpu"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"cubes/internal/render"
)

//go:embed text.wgsl
var textShader string

// glyphBaseline is the baseline offset of basicfont.Face7x13 inside a text cell.
const glyphBaseline = 12

// textLayer owns the debug text grid and the GPU objects that draw it over the frame.
type textLayer struct {
	log  *slog.Logger
	buf  *render.TextBuffer
	img  *image.RGBA
	last []render.TextCell

	tex       *wgpu.Texture
	texView   *wgpu.TextureView
	sampler   *wgpu.Sampler
	layout    *wgpu.BindGroupLayout
	pipeline  *wgpu.RenderPipeline
	bindGroup *wgpu.BindGroup
	format    wgpu.TextureFormat
}

func newTextLayer(log *slog.Logger) *textLayer {
	return &textLayer{log: log, buf: render.NewTextBuffer(0, 0)}
}

func (t *textLayer) resize(width, height uint32) {
	t.buf.Resize(width, height)
	t.last = nil
}

func (t *textLayer) printf(x, y int, attr uint8, format string, args ...any) {
	t.buf.Print(x, y, attr, fmt.Sprintf(format, args...))
}

// snapshot copies the grid so later frames can skip unchanged uploads.
func snapshot(buf *render.TextBuffer) []render.TextCell {
	cells := make([]render.TextCell, 0, buf.Cols()*buf.Rows())
	for y := 0; y < buf.Rows(); y++ {
		for x := 0; x < buf.Cols(); x++ {
			cells = append(cells, buf.Cell(x, y))
		}
	}
	return cells
}

func sameCells(a, b []render.TextCell) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// rasterize draws the grid into img. Background colour 0 is transparent so the scene shows through.
func rasterize(img *image.RGBA, buf *render.TextBuffer) {
	draw.Draw(img, img.Bounds(), image.Transparent, image.Point{}, draw.Src)
	d := &font.Drawer{Dst: img, Face: basicfont.Face7x13}
	for y := 0; y < buf.Rows(); y++ {
		for x := 0; x < buf.Cols(); x++ {
			c := buf.Cell(x, y)
			if c.Empty() {
				continue
			}
			if bg := c.Attr >> 4; bg != 0 {
				cell := image.Rect(x*render.TextCellWidth, y*render.TextCellHeight,
					(x+1)*render.TextCellWidth, (y+1)*render.TextCellHeight)
				draw.Draw(img, cell, image.NewUniform(render.TextPalette[bg]), image.Point{}, draw.Src)
			}
			if c.Ch == ' ' || c.Ch == 0 {
				continue
			}
			d.Src = image.NewUniform(render.TextPalette[c.Attr&0x0f])
			d.Dot = fixed.P(x*render.TextCellWidth, y*render.TextCellHeight+glyphBaseline)
			d.DrawString(string(c.Ch))
		}
	}
}

// encode uploads the grid when it changed and records an overlay pass onto target.
func (t *textLayer) encode(dev *wgpu.Device, q *wgpu.Queue, enc *wgpu.CommandEncoder, target *wgpu.TextureView, format wgpu.TextureFormat) error {
	if !t.buf.Dirty() {
		return nil
	}
	w, h := t.buf.Cols()*render.TextCellWidth, t.buf.Rows()*render.TextCellHeight
	if w == 0 || h == 0 {
		return nil
	}
	if err := t.ensurePipeline(dev, format); err != nil {
		return err
	}
	if t.img == nil || t.img.Bounds().Dx() != w || t.img.Bounds().Dy() != h {
		if err := t.createTexture(dev, w, h); err != nil {
			return err
		}
	}

	cells := snapshot(t.buf)
	if !sameCells(cells, t.last) {
		rasterize(t.img, t.buf)
		q.WriteTexture(
			&wgpu.ImageCopyTexture{Texture: t.tex, Aspect: wgpu.TextureAspectAll},
			t.img.Pix,
			&wgpu.TextureDataLayout{BytesPerRow: uint32(t.img.Stride), RowsPerImage: uint32(h)},
			&wgpu.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
		)
		t.last = cells
	}

	pass := enc.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:    target,
			LoadOp:  wgpu.LoadOpLoad,
			StoreOp: wgpu.StoreOpStore,
		}},
	})
	defer pass.Release()
	pass.SetPipeline(t.pipeline)
	pass.SetBindGroup(0, t.bindGroup, nil)
	pass.SetViewport(0, 0, float32(w), float32(h), 0, 1)
	pass.Draw(3, 1, 0, 0)
	pass.End()
	return nil
}

func (t *textLayer) ensurePipeline(dev *wgpu.Device, format wgpu.TextureFormat) error {
	if t.pipeline != nil && t.format == format {
		return nil
	}
	if t.pipeline != nil {
		t.pipeline.Release()
		t.pipeline = nil
	}
	var err error
	if t.layout == nil {
		t.layout, err = dev.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
			Label: "debug text",
			Entries: []wgpu.BindGroupLayoutEntry{
				{
					Binding:    0,
					Visibility: wgpu.ShaderStageFragment,
					Texture: wgpu.TextureBindingLayout{
						SampleType:    wgpu.TextureSampleTypeFloat,
						ViewDimension: wgpu.TextureViewDimension2D,
					},
				},
				{
					Binding:    1,
					Visibility: wgpu.ShaderStageFragment,
					Sampler:    wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeFiltering},
				},
			},
		})
		if err != nil {
			return fmt.Errorf("webgpu: text layout: %w", err)
		}
	}
	if t.sampler == nil {
		t.sampler, err = dev.CreateSampler(&wgpu.SamplerDescriptor{
			AddressModeU:  wgpu.AddressModeClampToEdge,
			AddressModeV:  wgpu.AddressModeClampToEdge,
			AddressModeW:  wgpu.AddressModeClampToEdge,
			MagFilter:     wgpu.FilterModeNearest,
			MinFilter:     wgpu.FilterModeNearest,
			MipmapFilter:  wgpu.MipmapFilterModeNearest,
			LodMaxClamp:   32,
			MaxAnisotropy: 1,
		})
		if err != nil {
			return fmt.Errorf("webgpu: text sampler: %w", err)
		}
	}

	mod, err := dev.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "debug text",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: textShader},
	})
	if err != nil {
		return fmt.Errorf("webgpu: text shader: %w", err)
	}
	defer mod.Release()

	pl, err := dev.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "debug text",
		BindGroupLayouts: []*wgpu.BindGroupLayout{t.layout},
	})
	if err != nil {
		return fmt.Errorf("webgpu: text pipeline layout: %w", err)
	}
	defer pl.Release()

	blend := wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorSrcAlpha,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		Operation: wgpu.BlendOperationAdd,
	}
	t.pipeline, err = dev.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "debug text",
		Layout: pl,
		Vertex: wgpu.VertexState{Module: mod, EntryPoint: "vs_main"},
		Fragment: &wgpu.FragmentState{
			Module:     mod,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format: format,
				Blend: &wgpu.BlendState{
					Color: blend,
					Alpha: wgpu.BlendComponent{
						SrcFactor: wgpu.BlendFactorOne,
						DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						Operation: wgpu.BlendOperationAdd,
					},
				},
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology: wgpu.PrimitiveTopologyTriangleList,
			CullMode: wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{Count: 1, Mask: 0xFFFFFFFF},
	})
	if err != nil {
		return fmt.Errorf("webgpu: text pipeline: %w", err)
	}
	t.format = format
	return nil
}

func (t *textLayer) createTexture(dev *wgpu.Device, w, h int) error {
	t.releaseTexture()
	tex, err := dev.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "debug text",
		Size:          wgpu.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8Unorm,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("webgpu: text texture: %w", err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return fmt.Errorf("webgpu: text texture view: %w", err)
	}
	group, err := dev.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "debug text",
		Layout: t.layout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: view},
			{Binding: 1, Sampler: t.sampler},
		},
	})
	if err != nil {
		view.Release()
		tex.Release()
		return fmt.Errorf("webgpu: text bind group: %w", err)
	}
	t.tex, t.texView, t.bindGroup = tex, view, group
	t.img = image.NewRGBA(image.Rect(0, 0, w, h))
	t.last = nil
	t.log.Debug("debug text texture", "width", w, "height", h)
	return nil
}

func (t *textLayer) releaseTexture() {
	if t.bindGroup != nil {
		t.bindGroup.Release()
		t.texView.Release()
		t.tex.Release()
		t.bindGroup, t.texView, t.tex = nil, nil, nil
	}
	t.img = nil
}

func (t *textLayer) release() {
	t.releaseTexture()
	if t.pipeline != nil {
		t.pipeline.Release()
		t.pipeline = nil
	}
	if t.sampler != nil {
		t.sampler.Release()
		t.sampler = nil
	}
	if t.layout != nil {
		t.layout.Release()
		t.layout = nil
	}
}
