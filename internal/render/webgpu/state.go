package webgpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"cubes/internal/render"
)

const depthFormat = wgpu.TextureFormatDepth24Plus

// Shader locations per attribute semantic. The cube shaders declare the same locations.
var attribLocation = map[render.Attrib]uint32{
	render.AttribPosition:  0,
	render.AttribColor0:    1,
	render.AttribTexCoord0: 2,
}

func vertexFormat(a render.VertexAttribute) (wgpu.VertexFormat, error) {
	switch a.Type {
	case render.AttribFloat:
		switch a.Num {
		case 1:
			return wgpu.VertexFormatFloat32, nil
		case 2:
			return wgpu.VertexFormatFloat32x2, nil
		case 3:
			return wgpu.VertexFormatFloat32x3, nil
		case 4:
			return wgpu.VertexFormatFloat32x4, nil
		}
	case render.AttribUint8:
		switch {
		case a.Num == 4 && a.Normalized:
			return wgpu.VertexFormatUnorm8x4, nil
		case a.Num == 4:
			return wgpu.VertexFormatUint8x4, nil
		case a.Num == 2 && a.Normalized:
			return wgpu.VertexFormatUnorm8x2, nil
		case a.Num == 2:
			return wgpu.VertexFormatUint8x2, nil
		}
	}
	return wgpu.VertexFormatUndefined, fmt.Errorf("webgpu: unsupported %s attribute with %d components", a.Attrib, a.Num)
}

// vertexBufferLayout converts a render.VertexLayout.
func vertexBufferLayout(l *render.VertexLayout) (wgpu.VertexBufferLayout, error) {
	attrs := l.Attributes()
	out := make([]wgpu.VertexAttribute, 0, len(attrs))
	for _, a := range attrs {
		f, err := vertexFormat(a)
		if err != nil {
			return wgpu.VertexBufferLayout{}, err
		}
		out = append(out, wgpu.VertexAttribute{
			Format:         f,
			Offset:         uint64(a.Offset),
			ShaderLocation: attribLocation[a.Attrib],
		})
	}
	return wgpu.VertexBufferLayout{
		ArrayStride: uint64(l.Stride()),
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes:  out,
	}, nil
}

// primitiveState maps the cull flags. Cull CW keeps counter-clockwise triangles.
func primitiveState(s render.StateFlags) wgpu.PrimitiveState {
	ps := wgpu.PrimitiveState{
		Topology:  wgpu.PrimitiveTopologyTriangleList,
		FrontFace: wgpu.FrontFaceCCW,
		CullMode:  wgpu.CullModeNone,
	}
	switch {
	case s.Has(render.StateCullCW):
		ps.CullMode = wgpu.CullModeBack
	case s.Has(render.StateCullCCW):
		ps.FrontFace = wgpu.FrontFaceCW
		ps.CullMode = wgpu.CullModeBack
	}
	return ps
}

func depthStencilState(s render.StateFlags) *wgpu.DepthStencilState {
	compare := wgpu.CompareFunctionAlways
	if s.Has(render.StateDepthTestLess) {
		compare = wgpu.CompareFunctionLess
	}
	return &wgpu.DepthStencilState{
		Format:            depthFormat,
		DepthWriteEnabled: s.Has(render.StateWriteZ),
		DepthCompare:      compare,
		StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
	}
}

func writeMask(s render.StateFlags) wgpu.ColorWriteMask {
	m := wgpu.ColorWriteMaskNone
	if s.Has(render.StateWriteR) {
		m |= wgpu.ColorWriteMaskRed
	}
	if s.Has(render.StateWriteG) {
		m |= wgpu.ColorWriteMaskGreen
	}
	if s.Has(render.StateWriteB) {
		m |= wgpu.ColorWriteMaskBlue
	}
	if s.Has(render.StateWriteA) {
		m |= wgpu.ColorWriteMaskAlpha
	}
	return m
}

// pipelineKey identifies a cached render pipeline.
type pipelineKey struct {
	program render.ProgramHandle
	state   render.StateFlags
	layout  *render.VertexLayout
}

// pipeline returns the cached pipeline for k, building it on first use.
func (b *Backend) pipeline(k pipelineKey) (*wgpu.RenderPipeline, error) {
	if p, ok := b.pipelines[k]; ok {
		return p, nil
	}
	prog := b.programAt(k.program)
	if prog == nil {
		return nil, fmt.Errorf("webgpu: invalid program %d", k.program)
	}
	vbl, err := vertexBufferLayout(k.layout)
	if err != nil {
		return nil, err
	}
	p, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  fmt.Sprintf("program %d state %#x", k.program, uint64(k.state)),
		Layout: b.pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     prog.vs,
			EntryPoint: entryPoint,
			Buffers:    []wgpu.VertexBufferLayout{vbl},
		},
		Fragment: &wgpu.FragmentState{
			Module:     prog.fs,
			EntryPoint: entryPoint,
			Targets: []wgpu.ColorTargetState{{
				Format:    b.surfaceFormat,
				WriteMask: writeMask(k.state),
			}},
		},
		Primitive:    primitiveState(k.state),
		DepthStencil: depthStencilState(k.state),
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("webgpu: create pipeline: %w", err)
	}
	b.pipelines[k] = p
	return p, nil
}
