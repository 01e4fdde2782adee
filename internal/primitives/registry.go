package primitives

import (
	"fmt"
	"math"

	"cubes/internal/render"
)

// Mesh is an uploaded vertex/index buffer pair.
type Mesh struct {
	VB         render.VertexBufferHandle
	IB         render.IndexBufferHandle
	IndexCount int
}

type geometry struct {
	vertices []byte
	indices  []byte
	count    int
	layout   func() *render.VertexLayout
}

var known = map[string]geometry{
	"cube": {
		vertices: VertexBytes(CubeVertices[:]),
		indices:  IndexBytes(CubeIndices[:]),
		count:    len(CubeIndices),
		layout:   CubeLayout,
	},
}

// Registry maps primitive names to uploaded meshes. Buffers are created on first use so that
// GPU resources are allocated after the renderer is initialized, and exactly once per name.
type Registry struct {
	r     render.Renderer
	cache map[string]Mesh
}

// NewRegistry returns a registry that uploads through r.
func NewRegistry(r render.Renderer) *Registry {
	return &Registry{r: r, cache: make(map[string]Mesh)}
}

// Mesh returns the uploaded mesh for name, creating its buffers if needed.
func (reg *Registry) Mesh(name string) (Mesh, error) {
	if m, ok := reg.cache[name]; ok {
		return m, nil
	}
	g, ok := known[name]
	if !ok {
		return Mesh{}, fmt.Errorf("primitives: unknown primitive %q", name)
	}
	vb, err := reg.r.CreateVertexBuffer(g.vertices, g.layout())
	if err != nil {
		return Mesh{}, fmt.Errorf("primitives: %s vertex buffer: %w", name, err)
	}
	ib, err := reg.r.CreateIndexBuffer(g.indices)
	if err != nil {
		return Mesh{}, fmt.Errorf("primitives: %s index buffer: %w", name, err)
	}
	m := Mesh{VB: vb, IB: ib, IndexCount: g.count}
	reg.cache[name] = m
	return m, nil
}

func float32bits(f float32) uint32 { return math.Float32bits(f) }
