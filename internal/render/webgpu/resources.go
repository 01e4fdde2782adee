package webgpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"cubes/internal/render"
)

// align4 rounds n up to the copy alignment wgpu requires for buffer writes.
func align4(n int) int {
	return (n + 3) &^ 3
}

func (b *Backend) createBuffer(label string, data []byte, usage wgpu.BufferUsage) (*wgpu.Buffer, error) {
	size := align4(len(data))
	if size == 0 {
		return nil, fmt.Errorf("webgpu: %s is empty", label)
	}
	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  uint64(size),
		Usage: usage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("webgpu: create %s: %w", label, err)
	}
	if size != len(data) {
		padded := make([]byte, size)
		copy(padded, data)
		data = padded
	}
	b.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

func (b *Backend) CreateVertexBuffer(data []byte, layout *render.VertexLayout) (render.VertexBufferHandle, error) {
	if !b.ready {
		return render.InvalidHandle, errNotInitialized
	}
	if layout == nil || layout.Stride() == 0 {
		return render.InvalidHandle, fmt.Errorf("webgpu: vertex buffer without layout")
	}
	if _, err := vertexBufferLayout(layout); err != nil {
		return render.InvalidHandle, err
	}
	buf, err := b.createBuffer("vertex buffer", data, wgpu.BufferUsageVertex)
	if err != nil {
		return render.InvalidHandle, err
	}
	b.vertexBuffers = append(b.vertexBuffers, &vertexBuffer{buf: buf, layout: layout})
	return render.VertexBufferHandle(len(b.vertexBuffers) - 1), nil
}

// CreateIndexBuffer uploads 16-bit indices.
func (b *Backend) CreateIndexBuffer(data []byte) (render.IndexBufferHandle, error) {
	if !b.ready {
		return render.InvalidHandle, errNotInitialized
	}
	if len(data)%2 != 0 {
		return render.InvalidHandle, fmt.Errorf("webgpu: index data length %d is not a multiple of 2", len(data))
	}
	buf, err := b.createBuffer("index buffer", data, wgpu.BufferUsageIndex)
	if err != nil {
		return render.InvalidHandle, err
	}
	b.indexBuffers = append(b.indexBuffers, &indexBuffer{buf: buf, count: uint32(len(data) / 2)})
	return render.IndexBufferHandle(len(b.indexBuffers) - 1), nil
}

func (b *Backend) CreateShader(blob []byte) (render.ShaderHandle, error) {
	if !b.ready {
		return render.InvalidHandle, errNotInitialized
	}
	src, err := decodeBlob(blob)
	if err != nil {
		return render.InvalidHandle, err
	}
	label := fmt.Sprintf("shader %d", len(b.shaders))
	mod, err := b.device.CreateShaderModule(src.descriptor(label))
	if err != nil {
		return render.InvalidHandle, fmt.Errorf("webgpu: %s: %w", label, err)
	}
	b.shaders = append(b.shaders, mod)
	return render.ShaderHandle(len(b.shaders) - 1), nil
}

func (b *Backend) DestroyShader(h render.ShaderHandle) {
	if m := b.shaderAt(h); m != nil {
		m.Release()
		b.shaders[h] = nil
	}
}

// CreateProgram pairs two shader modules. With destroyShaders the handles are
// invalidated and the modules are owned by the program.
func (b *Backend) CreateProgram(vs, fs render.ShaderHandle, destroyShaders bool) (render.ProgramHandle, error) {
	if !b.ready {
		return render.InvalidHandle, errNotInitialized
	}
	vm, fm := b.shaderAt(vs), b.shaderAt(fs)
	if vm == nil || fm == nil {
		return render.InvalidHandle, fmt.Errorf("webgpu: invalid shader handles %d, %d", vs, fs)
	}
	if destroyShaders {
		b.shaders[vs], b.shaders[fs] = nil, nil
	}
	b.programs = append(b.programs, &program{vs: vm, fs: fm, owned: destroyShaders})
	return render.ProgramHandle(len(b.programs) - 1), nil
}

func (b *Backend) shaderAt(h render.ShaderHandle) *wgpu.ShaderModule {
	if int(h) >= len(b.shaders) {
		return nil
	}
	return b.shaders[h]
}

func (b *Backend) programAt(h render.ProgramHandle) *program {
	if int(h) >= len(b.programs) {
		return nil
	}
	return b.programs[h]
}

func (b *Backend) vertexBufferAt(h render.VertexBufferHandle) *vertexBuffer {
	if int(h) >= len(b.vertexBuffers) {
		return nil
	}
	return b.vertexBuffers[h]
}

func (b *Backend) indexBufferAt(h render.IndexBufferHandle) *indexBuffer {
	if int(h) >= len(b.indexBuffers) {
		return nil
	}
	return b.indexBuffers[h]
}
