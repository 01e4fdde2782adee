package webgpu

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"cubes/internal/render"
)

// spirvMagic is the first word of every SPIR-V module.
const spirvMagic = 0x07230203

var errEmptyBlob = errors.New("webgpu: empty shader blob")

// shaderSource is a decoded shader blob: either SPIR-V words or WGSL text.
type shaderSource struct {
	spirv []uint32
	wgsl  string
}

// decodeBlob interprets a shader blob as loaded from disk, including the trailing zero
// terminator. SPIR-V is recognised by its magic number; anything else is WGSL text.
func decodeBlob(blob []byte) (shaderSource, error) {
	if len(blob) >= 4 && binary.LittleEndian.Uint32(blob) == spirvMagic {
		words := make([]uint32, len(blob)/4)
		for i := range words {
			words[i] = binary.LittleEndian.Uint32(blob[i*4:])
		}
		return shaderSource{spirv: words}, nil
	}
	text := bytes.TrimRight(blob, "\x00")
	if len(bytes.TrimSpace(text)) == 0 {
		return shaderSource{}, errEmptyBlob
	}
	return shaderSource{wgsl: string(text)}, nil
}

func (s shaderSource) descriptor(label string) *wgpu.ShaderModuleDescriptor {
	if s.spirv != nil {
		return &wgpu.ShaderModuleDescriptor{
			Label:           label,
			SPIRVDescriptor: &wgpu.ShaderModuleSPIRVDescriptor{Code: s.spirv},
		}
	}
	return &wgpu.ShaderModuleDescriptor{
		Label:          label,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: s.wgsl},
	}
}

// backendType maps a render backend kind to the wgpu adapter backend.
func backendType(kind render.BackendKind) (wgpu.BackendType, error) {
	switch kind {
	case render.Vulkan:
		return wgpu.BackendTypeVulkan, nil
	case render.Metal:
		return wgpu.BackendTypeMetal, nil
	case render.Direct3D:
		return wgpu.BackendTypeD3D12, nil
	case render.OpenGL:
		return wgpu.BackendTypeOpenGL, nil
	case render.OpenGLES:
		return wgpu.BackendTypeOpenGLES, nil
	}
	return wgpu.BackendTypeUndefined, fmt.Errorf("webgpu: no adapter backend for %s", kind)
}
