//go:build darwin

package webgpu

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/ebitengine/purego"
	"github.com/ebitengine/purego/objc"

	"cubes/internal/render"
)

var (
	quartzOnce sync.Once
	quartzErr  error
)

func loadQuartzCore() error {
	quartzOnce.Do(func() {
		_, quartzErr = purego.Dlopen("/System/Library/Frameworks/QuartzCore.framework/QuartzCore",
			purego.RTLD_LAZY|purego.RTLD_GLOBAL)
	})
	return quartzErr
}

// surfaceDescriptor attaches a CAMetalLayer to the NSWindow's content view.
func surfaceDescriptor(pd render.PlatformData) (*wgpu.SurfaceDescriptor, error) {
	if pd.NWH == 0 {
		return nil, errors.New("webgpu: missing window handle")
	}
	if err := loadQuartzCore(); err != nil {
		return nil, fmt.Errorf("webgpu: load QuartzCore: %w", err)
	}
	layer := objc.ID(objc.GetClass("CAMetalLayer")).Send(objc.RegisterName("layer"))
	if layer == 0 {
		return nil, errors.New("webgpu: CAMetalLayer unavailable")
	}
	view := objc.ID(pd.NWH).Send(objc.RegisterName("contentView"))
	view.Send(objc.RegisterName("setWantsLayer:"), true)
	view.Send(objc.RegisterName("setLayer:"), layer)

	return &wgpu.SurfaceDescriptor{
		MetalLayer: &wgpu.SurfaceDescriptorFromMetalLayer{
			Layer: unsafe.Pointer(layer),
		},
	}, nil
}
