//go:build !windows && !darwin

package webgpu

import (
	"errors"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"

	"cubes/internal/render"
)

func surfaceDescriptor(pd render.PlatformData) (*wgpu.SurfaceDescriptor, error) {
	if pd.NDT == nil || pd.NWH == 0 {
		return nil, errors.New("webgpu: missing display or window handle")
	}
	if pd.Type == render.NativeWindowWayland {
		return &wgpu.SurfaceDescriptor{
			WaylandSurface: &wgpu.SurfaceDescriptorFromWaylandSurface{
				Display: pd.NDT,
				Surface: unsafe.Pointer(pd.NWH),
			},
		}, nil
	}
	return &wgpu.SurfaceDescriptor{
		XlibWindow: &wgpu.SurfaceDescriptorFromXlibWindow{
			Display: pd.NDT,
			Window:  uint32(pd.NWH),
		},
	}, nil
}
