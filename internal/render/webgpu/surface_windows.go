//go:build windows

package webgpu

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
	"golang.org/x/sys/windows"

	"cubes/internal/render"
)

func surfaceDescriptor(pd render.PlatformData) (*wgpu.SurfaceDescriptor, error) {
	if pd.NWH == 0 {
		return nil, errors.New("webgpu: missing window handle")
	}
	var module windows.Handle
	if err := windows.GetModuleHandleEx(0, nil, &module); err != nil {
		return nil, fmt.Errorf("webgpu: module handle: %w", err)
	}
	return &wgpu.SurfaceDescriptor{
		WindowsHWND: &wgpu.SurfaceDescriptorFromWindowsHWND{
			Hinstance: unsafe.Pointer(module),
			Hwnd:      unsafe.Pointer(pd.NWH),
		},
	}, nil
}
