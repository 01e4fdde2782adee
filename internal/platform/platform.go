// Package platform turns native window handles into renderer platform data and picks the
// render backend for the host OS.
package platform

import (
	"errors"
	"fmt"
	"unsafe"

	"cubes/internal/render"
)

// ErrUnsupportedWindowManager is returned for native handles the renderer cannot target.
var ErrUnsupportedWindowManager = errors.New("platform: unsupported window manager")

// NativeHandle is a raw window handle. The set of variants is closed.
type NativeHandle interface {
	nativeHandle()
}

// X11Handle is an Xlib window on an X display.
type X11Handle struct {
	Display unsafe.Pointer
	Window  uintptr
}

// WaylandHandle is a Wayland surface. The surface stands in for the window handle.
type WaylandHandle struct {
	Display unsafe.Pointer
	Surface uintptr
}

// Win32Handle is a Windows HWND.
type Win32Handle struct {
	HWND uintptr
}

// AppKitHandle is a Cocoa NSWindow.
type AppKitHandle struct {
	NSWindow uintptr
}

func (X11Handle) nativeHandle()     {}
func (WaylandHandle) nativeHandle() {}
func (Win32Handle) nativeHandle()   {}
func (AppKitHandle) nativeHandle()  {}

// unixLike lists the GOOS values that run X11 or Wayland desktops.
var unixLike = map[string]bool{
	"linux":     true,
	"freebsd":   true,
	"openbsd":   true,
	"netbsd":    true,
	"dragonfly": true,
}

// PlatformData converts h for the renderer. The variant must be valid on goos.
func PlatformData(h NativeHandle, goos string) (render.PlatformData, error) {
	switch v := h.(type) {
	case X11Handle:
		if unixLike[goos] {
			return render.PlatformData{NDT: v.Display, NWH: v.Window}, nil
		}
	case WaylandHandle:
		if unixLike[goos] {
			return render.PlatformData{
				NDT:  v.Display,
				NWH:  v.Surface,
				Type: render.NativeWindowWayland,
			}, nil
		}
	case Win32Handle:
		if goos == "windows" {
			return render.PlatformData{NWH: v.HWND}, nil
		}
	case AppKitHandle:
		if goos == "darwin" {
			return render.PlatformData{NWH: v.NSWindow}, nil
		}
	}
	return render.PlatformData{}, fmt.Errorf("%w: %T on %s", ErrUnsupportedWindowManager, h, goos)
}

// BackendKind returns the render backend used on goos.
func BackendKind(goos string) render.BackendKind {
	switch goos {
	case "darwin", "ios":
		return render.Metal
	case "windows":
		return render.Direct3D
	default:
		return render.Vulkan
	}
}
