//go:build (linux || freebsd || netbsd || openbsd) && wayland

package glfwwindow

import (
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"

	"cubes/internal/platform"
)

func nativeHandle(w *glfw.Window) (platform.NativeHandle, error) {
	return platform.WaylandHandle{
		Display: unsafe.Pointer(glfw.GetWaylandDisplay()),
		Surface: uintptr(unsafe.Pointer(w.GetWaylandWindow())),
	}, nil
}
