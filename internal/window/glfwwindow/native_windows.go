//go:build windows

package glfwwindow

import (
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"

	"cubes/internal/platform"
)

func nativeHandle(w *glfw.Window) (platform.NativeHandle, error) {
	return platform.Win32Handle{HWND: uintptr(unsafe.Pointer(w.GetWin32Window()))}, nil
}
