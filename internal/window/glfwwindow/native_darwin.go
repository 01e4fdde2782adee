//go:build darwin

package glfwwindow

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"cubes/internal/platform"
)

func nativeHandle(w *glfw.Window) (platform.NativeHandle, error) {
	return platform.AppKitHandle{NSWindow: uintptr(w.GetCocoaWindow())}, nil
}
