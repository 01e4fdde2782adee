// Command cubes renders a rotating 11x11x11 grid of cubes.
package main

//go:generate go run ../shaderc -src ../../shaders/src -out ../../shaders

import (
	"log/slog"
	"os"
	"runtime"

	"cubes/internal/debug"
	"cubes/internal/engineconfig"
	"cubes/internal/env"
	"cubes/internal/graphics"
	"cubes/internal/logger"
	"cubes/internal/platform"
	"cubes/internal/render"
	"cubes/internal/render/webgpu"
	"cubes/internal/shader"
	"cubes/internal/window/glfwwindow"
)

func init() {
	// GLFW and the native surface must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	envErr := env.Load(".env")
	cfg, cfgErr := engineconfig.Load(engineconfig.Path())

	lines := logger.New(cfg.Log.File)
	log := logger.NewSlog(lines, logger.ParseLevel(cfg.Log.Level), os.Stderr)
	slog.SetDefault(log)
	if envErr != nil {
		log.Warn("ignoring .env", "err", envErr)
	}
	if cfgErr != nil {
		log.Warn("using default config", "path", engineconfig.Path(), "err", cfgErr)
	}

	os.Exit(exitCode(log, run(cfg, log)))
}

// exitCode logs a fatal error from run and maps it to the process exit status.
func exitCode(log *slog.Logger, err error) int {
	if err == nil {
		return 0
	}
	log.Error("cubes stopped", "err", err)
	return 1
}

func run(cfg engineconfig.Config, log *slog.Logger) error {
	win, err := glfwwindow.New(glfwwindow.Config{
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
		Title:  cfg.Window.Title,
	}, log)
	if err != nil {
		return err
	}
	defer win.Close()

	handle, err := win.NativeHandle()
	if err != nil {
		return err
	}
	pd, err := platform.PlatformData(handle, runtime.GOOS)
	if err != nil {
		return err
	}
	w, h := win.FramebufferSize()
	initCfg := render.InitConfig{
		Type:         platform.BackendKind(runtime.GOOS),
		PlatformData: pd,
		Resolution:   render.Resolution{Width: uint32(w), Height: uint32(h)},
	}

	backend := webgpu.New(log.With("component", "webgpu"))
	shaders := shader.NewLoader(os.DirFS(cfg.Assets.Root), cfg.Assets.ShaderDir, backend, log)

	overlay := debug.New(cfg.Window.Title)
	overlay.SetShowFPS(cfg.Debug.ShowFPS)
	overlay.SetShowMemAlloc(cfg.Debug.ShowMemAlloc)

	loop := graphics.NewLoop(win, backend, graphics.Config{
		ClearColor: cfg.Renderer.ClearColor,
		DebugText:  cfg.Debug.Text,
		VSync:      cfg.Renderer.VSync,
		Overlay:    overlay,
		Log:        log,
	})
	if err := loop.Start(initCfg, shaders); err != nil {
		return err
	}
	log.Info("running", "backend", initCfg.Type, "width", w, "height", h)
	loop.Run()
	return nil
}
