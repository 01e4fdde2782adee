package render_test

import (
	"errors"
	"testing"

	"cubes/internal/render"
	"cubes/internal/render/rendertest"
)

func TestLifecycleInitOnce(t *testing.T) {
	rec := rendertest.New()
	l := render.NewLifecycle(rec, nil)

	cfg := render.InitConfig{Type: render.Vulkan}
	if err := l.Init(cfg); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if l.State() != render.Initialized {
		t.Errorf("State() = %v, want %v", l.State(), render.Initialized)
	}
	if err := l.Init(cfg); !errors.Is(err, render.ErrAlreadyInitialized) {
		t.Errorf("second Init() error = %v, want ErrAlreadyInitialized", err)
	}
	if rec.InitCount != 1 {
		t.Errorf("backend Init called %d times, want 1", rec.InitCount)
	}
}

func TestLifecycleInitError(t *testing.T) {
	backendErr := errors.New("no adapter")
	rec := rendertest.New()
	rec.InitErr = backendErr
	l := render.NewLifecycle(rec, nil)

	err := l.Init(render.InitConfig{Type: render.Metal})
	var ie *render.InitError
	if !errors.As(err, &ie) {
		t.Fatalf("Init() error = %v, want *InitError", err)
	}
	if ie.Kind != render.Metal {
		t.Errorf("InitError.Kind = %v, want Metal", ie.Kind)
	}
	if !errors.Is(err, backendErr) {
		t.Errorf("InitError does not wrap backend error")
	}
	if l.State() != render.Uninitialized {
		t.Errorf("State() = %v after failed init", l.State())
	}

	// shutdown without a successful init never reaches the backend
	l.Shutdown()
	if rec.ShutdownCount != 0 {
		t.Errorf("Shutdown reached backend %d times", rec.ShutdownCount)
	}
}

func TestLifecycleShutdownOnce(t *testing.T) {
	rec := rendertest.New()
	l := render.NewLifecycle(rec, nil)
	if err := l.Init(render.InitConfig{}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	l.Shutdown()
	l.Shutdown()
	if rec.ShutdownCount != 1 {
		t.Errorf("ShutdownCount = %d, want 1", rec.ShutdownCount)
	}
	if err := l.Init(render.InitConfig{}); !errors.Is(err, render.ErrShutdown) {
		t.Errorf("Init() after Shutdown error = %v, want ErrShutdown", err)
	}
}

func TestBackendKindString(t *testing.T) {
	tests := []struct {
		k    render.BackendKind
		want string
	}{
		{render.Direct3D, "Direct3D"},
		{render.OpenGL, "OpenGL"},
		{render.Vulkan, "Vulkan"},
		{render.BackendKind(42), "BackendKind(42)"},
	}
	for _, tt := range tests {
		if got := tt.k.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestUnpackRGBA(t *testing.T) {
	r, g, b, a := render.UnpackRGBA(0xff000080)
	if r != 1 || g != 0 || b != 0 || a != float64(0x80)/255 {
		t.Errorf("UnpackRGBA = %v %v %v %v", r, g, b, a)
	}
}
