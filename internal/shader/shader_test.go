package shader

import (
	"bytes"
	"errors"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"cubes/internal/render"
	"cubes/internal/render/rendertest"
)

// countingFS records every Open so tests can assert no filesystem access happened.
type countingFS struct {
	fs.FS
	opens int
}

func (c *countingFS) Open(name string) (fs.File, error) {
	c.opens++
	return c.FS.Open(name)
}

func recorderFor(t *testing.T, kind render.BackendKind) *rendertest.Recorder {
	t.Helper()
	rec := rendertest.New()
	if err := rec.Init(render.InitConfig{Type: kind}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	return rec
}

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"shaders/spirv/vs_cubes.bin": {Data: []byte{0x03, 0x02, 0x23, 0x07, 0xaa}},
		"shaders/spirv/fs_cubes.bin": {Data: []byte{0x03, 0x02, 0x23, 0x07, 0xbb}},
		"shaders/glsl/vs_cubes.bin":  {Data: []byte("vertex")},
		"shaders/glsl/fs_cubes.bin":  {Data: []byte("fragment")},
	}
}

func TestSegment(t *testing.T) {
	tests := []struct {
		kind render.BackendKind
		want string
	}{
		{render.Direct3D, "dx11"},
		{render.OpenGL, "glsl"},
		{render.Metal, "metal"},
		{render.OpenGLES, "essl"},
		{render.Vulkan, "spirv"},
	}
	for _, tt := range tests {
		got, err := Segment(tt.kind)
		if err != nil {
			t.Errorf("Segment(%v) error = %v", tt.kind, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Segment(%v) = %q, want %q", tt.kind, got, tt.want)
		}
	}
	if _, err := Segment(render.Noop); !errors.Is(err, ErrUnsupportedBackend) {
		t.Errorf("Segment(Noop) error = %v, want ErrUnsupportedBackend", err)
	}
}

func TestLoadFileUnsupportedBeforeFS(t *testing.T) {
	cfs := &countingFS{FS: testFS()}
	l := NewLoader(cfs, "shaders", recorderFor(t, render.Noop), nil)

	if _, err := l.LoadFile("vs_cubes"); !errors.Is(err, ErrUnsupportedBackend) {
		t.Fatalf("LoadFile() error = %v, want ErrUnsupportedBackend", err)
	}
	if cfs.opens != 0 {
		t.Errorf("filesystem opened %d times", cfs.opens)
	}
}

func TestLoadFileAppendsTerminator(t *testing.T) {
	l := NewLoader(testFS(), "shaders", recorderFor(t, render.OpenGL), nil)
	got, err := l.LoadFile("vs_cubes")
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	want := append([]byte("vertex"), 0)
	if !bytes.Equal(got, want) {
		t.Errorf("LoadFile() = %q, want %q", got, want)
	}

	again, err := l.LoadFile("vs_cubes")
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if !bytes.Equal(got, again) {
		t.Error("LoadFile() is not idempotent")
	}
}

func TestLoadFileMissing(t *testing.T) {
	l := NewLoader(testFS(), "shaders", recorderFor(t, render.Metal), nil)
	_, err := l.LoadFile("vs_cubes")
	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("LoadFile() error = %v, want *LoadError", err)
	}
	if le.Path != "shaders/metal/vs_cubes.bin" {
		t.Errorf("LoadError.Path = %q", le.Path)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("LoadError does not wrap fs.ErrNotExist: %v", err)
	}
	if !strings.Contains(err.Error(), GenerateHint) {
		t.Errorf("missing blob error %q does not mention %q", err, GenerateHint)
	}
}

func TestLoadErrorHintOnlyForMissing(t *testing.T) {
	err := &LoadError{Path: "shaders/spirv/vs_cubes.bin", Err: fs.ErrPermission}
	if strings.Contains(err.Error(), GenerateHint) {
		t.Errorf("Error() = %q, want no generate hint", err)
	}
}

func TestLoadProgramReleasesVertexShader(t *testing.T) {
	rec := recorderFor(t, render.Vulkan)
	fsys := testFS()
	delete(fsys, "shaders/spirv/fs_cubes.bin")
	l := NewLoader(fsys, "shaders", rec, nil)

	_, err := l.LoadProgram("vs_cubes", "fs_cubes")
	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("LoadProgram() error = %v, want *LoadError", err)
	}
	if len(rec.Shaders) != 1 {
		t.Fatalf("shaders created = %d, want 1", len(rec.Shaders))
	}
	if len(rec.Destroyed) != 1 || rec.Destroyed[0] != 0 {
		t.Errorf("destroyed = %v, want [0]", rec.Destroyed)
	}
	if len(rec.Programs) != 0 {
		t.Errorf("programs = %+v, want none", rec.Programs)
	}
}

func TestLoadProgramVulkan(t *testing.T) {
	rec := recorderFor(t, render.Vulkan)
	l := NewLoader(testFS(), "shaders", rec, nil)

	prog, err := l.LoadProgram("vs_cubes", "fs_cubes")
	if err != nil {
		t.Fatalf("LoadProgram() error = %v", err)
	}
	if !prog.Valid() {
		t.Error("LoadProgram() returned invalid handle")
	}
	if len(rec.Shaders) != 2 {
		t.Fatalf("shaders created = %d, want 2", len(rec.Shaders))
	}
	if len(rec.Shaders[0]) != 6 || rec.Shaders[0][5] != 0 {
		t.Errorf("vertex blob = %x, want file bytes plus one zero", rec.Shaders[0])
	}
	if len(rec.Programs) != 1 || rec.Programs[0] != (rendertest.Program{VS: 0, FS: 1}) {
		t.Errorf("programs = %+v", rec.Programs)
	}
}

func TestLoadProgramCompileError(t *testing.T) {
	rec := recorderFor(t, render.OpenGL)
	rec.ShaderErr = errors.New("bad blob")
	l := NewLoader(testFS(), "shaders", rec, nil)

	_, err := l.LoadProgram("vs_cubes", "fs_cubes")
	var ce *CompileError
	if !errors.As(err, &ce) {
		t.Fatalf("LoadProgram() error = %v, want *CompileError", err)
	}
	if ce.Name != "vs_cubes" {
		t.Errorf("CompileError.Name = %q", ce.Name)
	}
	var le *LoadError
	if errors.As(err, &le) {
		t.Error("compile failure reported as load failure")
	}
}
