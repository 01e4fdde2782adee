// Package shader loads precompiled shader blobs for the active render backend.
//
// Blobs live at <root>/<segment>/<name>.bin where the segment names the backend's shader
// language. A single zero byte is appended to every blob after reading.
package shader

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path"

	"cubes/internal/render"
)

// ErrUnsupportedBackend is returned for backend kinds that have no shader segment.
var ErrUnsupportedBackend = errors.New("shader: unsupported render backend")

// GenerateHint is appended to errors for blobs that were never compiled.
const GenerateHint = "run go generate ./cmd/cubes to compile shaders/src"

// LoadError reports a blob that could not be read.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if errors.Is(e.Err, fs.ErrNotExist) {
		return fmt.Sprintf("shader: load %s: %v (%s)", e.Path, e.Err, GenerateHint)
	}
	return fmt.Sprintf("shader: load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// CompileError reports a blob the backend rejected.
type CompileError struct {
	Name string
	Err  error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("shader: compile %s: %v", e.Name, e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }

// Segment returns the directory name holding blobs for kind.
func Segment(kind render.BackendKind) (string, error) {
	switch kind {
	case render.Direct3D:
		return "dx11", nil
	case render.OpenGL:
		return "glsl", nil
	case render.Metal:
		return "metal", nil
	case render.OpenGLES:
		return "essl", nil
	case render.Vulkan:
		return "spirv", nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedBackend, kind)
}

// Segments lists every segment in a stable order.
func Segments() []string {
	return []string{"dx11", "glsl", "metal", "essl", "spirv"}
}

// Loader reads blobs from fsys and uploads them to a renderer.
type Loader struct {
	fsys fs.FS
	root string
	r    render.Renderer
	log  *slog.Logger
}

// NewLoader creates a loader reading from root inside fsys. A nil logger discards output.
func NewLoader(fsys fs.FS, root string, r render.Renderer, log *slog.Logger) *Loader {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Loader{fsys: fsys, root: root, r: r, log: log}
}

// Path returns the blob path for name under the renderer's current backend.
func (l *Loader) Path(name string) (string, error) {
	seg, err := Segment(l.r.Type())
	if err != nil {
		return "", err
	}
	return path.Join(l.root, seg, name+".bin"), nil
}

// LoadFile reads the blob for name and appends the terminating zero byte.
func (l *Loader) LoadFile(name string) ([]byte, error) {
	p, err := l.Path(name)
	if err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(l.fsys, p)
	if err != nil {
		return nil, &LoadError{Path: p, Err: err}
	}
	l.log.Debug("shader loaded", "path", p, "bytes", len(data))
	return append(data, 0), nil
}

// LoadShader reads and creates a single shader.
func (l *Loader) LoadShader(name string) (render.ShaderHandle, error) {
	blob, err := l.LoadFile(name)
	if err != nil {
		return render.InvalidHandle, err
	}
	h, err := l.r.CreateShader(blob)
	if err != nil {
		return render.InvalidHandle, &CompileError{Name: name, Err: err}
	}
	return h, nil
}

// LoadProgram loads a vertex and fragment shader and links them. The shader handles are
// released once the program exists.
func (l *Loader) LoadProgram(vsName, fsName string) (render.ProgramHandle, error) {
	vs, err := l.LoadShader(vsName)
	if err != nil {
		return render.InvalidHandle, err
	}
	fsh, err := l.LoadShader(fsName)
	if err != nil {
		l.r.DestroyShader(vs)
		return render.InvalidHandle, err
	}
	prog, err := l.r.CreateProgram(vs, fsh, true)
	if err != nil {
		l.r.DestroyShader(vs)
		l.r.DestroyShader(fsh)
		return render.InvalidHandle, &CompileError{Name: vsName + "+" + fsName, Err: err}
	}
	l.log.Info("program created", "vs", vsName, "fs", fsName, "backend", l.r.Type())
	return prog, nil
}
