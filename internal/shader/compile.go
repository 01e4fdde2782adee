package shader

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gogpu/naga"
)

// SourceExt is the extension of shader sources under the build input directory.
const SourceExt = ".wgsl"

// Compile produces the blob for one segment. Every source is validated by naga; the spirv
// segment gets the SPIR-V binary and the other segments carry the WGSL text, which the
// renderer translates at load time.
func Compile(name string, src []byte, segment string) ([]byte, error) {
	spirv, err := naga.Compile(string(src))
	if err != nil {
		return nil, &CompileError{Name: name, Err: err}
	}
	if segment == "spirv" {
		return spirv, nil
	}
	return append([]byte(nil), src...), nil
}

// Build compiles every *.wgsl in srcFS into outDir/<segment>/<name>.bin for all segments and
// returns the number of sources compiled.
func Build(srcFS fs.FS, outDir string, log *slog.Logger) (int, error) {
	matches, err := fs.Glob(srcFS, "*"+SourceExt)
	if err != nil {
		return 0, err
	}
	for _, m := range matches {
		src, err := fs.ReadFile(srcFS, m)
		if err != nil {
			return 0, &LoadError{Path: m, Err: err}
		}
		name := strings.TrimSuffix(path.Base(m), SourceExt)
		for _, seg := range Segments() {
			blob, err := Compile(name, src, seg)
			if err != nil {
				return 0, err
			}
			dir := filepath.Join(outDir, seg)
			if err := os.MkdirAll(dir, 0755); err != nil {
				return 0, err
			}
			out := filepath.Join(dir, name+".bin")
			if err := os.WriteFile(out, blob, 0644); err != nil {
				return 0, fmt.Errorf("shader: write %s: %w", out, err)
			}
			if log != nil {
				log.Debug("shader compiled", "name", name, "segment", seg, "bytes", len(blob))
			}
		}
	}
	return len(matches), nil
}
