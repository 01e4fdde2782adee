package env

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	src := `# comment
CUBES_LOG_LEVEL=debug
export CUBES_CONFIG = "config/alt.yaml"
QUOTED='a b'
novalue
=empty
`
	vars, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := map[string]string{
		"CUBES_LOG_LEVEL": "debug",
		"CUBES_CONFIG":    "config/alt.yaml",
		"QUOTED":          "a b",
	}
	if len(vars) != len(want) {
		t.Errorf("Parse() = %v, want %v", vars, want)
	}
	for k, v := range want {
		if vars[k] != v {
			t.Errorf("%s = %q, want %q", k, vars[k], v)
		}
	}
}

func TestLoadKeepsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("CUBES_TEST_A=file\nCUBES_TEST_B=file\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CUBES_TEST_A", "shell")
	t.Setenv("CUBES_TEST_B", "")
	os.Unsetenv("CUBES_TEST_B")

	if err := Load(path); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := os.Getenv("CUBES_TEST_A"); got != "shell" {
		t.Errorf("CUBES_TEST_A = %q, want shell", got)
	}
	if got := os.Getenv("CUBES_TEST_B"); got != "file" {
		t.Errorf("CUBES_TEST_B = %q, want file", got)
	}
}

func TestLoadMissing(t *testing.T) {
	if err := Load(filepath.Join(t.TempDir(), "absent")); err != nil {
		t.Errorf("Load() error = %v", err)
	}
}
