package engineconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file path, relative to the process working directory.
const DefaultPath = "config/cubes.yaml"

// Environment variables that override the file.
const (
	EnvConfigPath = "CUBES_CONFIG"
	EnvLogLevel   = "CUBES_LOG_LEVEL"
)

// Config holds the demo settings. Persisted as YAML.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Renderer RendererConfig `yaml:"renderer"`
	Assets   AssetsConfig   `yaml:"assets"`
	Debug    DebugConfig    `yaml:"debug"`
	Log      LogConfig      `yaml:"log"`
}

// WindowConfig is the initial window size and title.
type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// RendererConfig controls presentation.
type RendererConfig struct {
	VSync bool `yaml:"vsync"`
	// ClearColor is 0xRRGGBBAA.
	ClearColor uint32 `yaml:"clear_color"`
}

// AssetsConfig locates compiled shaders: <Root>/<ShaderDir>/<segment>/<name>.bin.
type AssetsConfig struct {
	Root      string `yaml:"root"`
	ShaderDir string `yaml:"shader_dir"`
}

// DebugConfig toggles the text overlay and its optional counters.
type DebugConfig struct {
	Text         bool `yaml:"text"`
	ShowFPS      bool `yaml:"show_fps"`
	ShowMemAlloc bool `yaml:"show_memalloc"`
}

// LogConfig selects the slog level and the log file.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Default returns the built-in settings (1280×720, vsync, text overlay on, counters off).
func Default() Config {
	return Config{
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			Title:  "cubes",
		},
		Renderer: RendererConfig{
			VSync:      true,
			ClearColor: 0x503030ff,
		},
		Assets: AssetsConfig{
			Root:      ".",
			ShaderDir: "shaders",
		},
		Debug: DebugConfig{
			Text: true,
		},
		Log: LogConfig{
			Level: "info",
			File:  "logs/cubes.txt",
		},
	}
}

// Path returns the config path, honouring CUBES_CONFIG.
func Path() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	return DefaultPath
}

// Load reads settings from path on top of Default(). A missing file yields Default() and no
// error; an unreadable or invalid file yields Default() and the error so the caller can warn.
// Environment overrides are applied in every case.
func Load(path string) (Config, error) {
	c := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return applyEnv(c), nil
		}
		return applyEnv(Default()), fmt.Errorf("engineconfig: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return applyEnv(Default()), fmt.Errorf("engineconfig: parse %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return applyEnv(Default()), fmt.Errorf("engineconfig: %s: %w", path, err)
	}
	return applyEnv(c), nil
}

// Validate reports settings the demo cannot run with.
func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if c.Assets.ShaderDir == "" {
		return errors.New("assets.shader_dir is empty")
	}
	return nil
}

func applyEnv(c Config) Config {
	if lvl := os.Getenv(EnvLogLevel); lvl != "" {
		c.Log.Level = lvl
	}
	return c
}

// Save writes settings to path as YAML, creating the directory if needed.
func Save(path string, c Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
