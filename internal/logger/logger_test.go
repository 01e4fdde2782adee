package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func fixedClock() time.Time {
	return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
}

func TestLogStampsAndAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "cubes.txt")
	l := New(path)
	l.now = fixedClock

	l.Log("first")
	l.Log("second")

	lines := l.Lines()
	if len(lines) != 2 || lines[0] != "[2026-01-02 03:04:05] first" {
		t.Errorf("Lines() = %q", lines)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if want := "[2026-01-02 03:04:05] first\n[2026-01-02 03:04:05] second\n"; string(data) != want {
		t.Errorf("file = %q, want %q", data, want)
	}
}

func TestWriteSplitsLines(t *testing.T) {
	l := New("")
	n, err := l.Write([]byte("a\n\nb\r\n"))
	if err != nil || n != 6 {
		t.Errorf("Write() = %d, %v", n, err)
	}
	if got := l.Lines(); len(got) != 2 {
		t.Errorf("Lines() = %q, want 2 lines", got)
	}
}

func TestNewSlog(t *testing.T) {
	l := New("")
	var console bytes.Buffer
	log := NewSlog(l, slog.LevelInfo, &console)

	log.Debug("hidden")
	log.Info("renderer initialized", "backend", "Vulkan")

	lines := l.Lines()
	if len(lines) != 1 {
		t.Fatalf("Lines() = %q, want 1 line", lines)
	}
	if !strings.Contains(lines[0], "backend=Vulkan") {
		t.Errorf("line = %q", lines[0])
	}
	if !strings.Contains(console.String(), "renderer initialized") {
		t.Errorf("console = %q", console.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"loud", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
