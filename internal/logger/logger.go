package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// DefaultPath is the log file path, relative to the working directory.
const DefaultPath = "logs/cubes.txt"

// Logger stores log lines in memory and appends them to a file on disk. It is an io.Writer
// so it can sit behind a slog handler.
type Logger struct {
	mu    sync.Mutex
	lines []string
	path  string
	now   func() time.Time
}

// New returns a Logger appending to path and ensures its directory exists. An empty path keeps
// lines in memory only.
func New(path string) *Logger {
	if path != "" {
		_ = os.MkdirAll(filepath.Dir(path), 0755)
	}
	return &Logger{path: path, now: time.Now}
}

// Log stores one line prefixed with [timestamp] and appends it to the log file.
func (l *Logger) Log(line string) {
	stamped := "[" + l.now().Format("2006-01-02 15:04:05") + "] " + line

	l.mu.Lock()
	l.lines = append(l.lines, stamped)
	l.mu.Unlock()

	if l.path == "" {
		return
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	_, _ = f.WriteString(stamped + "\n")
	_ = f.Close()
}

// Write logs every non-empty line of p. It never fails.
func (l *Logger) Write(p []byte) (int, error) {
	for _, line := range strings.Split(string(p), "\n") {
		if line = strings.TrimRight(line, "\r"); line != "" {
			l.Log(line)
		}
	}
	return len(p), nil
}

// Lines returns a copy of all stored lines.
func (l *Logger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

// NewSlog returns a text slog.Logger writing to l and, when non-nil, to console.
func NewSlog(l *Logger, level slog.Level, console io.Writer) *slog.Logger {
	var w io.Writer = l
	if console != nil {
		w = io.MultiWriter(l, console)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// ParseLevel maps debug, info, warn and error (any case) to a slog level. Anything else is info.
func ParseLevel(s string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
