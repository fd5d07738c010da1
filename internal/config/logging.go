package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// DebugLog is the rotating debug log file. It is an io.Writer so it can sit
// behind the slog handler next to stdout, and it can be tailed and cleared.
type DebugLog struct {
	mu     sync.Mutex
	path   string
	writer *lumberjack.Logger
}

// NewDebugLog opens (or creates) the debug log at path.
// The file rotates at maxSizeMB, keeping maxBackups old files.
func NewDebugLog(path string, maxSizeMB, maxBackups int) (*DebugLog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	return &DebugLog{
		path: path,
		writer: &lumberjack.Logger{
			Filename:   path,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
		},
	}, nil
}

// Path returns the current log file path
func (l *DebugLog) Path() string {
	return l.path
}

// Write appends p to the log file
func (l *DebugLog) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.writer.Write(p)
}

// Tail returns the last n lines of the current log file.
// A missing file reads as empty.
func (l *DebugLog) Tail(n int) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read debug log: %w", err)
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return "", nil
	}
	if n > 0 && len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n"), nil
}

// Clear empties the current log file and removes rotated backups
func (l *DebugLog) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	// lumberjack reopens the file on the next write
	if err := l.writer.Close(); err != nil {
		return fmt.Errorf("close debug log: %w", err)
	}

	if err := os.Truncate(l.path, 0); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("truncate debug log: %w", err)
	}

	ext := filepath.Ext(l.path)
	pattern := strings.TrimSuffix(l.path, ext) + "-*" + ext
	backups, err := filepath.Glob(pattern)
	if err != nil {
		return fmt.Errorf("find debug log backups: %w", err)
	}
	for _, backup := range backups {
		if err := os.Remove(backup); err != nil {
			return fmt.Errorf("remove %s: %w", backup, err)
		}
	}

	return nil
}

// Close closes the underlying file
func (l *DebugLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.writer.Close()
}

// NewLogger builds the process logger: JSON to stdout, Debug level in dev and
// Info elsewhere. When debugLog is non-nil every record is also written there.
func NewLogger(cfg *Config, stdout io.Writer, debugLog *DebugLog) *slog.Logger {
	level := slog.LevelInfo
	if cfg.IsDev() {
		level = slog.LevelDebug
	}

	out := stdout
	if debugLog != nil {
		out = io.MultiWriter(stdout, debugLog)
	}

	return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level}))
}
