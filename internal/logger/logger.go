// Package logger provides structured slog loggers for the application and
// the config audit trail. All logs are written in JSON format and rotated by
// size.
//
// Log files are organized as:
//
//	<logDir>/system.log   application-level events
//	<logDir>/audit.log    config changes and nginx commands
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation controls when log files are rolled over.
type Rotation struct {
	// MaxSizeMB is the size in megabytes at which a file is rotated.
	MaxSizeMB int
	// MaxBackups is the number of rotated files to keep.
	MaxBackups int
}

// NewSystemLogger creates a JSON slog.Logger that writes to <logDir>/system.log.
// The directory is created if it does not exist. Records at or above level
// are also passed to every handler in extra, e.g. an OpenTelemetry bridge.
func NewSystemLogger(logDir string, level slog.Level, rot Rotation, extra ...slog.Handler) (*slog.Logger, error) {
	w, err := openLogFile(logDir, "system.log", rot)
	if err != nil {
		return nil, err
	}
	var handler slog.Handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	if len(extra) > 0 {
		handlers := []slog.Handler{handler}
		for _, h := range extra {
			handlers = append(handlers, leveled{Handler: h, level: level})
		}
		handler = fanout(handlers)
	}
	return slog.New(handler), nil
}

// NewAuditLogger creates a JSON slog.Logger that writes to <logDir>/audit.log.
// Audit records are always kept, whatever the configured level.
func NewAuditLogger(logDir string, rot Rotation) (*slog.Logger, error) {
	w, err := openLogFile(logDir, "audit.log", rot)
	if err != nil {
		return nil, err
	}
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	return slog.New(handler).With("component", "audit"), nil
}

// openLogFile returns a size-rotated writer for <logDir>/<name>.
func openLogFile(logDir, name string, rot Rotation) (io.Writer, error) {
	if err := os.MkdirAll(logDir, 0750); err != nil {
		return nil, fmt.Errorf("creating log directory %q: %w", logDir, err)
	}
	if rot.MaxSizeMB <= 0 {
		rot.MaxSizeMB = 10
	}
	if rot.MaxBackups < 0 {
		rot.MaxBackups = 0
	}
	return &lumberjack.Logger{
		Filename:   filepath.Join(logDir, name),
		MaxSize:    rot.MaxSizeMB,
		MaxBackups: rot.MaxBackups,
	}, nil
}
