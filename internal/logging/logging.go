package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New creates a console slog.Logger with the provided level string.
func New(level string) *slog.Logger {
	return fromWriter(os.Stdout, level)
}

// NewWithFile logs to stdout and, when path is non-empty, also appends to
// a log file so long scrape runs leave an on-disk trail. The returned
// closer releases the file handle.
func NewWithFile(level, path string) (*slog.Logger, func() error) {
	if path == "" {
		return New(level), func() error { return nil }
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logger := New(level)
		logger.Warn("cannot open log file, logging to stdout only", "path", path, "error", err)
		return logger, func() error { return nil }
	}

	return fromWriter(io.MultiWriter(os.Stdout, file), level), file.Close
}

func fromWriter(w io.Writer, level string) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: levelFromString(level),
	})
	return slog.New(handler)
}

func levelFromString(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "error":
		return slog.LevelError
	case "warn", "warning":
		return slog.LevelWarn
	case "info":
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}
