package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New creates a *slog.Logger writing JSON to stderr and optionally to
// logFile, and installs it as the slog default so package-level slog
// calls work. The returned cleanup func closes the log file if one was
// opened; callers must defer it.
func New(level, logFile string) (*slog.Logger, func(), error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		lvl = slog.LevelInfo
	}

	w := io.Writer(os.Stderr)
	cleanup := func() {}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		if err != nil {
			return nil, nil, err
		}
		w = io.MultiWriter(os.Stderr, f)
		cleanup = func() { _ = f.Close() }
	}

	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	return logger, cleanup, nil
}
