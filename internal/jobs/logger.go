package jobs

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// OpenLog opens an append-only JSON log for job bookkeeping at path.
// The returned closer must be called on shutdown.
func OpenLog(path string) (*slog.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelInfo})).
		With(slog.String("component", "jobs"))
	return logger, f, nil
}
