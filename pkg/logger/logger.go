package logger

import (
	"log/slog"
	"os"
)

// Log is the process-wide structured logger. It defaults to slog's standard
// logger so packages can log before Init runs (tests, tooling).
var Log = slog.Default()

func Init() {
	// JSON handler for production-ready logging
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	Log = slog.New(handler)
}
