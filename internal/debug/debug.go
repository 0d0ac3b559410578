package debug

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

const logPath = "/tmp/vx-debug.log"

var (
	once   sync.Once
	logger *slog.Logger
)

// GetLogger returns a singleton slog logger writing to the debug log file.
// If the file cannot be opened, records are discarded; a broken debug log
// must never take the session down.
func GetLogger() *slog.Logger {
	once.Do(func() {
		var w io.Writer = io.Discard
		if f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666); err == nil {
			w = f
		}
		logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
			Level:     slog.LevelDebug,
			AddSource: true,
		}))
	})
	return logger
}

// For returns the singleton logger tagged with the calling component's name.
func For(component string) *slog.Logger {
	return GetLogger().With("component", component)
}
