package logging

import (
	"io"
	"log/slog"
	"os"
)

// Setup initializes the global slog logger with JSON output to stdout.
// Development builds also log DEBUG.
func Setup(appEnv string) {
	slog.SetDefault(slog.New(NewJSONHandler(os.Stdout, appEnv)))
}

func NewJSONHandler(w io.Writer, appEnv string) slog.Handler {
	level := slog.LevelInfo
	if appEnv == "development" {
		level = slog.LevelDebug
	}
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
}
