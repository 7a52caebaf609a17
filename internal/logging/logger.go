// Package logging configures log/slog for the explorer and carries the
// identifiers that tie log lines together.
//
// Two IDs travel in a context: chi's request ID, set by its RequestID
// middleware, and the pipeline pass ID set with WithPass. FromContext adds
// whichever are present, so every line logged while serving one selection
// can be correlated with the pass_id returned in the JSON plan.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
)

// Setup configures the global slog logger based on level and format.
//
// Level values: "debug", "info", "warn", "error" (default: "info")
// Format values: "text", "json" (default: "text")
//
// The server logs to stdout; the CLI passes stderr so its output stays clean.
func Setup(level, format string) {
	SetupWriter(os.Stdout, level, format)
}

// SetupWriter is Setup with an explicit destination.
func SetupWriter(w io.Writer, level, format string) {
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	slog.SetDefault(slog.New(handler))
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type ctxKey int

const passKey ctxKey = iota

// WithPass returns a context carrying the ID of a pipeline pass. An empty
// id leaves ctx unchanged.
func WithPass(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, passKey, id)
}

// PassID returns the pass ID stored by WithPass, or "".
func PassID(ctx context.Context) string {
	id, _ := ctx.Value(passKey).(string)
	return id
}

// FromContext returns the default logger with request_id and pass_id
// attached when ctx carries them.
//
// Usage:
//
//	ctx = logging.WithPass(r.Context(), id)
//	logging.FromContext(ctx).Info("pass served", "mode", mode)
func FromContext(ctx context.Context) *slog.Logger {
	logger := slog.Default()

	if reqID := middleware.GetReqID(ctx); reqID != "" {
		logger = logger.With("request_id", reqID)
	}
	if passID := PassID(ctx); passID != "" {
		logger = logger.With("pass_id", passID)
	}

	return logger
}

// WithFields is FromContext plus extra attributes, for loggers that follow
// one dataset load or one pipeline stage.
//
//	log := logging.WithFields(ctx, "table", "institutions", "source", src.Name())
//	log.Info("source loaded", "rows", t.Len())
func WithFields(ctx context.Context, args ...any) *slog.Logger {
	return FromContext(ctx).With(args...)
}
