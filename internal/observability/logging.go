// Package observability builds steward's structured loggers. Tracing
// rides on the global OpenTelemetry provider configured by the embedding
// process; this package only concerns itself with slog.
package observability

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/trace"
)

// sensitiveKeys are attribute names whose values never reach log output.
// Keys are matched with separators stripped, so api_key and apikey both
// count.
var sensitiveKeys = map[string]bool{
	"apikey":     true,
	"token":      true,
	"secret":     true,
	"secretkey":  true,
	"password":   true,
	"credential": true,
}

// ParseLevel maps a configuration level string onto a slog.Level. An
// empty string means info.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}

// NewLogger builds a logger writing to w in the given format ("json" or
// "text") at the given level. Values under credential-looking keys are
// redacted before they hit the handler.
func NewLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{
		Level:       lvl,
		ReplaceAttr: redactSensitive,
	}

	var handler slog.Handler
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	case "", "text":
		handler = slog.NewTextHandler(w, opts)
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}

	return slog.New(handler), nil
}

// WithTraceContext returns a logger carrying the trace and span IDs of
// the span in ctx, so log lines correlate with traces. Without a valid
// span the logger is returned unchanged.
func WithTraceContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	spanCtx := trace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return logger
	}
	return logger.With(
		slog.String("trace_id", spanCtx.TraceID().String()),
		slog.String("span_id", spanCtx.SpanID().String()),
	)
}

func redactSensitive(groups []string, a slog.Attr) slog.Attr {
	key := strings.ToLower(a.Key)
	key = strings.ReplaceAll(key, "_", "")
	key = strings.ReplaceAll(key, "-", "")
	if sensitiveKeys[key] {
		return slog.String(a.Key, "[REDACTED]")
	}
	return a
}
