// Package telemetry configures the process-wide slog logger.
package telemetry

import (
	"context"
	"log/slog"
	"os"

	"github.com/comandaapp/comanda/internal/pkg/requestid"
	"go.opentelemetry.io/otel/trace"
)

// ContextHandler is a custom slog.Handler that decorates every record with
// the request id and, when an OpenTelemetry span is active, the trace and
// span ids from the context.
type ContextHandler struct {
	slog.Handler
}

// Handle adds context attributes before calling the underlying handler.
func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if id := requestid.From(ctx); id != "" {
		r.AddAttrs(slog.String("request_id", id))
	}
	spanContext := trace.SpanContextFromContext(ctx)
	if spanContext.HasTraceID() {
		r.AddAttrs(slog.String("trace_id", spanContext.TraceID().String()))
	}
	if spanContext.HasSpanID() {
		r.AddAttrs(slog.String("span_id", spanContext.SpanID().String()))
	}
	return h.Handler.Handle(ctx, r)
}

// NewContextHandler returns a new slog.Handler that decorates logs with
// correlation ids.
func NewContextHandler(h slog.Handler) *ContextHandler {
	return &ContextHandler{Handler: h}
}

// InitServerLogger initialises the global slog logger for long-running
// processes: JSON records on stderr at info level.
func InitServerLogger() {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(NewContextHandler(handler)))
}

// InitCLILogger initialises the global slog logger for the interactive CLI:
// human-readable text on stderr, warn level unless verbose is set.
func InitCLILogger(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(NewContextHandler(handler)))
}
