// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CineScope Contributors

// Package logging builds the process logger: slog with service
// identity on every record and OpenTelemetry trace correlation when a
// span is active.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel/trace"
)

// spanHandler decorates a slog.Handler with fixed identity attributes
// and, when the context carries an active span, trace correlation ids.
type spanHandler struct {
	base     slog.Handler
	identity []slog.Attr
}

func (h *spanHandler) Handle(ctx context.Context, r slog.Record) error {
	r.AddAttrs(h.identity...)

	if spanCtx := trace.SpanContextFromContext(ctx); spanCtx.IsValid() {
		r.AddAttrs(
			slog.String("trace_id", spanCtx.TraceID().String()),
			slog.String("span_id", spanCtx.SpanID().String()),
		)
	}

	//nolint:wrapcheck // Handler interface requires unwrapped error passthrough
	return h.base.Handle(ctx, r)
}

func (h *spanHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.base.Enabled(ctx, level)
}

func (h *spanHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &spanHandler{base: h.base.WithAttrs(attrs), identity: h.identity}
}

func (h *spanHandler) WithGroup(name string) slog.Handler {
	return &spanHandler{base: h.base.WithGroup(name), identity: h.identity}
}

// Setup creates a configured slog.Logger. format is "json" or "text";
// anything else falls back to JSON. A nil w writes to os.Stderr.
func Setup(service, version, format string, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: slog.LevelDebug}

	var base slog.Handler
	switch format {
	case "text":
		base = slog.NewTextHandler(w, opts)
	default:
		base = slog.NewJSONHandler(w, opts)
	}

	return slog.New(&spanHandler{
		base: base,
		identity: []slog.Attr{
			slog.String("service", service),
			slog.String("version", version),
		},
	})
}

// SetDefault installs the configured logger as the process default.
func SetDefault(service, version, format string) {
	slog.SetDefault(Setup(service, version, format, nil))
}
