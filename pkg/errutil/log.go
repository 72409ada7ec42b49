// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CineScope Contributors

package errutil

import (
	"context"
	"log/slog"

	"github.com/samber/oops"
)

// LogError logs err at error level. When err carries oops metadata the
// code and context map are emitted as structured attributes alongside
// the message; plain errors log as a single error attribute.
func LogError(logger *slog.Logger, msg string, err error) {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		logger.Error(msg, "error", err)
		return
	}

	attrs := []slog.Attr{slog.String("error", oopsErr.Error())}
	if code := oopsErr.Code(); code != nil {
		attrs = append(attrs, slog.Any("code", code))
	}
	if errCtx := oopsErr.Context(); len(errCtx) > 0 {
		attrs = append(attrs, slog.Any("context", errCtx))
	}
	logger.LogAttrs(context.Background(), slog.LevelError, msg, attrs...)
}
