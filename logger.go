package pipeloop

import (
	"io"
	"log/slog"
)

// NopLogger returns a logger that discards all output. A Loop built
// without WithLogger uses it, so the library stays silent unless a
// caller opts in to diagnostics.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
