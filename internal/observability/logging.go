// Package observability provides metrics, tracing and job logging.
package observability

import (
	"context"
	"log/slog"
	"time"
)

// JobLogger writes structured start/finish records for background
// operations such as retention sweeps.
type JobLogger struct {
	logger *slog.Logger
}

// NewJobLogger wraps l, falling back to slog.Default when nil.
func NewJobLogger(l *slog.Logger) *JobLogger {
	if l == nil {
		l = slog.Default()
	}
	return &JobLogger{logger: l}
}

// Start logs the start of operation and returns a function that logs its
// outcome with the elapsed time.
func (j *JobLogger) Start(ctx context.Context, operation string, attrs ...any) func(err error, result ...any) {
	start := time.Now()
	j.logger.InfoContext(ctx, "job started", append([]any{slog.String("job", operation)}, attrs...)...)

	return func(err error, result ...any) {
		fields := append([]any{
			slog.String("job", operation),
			slog.Duration("elapsed", time.Since(start)),
		}, result...)
		if err != nil {
			fields = append(fields, slog.String("error", err.Error()))
			j.logger.ErrorContext(ctx, "job failed", fields...)
			return
		}
		j.logger.InfoContext(ctx, "job completed", fields...)
	}
}
