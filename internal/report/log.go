package report

import (
	"context"
	"log/slog"
)

// LogSink writes each result as a structured log record.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default().With("component", "report")
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Report(ctx context.Context, r Result) error {
	attrs := []any{
		"document", r.Document,
		"status", r.Status,
		"thread_count", r.ThreadCount,
		"terms", r.Terms,
		"documents", r.Documents,
		"duration_ms", r.DurationMs,
	}
	if !r.OK() {
		attrs = append(attrs, "error", r.Error)
		if r.FailedWorker > 0 {
			attrs = append(attrs, "failed_worker", r.FailedWorker)
		}
		s.logger.WarnContext(ctx, "indexing failed", attrs...)
		return nil
	}
	s.logger.InfoContext(ctx, "indexing complete", attrs...)
	return nil
}
