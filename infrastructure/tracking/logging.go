package tracking

import (
	"context"
	"log/slog"

	"github.com/helixml/gitclone/domain/clone"
)

// LoggingReporter implements Reporter by logging state changes.
type LoggingReporter struct {
	logger *slog.Logger
}

// NewLoggingReporter creates a new LoggingReporter.
func NewLoggingReporter(logger *slog.Logger) *LoggingReporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingReporter{
		logger: logger,
	}
}

// OnChange logs the state change.
func (r *LoggingReporter) OnChange(_ context.Context, progress clone.Progress) error {
	state := progress.State()

	if state == clone.StateFailed {
		r.logger.Error(progress.Message(),
			slog.String("state", string(state)),
			slog.String("error", progress.Error()),
		)
		return nil
	}

	r.logger.Info(progress.Message(),
		slog.String("state", string(state)),
	)
	return nil
}
