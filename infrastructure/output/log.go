package output

import (
	"context"
	"log/slog"

	"github.com/helixml/gitclone/domain/clone"
	"github.com/helixml/gitclone/domain/service"
)

// LogExporter writes outputs to the log instead of a pipeline.
type LogExporter struct {
	logger *slog.Logger
}

// NewLogExporter creates a LogExporter.
func NewLogExporter(logger *slog.Logger) *LogExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogExporter{logger: logger}
}

// Export logs each output.
func (l *LogExporter) Export(ctx context.Context, outputs []clone.Output) error {
	for _, out := range outputs {
		l.logger.InfoContext(ctx, "output", slog.String("key", out.Key), slog.String("value", out.Value))
	}
	return nil
}

// Multi publishes to several exporters in order and stops at the first
// error.
type Multi []service.Exporter

// Export implements service.Exporter.
func (m Multi) Export(ctx context.Context, outputs []clone.Output) error {
	for _, exporter := range m {
		if err := exporter.Export(ctx, outputs); err != nil {
			return err
		}
	}
	return nil
}

var (
	_ service.Exporter = (*LogExporter)(nil)
	_ service.Exporter = Multi(nil)
)
