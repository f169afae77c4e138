package output

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/helixml/gitclone/domain/clone"
	"github.com/helixml/gitclone/domain/service"
)

// ErrNoOutputFile indicates the dotenv exporter has no destination.
var ErrNoOutputFile = errors.New("output file is required")

// DotEnvExporter merges outputs into a dotenv file. Keys already present
// in the file are kept unless an output overwrites them.
type DotEnvExporter struct {
	path   string
	logger *slog.Logger
}

// NewDotEnvExporter creates a DotEnvExporter writing to path.
func NewDotEnvExporter(path string, logger *slog.Logger) *DotEnvExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &DotEnvExporter{path: path, logger: logger}
}

// Export writes outputs to the dotenv file.
func (d *DotEnvExporter) Export(_ context.Context, outputs []clone.Output) error {
	if d.path == "" {
		return ErrNoOutputFile
	}

	env := map[string]string{}
	if _, err := os.Stat(d.path); err == nil {
		existing, err := godotenv.Read(d.path)
		if err != nil {
			return fmt.Errorf("read output file: %w", err)
		}
		env = existing
	}

	for _, out := range outputs {
		env[out.Key] = out.Value
	}

	if err := godotenv.Write(env, d.path); err != nil {
		return fmt.Errorf("write output file: %w", err)
	}

	d.logger.Debug("outputs written", slog.String("path", d.path), slog.Int("count", len(outputs)))
	return nil
}

// Ensure DotEnvExporter implements service.Exporter.
var _ service.Exporter = (*DotEnvExporter)(nil)
