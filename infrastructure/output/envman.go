// Package output publishes clone outputs to the calling pipeline.
package output

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/helixml/gitclone/domain/clone"
	"github.com/helixml/gitclone/domain/service"
)

// DefaultEnvmanPath is the envman binary looked up on PATH.
const DefaultEnvmanPath = "envman"

// EnvmanExporter publishes outputs with "envman add --key <KEY>", passing
// the value on stdin so it is never split or interpreted by a shell.
type EnvmanExporter struct {
	path   string
	logger *slog.Logger
}

// NewEnvmanExporter creates an EnvmanExporter running the binary at path.
func NewEnvmanExporter(path string, logger *slog.Logger) *EnvmanExporter {
	if logger == nil {
		logger = slog.Default()
	}
	if path == "" {
		path = DefaultEnvmanPath
	}
	return &EnvmanExporter{path: path, logger: logger}
}

// Export runs envman once per output, in order.
func (e *EnvmanExporter) Export(ctx context.Context, outputs []clone.Output) error {
	for _, out := range outputs {
		var stderr bytes.Buffer
		cmd := exec.CommandContext(ctx, e.path, "add", "--key", out.Key)
		cmd.Stdin = strings.NewReader(out.Value)
		cmd.Stderr = &stderr

		if err := cmd.Run(); err != nil {
			return fmt.Errorf("envman add %s: %w: %s", out.Key, err, strings.TrimSpace(stderr.String()))
		}
		e.logger.Debug("exported output", slog.String("key", out.Key))
	}
	return nil
}

// Ensure EnvmanExporter implements service.Exporter.
var _ service.Exporter = (*EnvmanExporter)(nil)
