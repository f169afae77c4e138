package output

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/helixml/gitclone/domain/service"
)

// Mode selects where outputs are published.
type Mode string

// Output modes.
const (
	ModeEnvman Mode = "envman"
	ModeDotEnv Mode = "dotenv"
	ModeLog    Mode = "log"
)

// ParseMode parses a mode name, case-insensitively. Empty means envman.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeEnvman:
		return ModeEnvman, nil
	case ModeDotEnv:
		return ModeDotEnv, nil
	case ModeLog:
		return ModeLog, nil
	default:
		return "", fmt.Errorf("unknown output mode %q", s)
	}
}

// New creates the exporter for mode. envmanPath is used by ModeEnvman and
// file by ModeDotEnv.
func New(mode Mode, envmanPath, file string, logger *slog.Logger) (service.Exporter, error) {
	switch mode {
	case ModeEnvman, "":
		return NewEnvmanExporter(envmanPath, logger), nil
	case ModeDotEnv:
		if file == "" {
			return nil, ErrNoOutputFile
		}
		return Multi{NewDotEnvExporter(file, logger), NewLogExporter(logger)}, nil
	case ModeLog:
		return NewLogExporter(logger), nil
	default:
		return nil, fmt.Errorf("unknown output mode %q", mode)
	}
}
