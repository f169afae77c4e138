package gitclone

import (
	"log/slog"

	"github.com/helixml/gitclone/domain/service"
	"github.com/helixml/gitclone/infrastructure/output"
	"github.com/helixml/gitclone/infrastructure/tracking"
	"github.com/helixml/gitclone/internal/config"
)

// stepConfig holds configuration for Step construction.
// Use newStepConfig() to create with defaults from internal/config.
type stepConfig struct {
	gitProvider config.GitProvider
	outputMode  output.Mode
	outputFile  string
	envmanPath  string
	homeDir     string
	sshKeyName  string
	logger      *slog.Logger
	reporters   []tracking.Reporter
	executor    service.Executor
	provisioner service.Provisioner
	exporter    service.Exporter
	reports     service.ReportWriter
}

// newStepConfig creates a stepConfig with defaults from internal/config.
func newStepConfig() *stepConfig {
	return &stepConfig{
		gitProvider: config.DefaultGitProvider,
		outputMode:  output.ModeEnvman,
		envmanPath:  config.DefaultEnvmanPath,
		sshKeyName:  config.DefaultSSHKeyName,
	}
}

// Option configures the Step.
type Option func(*stepConfig)

// WithConfig applies an AppConfig. Options given after it override it.
// An unknown output mode falls back to envman.
func WithConfig(cfg config.AppConfig) Option {
	return func(c *stepConfig) {
		c.gitProvider = cfg.GitProvider()
		if mode, err := output.ParseMode(cfg.OutputMode()); err == nil {
			c.outputMode = mode
		}
		c.outputFile = cfg.OutputFile()
		c.envmanPath = cfg.EnvmanPath()
		c.homeDir = cfg.HomeDir()
		c.sshKeyName = cfg.SSHKeyName()
	}
}

// WithGitBinary runs clones with the git binary. This is the default.
func WithGitBinary() Option {
	return func(c *stepConfig) {
		c.gitProvider = config.GitProviderBinary
	}
}

// WithGoGit runs clones with the pure-Go git implementation.
func WithGoGit() Option {
	return func(c *stepConfig) {
		c.gitProvider = config.GitProviderGoGit
	}
}

// WithOutputMode selects where outputs are published.
func WithOutputMode(mode output.Mode) Option {
	return func(c *stepConfig) {
		c.outputMode = mode
	}
}

// WithOutputFile sets the dotenv file used by output.ModeDotEnv.
func WithOutputFile(path string) Option {
	return func(c *stepConfig) {
		c.outputFile = path
	}
}

// WithEnvmanPath sets the envman binary used by output.ModeEnvman.
func WithEnvmanPath(path string) Option {
	return func(c *stepConfig) {
		c.envmanPath = path
	}
}

// WithKeyLocation sets where the SSH key is written: <homeDir>/.ssh/<name>.
// An empty homeDir means the user's home directory.
func WithKeyLocation(homeDir, name string) Option {
	return func(c *stepConfig) {
		c.homeDir = homeDir
		c.sshKeyName = name
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *stepConfig) {
		c.logger = l
	}
}

// WithReporters adds progress reporters to the built-in logging reporter.
func WithReporters(reporters ...tracking.Reporter) Option {
	return func(c *stepConfig) {
		c.reporters = append(c.reporters, reporters...)
	}
}

// WithExecutor replaces the clone executor.
func WithExecutor(e service.Executor) Option {
	return func(c *stepConfig) {
		c.executor = e
	}
}

// WithProvisioner replaces the credential provisioner.
func WithProvisioner(p service.Provisioner) Option {
	return func(c *stepConfig) {
		c.provisioner = p
	}
}

// WithExporter replaces the output exporter.
func WithExporter(e service.Exporter) Option {
	return func(c *stepConfig) {
		c.exporter = e
	}
}

// WithReportWriter replaces the report writer.
func WithReportWriter(w service.ReportWriter) Option {
	return func(c *stepConfig) {
		c.reports = w
	}
}
