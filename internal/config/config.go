// Package config provides application configuration.
package config

import (
	"log/slog"
	"strconv"
	"strings"
)

// Default configuration values.
const (
	DefaultLogLevel    = "INFO"
	DefaultGitProvider = GitProviderBinary
	DefaultOutputMode  = "envman"
	DefaultEnvmanPath  = "envman"
	DefaultSSHKeyName  = "gitclone"
)

// LogFormat represents the log output format.
type LogFormat string

// LogFormat values.
const (
	LogFormatPretty LogFormat = "pretty"
	LogFormatText   LogFormat = "text"
	LogFormatJSON   LogFormat = "json"
)

// GitProvider selects the git implementation.
type GitProvider string

// GitProvider values.
const (
	GitProviderBinary GitProvider = "git"
	GitProviderGoGit  GitProvider = "go-git"
)

// Inputs holds the raw step inputs. Empty fields are unset.
type Inputs struct {
	RepositoryURL  string
	Branch         string
	Tag            string
	CommitHash     string
	PullRequestID  string
	DestinationDir string
	CloneDepth     int
	ReportPath     string
}

// Merge returns i with every set field of other applied on top.
func (i Inputs) Merge(other Inputs) Inputs {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&i.RepositoryURL, other.RepositoryURL)
	set(&i.Branch, other.Branch)
	set(&i.Tag, other.Tag)
	set(&i.CommitHash, other.CommitHash)
	set(&i.PullRequestID, other.PullRequestID)
	set(&i.DestinationDir, other.DestinationDir)
	set(&i.ReportPath, other.ReportPath)
	if other.CloneDepth != 0 {
		i.CloneDepth = other.CloneDepth
	}
	return i
}

// AppConfig holds the main application configuration.
type AppConfig struct {
	logLevel    string
	logFormat   LogFormat
	gitProvider GitProvider
	outputMode  string
	outputFile  string
	envmanPath  string
	sshKeyName  string
	homeDir     string
	sshKey      string
	inputs      Inputs
}

// NewAppConfig creates a new AppConfig with defaults.
func NewAppConfig() AppConfig {
	return AppConfig{
		logLevel:    DefaultLogLevel,
		logFormat:   LogFormatPretty,
		gitProvider: DefaultGitProvider,
		outputMode:  DefaultOutputMode,
		envmanPath:  DefaultEnvmanPath,
		sshKeyName:  DefaultSSHKeyName,
	}
}

// LogLevel returns the log level.
func (c AppConfig) LogLevel() string { return c.logLevel }

// LogFormat returns the log format.
func (c AppConfig) LogFormat() LogFormat { return c.logFormat }

// GitProvider returns the git implementation to use.
func (c AppConfig) GitProvider() GitProvider { return c.gitProvider }

// OutputMode returns where outputs are published.
func (c AppConfig) OutputMode() string { return c.outputMode }

// OutputFile returns the dotenv output file.
func (c AppConfig) OutputFile() string { return c.outputFile }

// EnvmanPath returns the envman binary.
func (c AppConfig) EnvmanPath() string { return c.envmanPath }

// SSHKeyName returns the key file name under <home>/.ssh.
func (c AppConfig) SSHKeyName() string { return c.sshKeyName }

// HomeDir returns the home directory override, empty for the user's home.
func (c AppConfig) HomeDir() string { return c.homeDir }

// SSHKey returns the raw SSH private key.
func (c AppConfig) SSHKey() string { return c.sshKey }

// Inputs returns the step inputs.
func (c AppConfig) Inputs() Inputs { return c.inputs }

// AppConfigOption is a functional option for AppConfig.
type AppConfigOption func(*AppConfig)

// WithLogLevel sets the log level.
func WithLogLevel(level string) AppConfigOption {
	return func(c *AppConfig) { c.logLevel = level }
}

// WithLogFormat sets the log format.
func WithLogFormat(format LogFormat) AppConfigOption {
	return func(c *AppConfig) { c.logFormat = format }
}

// WithGitProvider sets the git implementation.
func WithGitProvider(p GitProvider) AppConfigOption {
	return func(c *AppConfig) { c.gitProvider = p }
}

// WithOutputMode sets the output mode.
func WithOutputMode(mode string) AppConfigOption {
	return func(c *AppConfig) { c.outputMode = mode }
}

// WithOutputFile sets the dotenv output file.
func WithOutputFile(path string) AppConfigOption {
	return func(c *AppConfig) { c.outputFile = path }
}

// WithEnvmanPath sets the envman binary.
func WithEnvmanPath(path string) AppConfigOption {
	return func(c *AppConfig) { c.envmanPath = path }
}

// WithSSHKeyName sets the key file name.
func WithSSHKeyName(name string) AppConfigOption {
	return func(c *AppConfig) { c.sshKeyName = name }
}

// WithHomeDir sets the home directory the key is written below.
func WithHomeDir(dir string) AppConfigOption {
	return func(c *AppConfig) { c.homeDir = dir }
}

// WithSSHKey sets the raw SSH private key.
func WithSSHKey(key string) AppConfigOption {
	return func(c *AppConfig) { c.sshKey = key }
}

// WithInputs replaces the step inputs.
func WithInputs(in Inputs) AppConfigOption {
	return func(c *AppConfig) { c.inputs = in }
}

// NewAppConfigWithOptions creates an AppConfig with options applied.
func NewAppConfigWithOptions(opts ...AppConfigOption) AppConfig {
	cfg := NewAppConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Apply returns a new AppConfig with the given options applied.
func (c AppConfig) Apply(opts ...AppConfigOption) AppConfig {
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// LogAttrs returns the configuration as log attributes. The SSH key is
// never included.
func (c AppConfig) LogAttrs() []slog.Attr {
	in := c.inputs
	return []slog.Attr{
		slog.String("repo_url", in.RepositoryURL),
		slog.String("branch", in.Branch),
		slog.String("tag", in.Tag),
		slog.String("commit_hash", in.CommitHash),
		slog.String("pull_request_id", in.PullRequestID),
		slog.String("clone_destination_dir", in.DestinationDir),
		slog.String("clone_depth", formatDepth(in.CloneDepth)),
		slog.String("formatted_output_file_path", in.ReportPath),
		slog.String("auth_ssh_key_raw", c.maskedSSHKey()),
		slog.String("git_provider", string(c.gitProvider)),
		slog.String("output_mode", c.outputMode),
		slog.String("log_level", c.logLevel),
		slog.String("log_format", string(c.logFormat)),
	}
}

func (c AppConfig) maskedSSHKey() string {
	if c.sshKey == "" {
		return "no SSH key provided"
	}
	return "*****"
}

func formatDepth(depth int) string {
	if depth == 0 {
		return ""
	}
	return strconv.Itoa(depth)
}

// ParseLogFormat parses a log format string.
func ParseLogFormat(s string) LogFormat {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return LogFormatJSON
	case "text", "plain":
		return LogFormatText
	default:
		return LogFormatPretty
	}
}

// ParseGitProvider parses a git provider name. Unknown names fall back to
// the git binary.
func ParseGitProvider(s string) GitProvider {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "go-git", "gogit":
		return GitProviderGoGit
	default:
		return GitProviderBinary
	}
}
