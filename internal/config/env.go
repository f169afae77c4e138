package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// legacySSHKeyEnv is the lowercase variable older pipelines export the
// key under.
const legacySSHKeyEnv = "auth_ssh_private_key"

// EnvConfig holds all environment-based configuration.
// Nested structs use underscore delimiter (e.g., GIT_CLONE_REPO_URL).
type EnvConfig struct {
	// LogLevel is the log verbosity level.
	// Env: LOG_LEVEL (default: INFO)
	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO"`

	// LogFormat is the log output format (pretty, text or json).
	// Env: LOG_FORMAT (default: pretty)
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// GitProvider selects the git implementation (git or go-git).
	// Env: GIT_PROVIDER (default: git)
	GitProvider string `envconfig:"GIT_PROVIDER" default:"git"`

	// OutputMode selects where outputs go (envman, dotenv or log).
	// Env: OUTPUT_MODE (default: envman)
	OutputMode string `envconfig:"OUTPUT_MODE" default:"envman"`

	// OutputFile is the dotenv file used by the dotenv output mode.
	// Env: OUTPUT_FILE
	OutputFile string `envconfig:"OUTPUT_FILE"`

	// EnvmanPath is the envman binary.
	// Env: ENVMAN_PATH (default: envman)
	EnvmanPath string `envconfig:"ENVMAN_PATH" default:"envman"`

	// SSHKeyFile is the key file name under <home>/.ssh.
	// Env: SSH_KEY_FILE (default: gitclone)
	SSHKeyFile string `envconfig:"SSH_KEY_FILE" default:"gitclone"`

	// HomeDir overrides the home directory the key is written below.
	// Env: HOME_DIR
	HomeDir string `envconfig:"HOME_DIR"`

	// SSHPrivateKey is the raw private key.
	// Env: AUTH_SSH_PRIVATE_KEY or auth_ssh_private_key
	SSHPrivateKey string `envconfig:"AUTH_SSH_PRIVATE_KEY"`

	// Inputs are the step inputs.
	Inputs InputsEnv `envconfig:"GIT_CLONE"`
}

// InputsEnv holds the step inputs read from the environment.
type InputsEnv struct {
	// Env: GIT_CLONE_REPO_URL
	RepoURL string `envconfig:"REPO_URL"`

	// Env: GIT_CLONE_BRANCH
	Branch string `envconfig:"BRANCH"`

	// Env: GIT_CLONE_TAG
	Tag string `envconfig:"TAG"`

	// Env: GIT_CLONE_COMMIT_HASH
	CommitHash string `envconfig:"COMMIT_HASH"`

	// Env: GIT_CLONE_PULL_REQUEST
	PullRequest string `envconfig:"PULL_REQUEST"`

	// Env: GIT_CLONE_DEST_DIR
	DestDir string `envconfig:"DEST_DIR"`

	// CloneDepth is kept as text so an empty variable means unset.
	// Env: GIT_CLONE_CLONE_DEPTH
	CloneDepth string `envconfig:"CLONE_DEPTH"`

	// Env: GIT_CLONE_FORMATTED_OUTPUT_FILE
	FormattedOutputFile string `envconfig:"FORMATTED_OUTPUT_FILE"`
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return EnvConfig{}, err
	}
	if cfg.SSHPrivateKey == "" {
		if key, ok := os.LookupEnv(legacySSHKeyEnv); ok {
			cfg.SSHPrivateKey = key
		}
	}
	return cfg, nil
}

// ToAppConfig converts EnvConfig to AppConfig.
func (e EnvConfig) ToAppConfig() (AppConfig, error) {
	inputs, err := e.Inputs.ToInputs()
	if err != nil {
		return AppConfig{}, err
	}

	cfg := NewAppConfig()

	if e.LogLevel != "" {
		cfg = applyOption(cfg, WithLogLevel(e.LogLevel))
	}
	if e.LogFormat != "" {
		cfg = applyOption(cfg, WithLogFormat(ParseLogFormat(e.LogFormat)))
	}
	if e.GitProvider != "" {
		cfg = applyOption(cfg, WithGitProvider(ParseGitProvider(e.GitProvider)))
	}
	if e.OutputMode != "" {
		cfg = applyOption(cfg, WithOutputMode(e.OutputMode))
	}
	if e.OutputFile != "" {
		cfg = applyOption(cfg, WithOutputFile(e.OutputFile))
	}
	if e.EnvmanPath != "" {
		cfg = applyOption(cfg, WithEnvmanPath(e.EnvmanPath))
	}
	if e.SSHKeyFile != "" {
		cfg = applyOption(cfg, WithSSHKeyName(e.SSHKeyFile))
	}
	if e.HomeDir != "" {
		cfg = applyOption(cfg, WithHomeDir(e.HomeDir))
	}
	if e.SSHPrivateKey != "" {
		cfg = applyOption(cfg, WithSSHKey(e.SSHPrivateKey))
	}

	return applyOption(cfg, WithInputs(inputs)), nil
}

// ToInputs converts InputsEnv to Inputs.
func (i InputsEnv) ToInputs() (Inputs, error) {
	depth, err := ParseDepth(i.CloneDepth)
	if err != nil {
		return Inputs{}, err
	}
	return Inputs{
		RepositoryURL:  i.RepoURL,
		Branch:         i.Branch,
		Tag:            i.Tag,
		CommitHash:     i.CommitHash,
		PullRequestID:  i.PullRequest,
		DestinationDir: i.DestDir,
		CloneDepth:     depth,
		ReportPath:     i.FormattedOutputFile,
	}, nil
}

// ParseDepth parses a clone depth. Empty means unset.
func ParseDepth(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	depth, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("parse clone depth %q: %w", s, err)
	}
	return depth, nil
}

// applyOption applies an option to the config.
func applyOption(cfg AppConfig, opt AppConfigOption) AppConfig {
	opt(&cfg)
	return cfg
}
