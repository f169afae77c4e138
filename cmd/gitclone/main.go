// Package main is the entry point for the gitclone CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/helixml/gitclone/internal/config"
	"github.com/spf13/cobra"
)

// Version information set via ldflags during build.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// errCloneFailed is returned after the failure has already been logged.
var errCloneFailed = errors.New("clone failed")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, rootCmd())
	stop()
	os.Exit(code)
}

func execute(ctx context.Context, cmd *cobra.Command) int {
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errCloneFailed) {
			fmt.Fprintln(cmd.ErrOrStderr(), err)
		}
		return 1
	}
	return 0
}

func rootCmd() *cobra.Command {
	var flags cloneFlags

	cmd := &cobra.Command{
		Use:   "gitclone",
		Short: "Clone a repository at a branch, tag, commit or pull request",
		Long: `Clone a repository into a destination directory, check out one ref and
export the checked-out commit's metadata.

When several refs are given the most specific wins:
pull request, then commit, then tag, then branch.

Configuration is loaded in the following order (later sources override earlier):
  1. Default values
  2. .env file (if --env-file specified or .env exists in current directory)
  3. Environment variables
  4. Inputs file (--inputs-file)
  5. Command line flags

Environment variables:
  GIT_CLONE_REPO_URL               Repository URL (required)
  GIT_CLONE_BRANCH                 Branch to check out
  GIT_CLONE_TAG                    Tag to check out
  GIT_CLONE_COMMIT_HASH            Commit to check out
  GIT_CLONE_PULL_REQUEST           Pull request ID to check out
  GIT_CLONE_DEST_DIR               Destination directory (required)
  GIT_CLONE_CLONE_DEPTH            Fetch depth, empty for full history
  GIT_CLONE_FORMATTED_OUTPUT_FILE  Markdown report path
  AUTH_SSH_PRIVATE_KEY             SSH private key used for fetching
  GIT_PROVIDER                     Git implementation: git, go-git (default: git)
  OUTPUT_MODE                      Output sink: envman, dotenv, log (default: envman)
  OUTPUT_FILE                      Dotenv file for the dotenv output mode
  ENVMAN_PATH                      envman binary (default: envman)
  LOG_LEVEL                        Log level: DEBUG, INFO, WARN, ERROR (default: INFO)
  LOG_FORMAT                       Log format: pretty, text, json (default: pretty)`,
		Example: `  # Clone a branch
  gitclone --repo-url https://github.com/org/repo.git --branch main --dest-dir ./src

  # Clone a pull request shallowly and publish outputs to a dotenv file
  gitclone --repo-url git@github.com:org/repo.git --pull-request 42 \
    --dest-dir ./src --clone-depth 1 --output-mode dotenv --output-file outputs.env`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runClone(cmd, flags)
		},
	}

	flags.register(cmd)
	cmd.AddCommand(versionCmd())

	return cmd
}

// loadConfig loads configuration from .env file and environment variables.
func loadConfig(envFile string) (config.AppConfig, error) {
	cfg, err := config.LoadConfig(envFile)
	if err != nil {
		return config.AppConfig{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
