package main

import (
	"fmt"

	"github.com/helixml/gitclone"
	"github.com/helixml/gitclone/domain/clone"
	"github.com/helixml/gitclone/internal/config"
	"github.com/helixml/gitclone/internal/log"
	"github.com/spf13/cobra"
)

// cloneFlags holds the command line overrides.
type cloneFlags struct {
	envFile    string
	inputsFile string

	repoURL     string
	branch      string
	tag         string
	commitHash  string
	pullRequest string
	destDir     string
	cloneDepth  string
	reportPath  string

	gitProvider string
	logLevel    string
	logFormat   string
	outputMode  string
	outputFile  string
	envmanPath  string
}

func (f *cloneFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	fs.StringVar(&f.inputsFile, "inputs-file", "", "Path to a YAML file with step inputs")

	fs.StringVar(&f.repoURL, "repo-url", "", "Repository URL")
	fs.StringVar(&f.branch, "branch", "", "Branch to check out")
	fs.StringVar(&f.tag, "tag", "", "Tag to check out")
	fs.StringVar(&f.commitHash, "commit-hash", "", "Commit to check out")
	fs.StringVar(&f.pullRequest, "pull-request", "", "Pull request ID to check out")
	fs.StringVar(&f.destDir, "dest-dir", "", "Destination directory")
	fs.StringVar(&f.cloneDepth, "clone-depth", "", "Fetch depth (empty for full history)")
	fs.StringVar(&f.reportPath, "formatted-output-file", "", "Write a markdown report to this path")

	fs.StringVar(&f.gitProvider, "git-provider", "", "Git implementation: git, go-git")
	fs.StringVar(&f.logLevel, "log-level", "", "Log level: DEBUG, INFO, WARN, ERROR")
	fs.StringVar(&f.logFormat, "log-format", "", "Log format: pretty, text, json")
	fs.StringVar(&f.outputMode, "output-mode", "", "Output sink: envman, dotenv, log")
	fs.StringVar(&f.outputFile, "output-file", "", "Dotenv file for the dotenv output mode")
	fs.StringVar(&f.envmanPath, "envman-path", "", "envman binary")
}

// resolveConfig layers the inputs file and command line flags over cfg.
func (f cloneFlags) resolveConfig(cmd *cobra.Command, cfg config.AppConfig) (config.AppConfig, error) {
	inputs := cfg.Inputs()

	if f.inputsFile != "" {
		fileInputs, err := config.LoadInputsFile(f.inputsFile)
		if err != nil {
			return config.AppConfig{}, err
		}
		inputs = inputs.Merge(fileInputs)
	}

	flagInputs := config.Inputs{
		RepositoryURL:  f.repoURL,
		Branch:         f.branch,
		Tag:            f.tag,
		CommitHash:     f.commitHash,
		PullRequestID:  f.pullRequest,
		DestinationDir: f.destDir,
		ReportPath:     f.reportPath,
	}
	if f.cloneDepth != "" {
		depth, err := config.ParseDepth(f.cloneDepth)
		if err != nil {
			return config.AppConfig{}, err
		}
		flagInputs.CloneDepth = depth
	}
	inputs = inputs.Merge(flagInputs)

	// A flag given empty clears the value from lower layers.
	changed := cmd.Flags().Changed
	for name, dst := range map[string]*string{
		"repo-url":              &inputs.RepositoryURL,
		"branch":                &inputs.Branch,
		"tag":                   &inputs.Tag,
		"commit-hash":           &inputs.CommitHash,
		"pull-request":          &inputs.PullRequestID,
		"dest-dir":              &inputs.DestinationDir,
		"formatted-output-file": &inputs.ReportPath,
	} {
		if changed(name) {
			*dst, _ = cmd.Flags().GetString(name)
		}
	}
	if changed("clone-depth") {
		inputs.CloneDepth = flagInputs.CloneDepth
	}

	opts := []config.AppConfigOption{config.WithInputs(inputs)}
	if changed("git-provider") {
		opts = append(opts, config.WithGitProvider(config.ParseGitProvider(f.gitProvider)))
	}
	if changed("log-level") {
		opts = append(opts, config.WithLogLevel(f.logLevel))
	}
	if changed("log-format") {
		opts = append(opts, config.WithLogFormat(config.ParseLogFormat(f.logFormat)))
	}
	if changed("output-mode") {
		opts = append(opts, config.WithOutputMode(f.outputMode))
	}
	if changed("output-file") {
		opts = append(opts, config.WithOutputFile(f.outputFile))
	}
	if changed("envman-path") {
		opts = append(opts, config.WithEnvmanPath(f.envmanPath))
	}

	return cfg.Apply(opts...), nil
}

func runClone(cmd *cobra.Command, flags cloneFlags) error {
	cfg, err := loadConfig(flags.envFile)
	if err != nil {
		return err
	}

	cfg, err = flags.resolveConfig(cmd, cfg)
	if err != nil {
		return err
	}

	logger := log.Configure(cfg)
	logger.Config(cfg)

	step, err := gitclone.New(
		gitclone.WithConfig(cfg),
		gitclone.WithLogger(logger.Slog()),
	)
	if err != nil {
		return err
	}

	outcome, err := step.Run(cmd.Context(), gitclone.InputFromConfig(cfg))
	if err != nil {
		if clone.IsValidation(err) {
			_ = cmd.Usage()
			return fmt.Errorf("invalid inputs: %w", err)
		}
		logger.Error("clone failed", "error", err)
		return errCloneFailed
	}

	if !outcome.Success() {
		return errCloneFailed
	}
	logger.Info("clone finished", "target", outcome.Target().String(), "commit", outcome.CommitHash())
	return nil
}
