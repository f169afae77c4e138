// Package gitclone clones one repository at one resolved ref and publishes
// the checked-out commit's metadata.
//
// Basic usage:
//
//	step, err := gitclone.New(
//	    gitclone.WithOutputMode(output.ModeLog),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	outcome, err := step.Run(ctx, clone.Input{
//	    RepositoryURL:  "git@github.com:org/repo.git",
//	    Branch:         "main",
//	    DestinationDir: "./src",
//	})
//	os.Exit(outcome.ExitCode())
package gitclone

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/helixml/gitclone/application/service"
	"github.com/helixml/gitclone/domain/clone"
	"github.com/helixml/gitclone/infrastructure/credential"
	"github.com/helixml/gitclone/infrastructure/git"
	"github.com/helixml/gitclone/infrastructure/output"
	"github.com/helixml/gitclone/infrastructure/report"
	"github.com/helixml/gitclone/infrastructure/tracking"
	"github.com/helixml/gitclone/internal/config"
)

// Step runs clones. It is safe to reuse for several runs as long as they
// target different destinations.
type Step struct {
	pipeline *service.Pipeline
	logger   *slog.Logger
}

// New creates a Step with the given options.
func New(opts ...Option) (*Step, error) {
	cfg := newStepConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	executor := cfg.executor
	if executor == nil {
		adapter, err := buildAdapter(cfg.gitProvider, logger)
		if err != nil {
			return nil, err
		}
		reporters := append([]tracking.Reporter{tracking.NewLoggingReporter(logger)}, cfg.reporters...)
		executor = git.NewExecutor(adapter, logger, reporters...)
	}

	provisioner := cfg.provisioner
	if provisioner == nil {
		p, err := credential.NewFileProvisioner(cfg.homeDir, cfg.sshKeyName, logger)
		if err != nil {
			return nil, fmt.Errorf("create credential provisioner: %w", err)
		}
		provisioner = p
	}

	exporter := cfg.exporter
	if exporter == nil {
		e, err := output.New(cfg.outputMode, cfg.envmanPath, cfg.outputFile, logger)
		if err != nil {
			return nil, fmt.Errorf("create exporter: %w", err)
		}
		exporter = e
	}

	reports := cfg.reports
	if reports == nil {
		reports = report.NewMarkdownWriter(logger)
	}

	return &Step{
		pipeline: service.NewPipeline(provisioner, executor, exporter, reports, logger),
		logger:   logger,
	}, nil
}

// Run validates in and performs the clone. Validation errors satisfy
// clone.IsValidation and happen before anything touches the filesystem.
func (s *Step) Run(ctx context.Context, in clone.Input) (clone.Outcome, error) {
	req, err := clone.Resolve(in)
	if err != nil {
		return clone.NewFailed(clone.Target{}), err
	}
	return s.pipeline.Run(ctx, req)
}

// InputFromConfig builds the clone input from configuration.
func InputFromConfig(cfg config.AppConfig) clone.Input {
	in := cfg.Inputs()
	return clone.Input{
		RepositoryURL:  in.RepositoryURL,
		Branch:         in.Branch,
		Tag:            in.Tag,
		CommitHash:     in.CommitHash,
		PullRequestID:  in.PullRequestID,
		DestinationDir: in.DestinationDir,
		CloneDepth:     in.CloneDepth,
		ReportPath:     in.ReportPath,
		SSHKey:         cfg.SSHKey(),
	}
}

func buildAdapter(provider config.GitProvider, logger *slog.Logger) (git.Adapter, error) {
	switch provider {
	case config.GitProviderGoGit:
		return git.NewGoGitAdapter(logger), nil
	default:
		adapter, err := git.NewGiteaAdapter(logger)
		if err != nil {
			return nil, fmt.Errorf("create git adapter: %w", err)
		}
		return adapter, nil
	}
}
