// Package service orchestrates a clone run from validated request to
// published outputs.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/helixml/gitclone/domain/clone"
	"github.com/helixml/gitclone/domain/service"
)

// Pipeline runs one clone: provision the credential, select the target,
// execute the clone, publish outputs, write the report and release the
// credential.
type Pipeline struct {
	provisioner service.Provisioner
	executor    service.Executor
	exporter    service.Exporter
	reports     service.ReportWriter
	logger      *slog.Logger
}

// NewPipeline creates a new Pipeline.
func NewPipeline(
	provisioner service.Provisioner,
	executor service.Executor,
	exporter service.Exporter,
	reports service.ReportWriter,
	logger *slog.Logger,
) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		provisioner: provisioner,
		executor:    executor,
		exporter:    exporter,
		reports:     reports,
		logger:      logger,
	}
}

// Run executes the clone described by req. The credential file is
// released before Run returns, whatever the outcome.
func (p *Pipeline) Run(ctx context.Context, req clone.Request) (outcome clone.Outcome, err error) {
	target := clone.SelectTarget(req)
	if target.IsNone() {
		p.logger.Warn("no checkout parameter found: set a branch, tag, commit hash or pull request")
	}

	cred, err := p.provisioner.Provision(ctx, req.SSHKey())
	if err != nil {
		return clone.NewFailed(target), fmt.Errorf("provision credential: %w", err)
	}
	defer p.release(ctx, cred)
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("clone panicked", slog.Any("panic", r))
			p.removeDestination(req.DestinationDir())
			outcome = clone.NewFailed(target)
			err = fmt.Errorf("%w: %v", ErrPanicked, r)
		}
	}()

	p.logger.Info("starting clone", slog.Any("request", req), slog.String("target", target.String()))

	outcome, err = p.executor.Execute(ctx, req, target, cred)
	if err != nil {
		p.logger.Error("clone failed", slog.String("error", err.Error()))
		return outcome, err
	}

	if target.IsNone() || !outcome.HasCommit() {
		p.logger.Info("clone finished without checkout", slog.String("path", req.DestinationDir()))
		return outcome, nil
	}

	if err := p.publish(ctx, req, outcome.Commit()); err != nil {
		p.logger.Error("publishing failed", slog.String("error", err.Error()))
		p.removeDestination(req.DestinationDir())
		return clone.NewFailed(target), err
	}

	p.logger.Info("clone succeeded",
		slog.String("commit", outcome.CommitHash()),
		slog.String("path", req.DestinationDir()),
	)
	return outcome, nil
}

func (p *Pipeline) publish(ctx context.Context, req clone.Request, commit clone.Commit) error {
	if err := p.exporter.Export(ctx, commit.Outputs()); err != nil {
		return clone.NewStageError(clone.StageOutput, err)
	}

	if !req.HasReport() || p.reports == nil {
		return nil
	}
	if err := p.reports.Write(ctx, req.ReportPath(), commit); err != nil {
		return clone.NewStageError(clone.StageReport, err)
	}
	return nil
}

func (p *Pipeline) release(ctx context.Context, cred clone.Credential) {
	if cred.IsEmpty() {
		return
	}
	p.logger.Info("removing private key file", slog.String("path", cred.Path()))
	if err := p.provisioner.Release(ctx, cred); err != nil {
		p.logger.Warn("failed to remove private key file",
			slog.String("path", cred.Path()),
			slog.String("error", err.Error()),
		)
	}
}

func (p *Pipeline) removeDestination(dir string) {
	if err := os.RemoveAll(dir); err != nil {
		p.logger.Error("failed to remove destination directory",
			slog.String("path", dir),
			slog.String("error", err.Error()),
		)
	}
}
