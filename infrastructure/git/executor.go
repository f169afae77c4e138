package git

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/helixml/gitclone/domain/clone"
	"github.com/helixml/gitclone/domain/service"
	"github.com/helixml/gitclone/infrastructure/tracking"
)

// Executor runs the clone state machine on top of an Adapter.
// Implements domain/service.Executor interface.
type Executor struct {
	adapter   Adapter
	reporters []tracking.Reporter
	logger    *slog.Logger
}

// NewExecutor creates a new Executor. Every run reports its transitions to
// reporters.
func NewExecutor(adapter Adapter, logger *slog.Logger, reporters ...tracking.Reporter) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{
		adapter:   adapter,
		reporters: reporters,
		logger:    logger,
	}
}

// stage is one step of the clone sequence.
type stage struct {
	name  clone.Stage
	state clone.State
	run   func(ctx context.Context) error
}

// Execute clones req into its destination directory and checks out target.
// Any failure after the directory check removes the destination.
func (e *Executor) Execute(ctx context.Context, req clone.Request, target clone.Target, cred clone.Credential) (clone.Outcome, error) {
	tracker := tracking.NewTracker(e.logger, e.reporters...)
	dir := req.DestinationDir()

	e.logger.Info("cloning repository",
		slog.String("uri", req.RepositoryURL()),
		slog.String("path", dir),
		slog.String("target", target.String()),
	)

	if err := e.checkDirectory(dir); err != nil {
		tracker.Fail(ctx, "directory check failed", err)
		return clone.NewFailed(target), err
	}
	tracker.Advance(ctx, clone.StateDirectoryChecked, dir)

	transport := NewTransport(cred)
	var commit clone.Commit

	stages := []stage{
		{clone.StageInit, clone.StateInitialized, func(ctx context.Context) error {
			return e.adapter.Init(ctx, dir)
		}},
		{clone.StageRemote, clone.StateRemoteAdded, func(ctx context.Context) error {
			return e.adapter.AddRemote(ctx, dir, req.RepositoryURL(), transport)
		}},
		{clone.StageFetch, clone.StateFetched, func(ctx context.Context) error {
			return e.adapter.Fetch(ctx, dir, target, req.CloneDepth(), transport)
		}},
	}
	if !target.IsNone() {
		stages = append(stages,
			stage{clone.StageCheckout, clone.StateCheckedOut, func(ctx context.Context) error {
				return e.adapter.Checkout(ctx, dir, target)
			}},
			stage{clone.StageSubmodule, clone.StateSubmodulesSynced, func(ctx context.Context) error {
				return e.adapter.UpdateSubmodules(ctx, dir, transport)
			}},
			stage{clone.StageMetadata, clone.StateMetadataExtracted, func(ctx context.Context) error {
				var err error
				commit, err = e.metadata(ctx, dir)
				return err
			}},
		)
	}

	for _, s := range stages {
		if err := s.run(ctx); err != nil {
			stageErr := clone.NewStageError(s.name, err)
			tracker.Fail(ctx, string(s.name)+" failed", stageErr)
			e.rollback(dir)
			return clone.NewFailed(target), stageErr
		}
		tracker.Advance(ctx, s.state, string(s.name)+" done")
	}

	if target.IsNone() {
		e.logger.Warn("no checkout parameter given, repository fetched without checkout",
			slog.String("path", dir),
		)
		tracker.Complete(ctx, "fetched without checkout")
		return clone.NewSucceeded(target, clone.Commit{}), nil
	}

	tracker.Complete(ctx, commit.Hash())
	return clone.NewSucceeded(target, commit), nil
}

// checkDirectory refuses an existing repository and creates dir if needed.
func (e *Executor) checkDirectory(dir string) error {
	if _, err := os.Lstat(filepath.Join(dir, ".git")); err == nil {
		return fmt.Errorf("%w: %s", clone.ErrAlreadyExists, dir)
	} else if !errors.Is(err, os.ErrNotExist) {
		return clone.NewStageError(clone.StageDirectory, err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return clone.NewStageError(clone.StageDirectory, err)
	}
	return nil
}

func (e *Executor) metadata(ctx context.Context, dir string) (clone.Commit, error) {
	info, err := e.adapter.HeadCommit(ctx, dir)
	if err != nil {
		return clone.Commit{}, err
	}

	log, err := e.adapter.LatestLog(ctx, dir)
	if err != nil {
		return clone.Commit{}, err
	}

	return info.ToCommit().WithLog(log), nil
}

func (e *Executor) rollback(dir string) {
	e.logger.Info("removing destination directory", slog.String("path", dir))
	if err := os.RemoveAll(dir); err != nil {
		e.logger.Error("failed to remove destination directory",
			slog.String("path", dir),
			slog.String("error", err.Error()),
		)
	}
}

// Ensure Executor implements service.Executor.
var _ service.Executor = (*Executor)(nil)
