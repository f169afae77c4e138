package git

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"sync"

	giteagit "code.gitea.io/gitea/modules/git"
	"code.gitea.io/gitea/modules/git/gitcmd"
	"code.gitea.io/gitea/modules/setting"
	"github.com/helixml/gitclone/domain/clone"
)

// GiteaAdapter implements Adapter using Gitea's git module (native git binary).
type GiteaAdapter struct {
	logger *slog.Logger
}

var giteaInitOnce sync.Once
var giteaInitErr error

// NewGiteaAdapter creates a new GiteaAdapter. It initializes the Gitea git
// module once (verifying the git binary is available).
func NewGiteaAdapter(logger *slog.Logger) (*GiteaAdapter, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if _, err := exec.LookPath("git"); err != nil {
		return nil, fmt.Errorf("git is not installed or not in PATH: install git and try again")
	}

	giteaInitOnce.Do(func() {
		// Gitea's git module requires a HomePath for its git environment.
		// Use a temporary directory so git config is isolated.
		home, err := os.MkdirTemp("", "gitclone-git-home-*")
		if err != nil {
			giteaInitErr = fmt.Errorf("create git home directory: %w", err)
			return
		}
		setting.Git.HomePath = home

		giteaInitErr = giteagit.InitSimple()
	})
	if giteaInitErr != nil {
		return nil, fmt.Errorf("init git: %w", giteaInitErr)
	}

	return &GiteaAdapter{logger: logger}, nil
}

// Init initializes an empty repository.
func (g *GiteaAdapter) Init(ctx context.Context, localPath string) error {
	_, _, err := gitcmd.NewCommand("init").
		RunStdString(ctx, &gitcmd.RunOpts{Dir: localPath})
	if err != nil {
		return fmt.Errorf("init repository: %w", err)
	}
	return nil
}

// AddRemote registers remoteURI as the origin remote.
func (g *GiteaAdapter) AddRemote(ctx context.Context, localPath string, remoteURI string, transport Transport) error {
	_, _, err := gitcmd.NewCommand("remote", "add", DefaultRemote).
		AddDynamicArguments(remoteURI).
		RunStdString(ctx, g.runOpts(localPath, transport))
	if err != nil {
		return fmt.Errorf("add remote: %w", err)
	}
	return nil
}

// Fetch fetches the refs needed for target from origin.
func (g *GiteaAdapter) Fetch(ctx context.Context, localPath string, target clone.Target, depth int, transport Transport) error {
	cmd := gitcmd.NewCommand("fetch")
	if depth > 0 {
		cmd = cmd.AddOptionFormat("--depth=%d", depth)
	}
	if refspec, ok := fetchRefspec(target); ok {
		cmd = cmd.AddArguments(DefaultRemote).AddDynamicArguments(refspec)
	}

	g.logger.Debug("fetching",
		slog.String("path", localPath),
		slog.String("target", target.String()),
		slog.Int("depth", depth),
	)

	_, _, err := cmd.RunStdString(ctx, g.runOpts(localPath, transport))
	if err != nil {
		return fmt.Errorf("fetch repository: %w", err)
	}
	return nil
}

// Checkout checks out the target's ref.
func (g *GiteaAdapter) Checkout(ctx context.Context, localPath string, target clone.Target) error {
	_, _, err := gitcmd.NewCommand("checkout").
		AddDynamicArguments(target.Ref()).
		RunStdString(ctx, &gitcmd.RunOpts{Dir: localPath})
	if err != nil {
		return fmt.Errorf("checkout %s: %w", target.Ref(), err)
	}
	return nil
}

// UpdateSubmodules recursively initializes and updates submodules.
func (g *GiteaAdapter) UpdateSubmodules(ctx context.Context, localPath string, transport Transport) error {
	_, _, err := gitcmd.NewCommand("submodule", "update", "--init", "--recursive").
		RunStdString(ctx, g.runOpts(localPath, transport))
	if err != nil {
		return fmt.Errorf("update submodules: %w", err)
	}
	return nil
}

// HeadCommit returns metadata of the checked-out commit.
func (g *GiteaAdapter) HeadCommit(ctx context.Context, localPath string) (CommitInfo, error) {
	stdout, _, err := gitcmd.NewCommand("log", "-1", headCommitFormat).
		RunStdString(ctx, &gitcmd.RunOpts{Dir: localPath})
	if err != nil {
		return CommitInfo{}, fmt.Errorf("get head commit: %w", err)
	}
	return parseHeadCommit(stdout)
}

// LatestLog returns the fuller-format log of the newest reachable commit.
func (g *GiteaAdapter) LatestLog(ctx context.Context, localPath string) (string, error) {
	stdout, _, err := gitcmd.NewCommand("log", "-n", "1", "--tags", "--branches", "--remotes", "--format=fuller").
		RunStdString(ctx, &gitcmd.RunOpts{Dir: localPath})
	if err != nil {
		return "", fmt.Errorf("get commit log: %w", err)
	}
	return stdout, nil
}

// runOpts returns run options carrying the transport's environment.
func (g *GiteaAdapter) runOpts(localPath string, transport Transport) *gitcmd.RunOpts {
	env := append(os.Environ(), transport.Env()...)
	return &gitcmd.RunOpts{Dir: localPath, Env: env}
}

// Ensure GiteaAdapter implements Adapter.
var _ Adapter = (*GiteaAdapter)(nil)
