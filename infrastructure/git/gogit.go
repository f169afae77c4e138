package git

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
	gossh "golang.org/x/crypto/ssh"

	"github.com/helixml/gitclone/domain/clone"
)

// ErrNoCommits indicates the repository has no reachable commits.
var ErrNoCommits = errors.New("no commits found")

// defaultSSHUser is used when the remote URL does not name a user.
const defaultSSHUser = "git"

// GoGitAdapter implements Adapter using go-git library.
type GoGitAdapter struct {
	logger *slog.Logger
}

// NewGoGitAdapter creates a new GoGitAdapter.
func NewGoGitAdapter(logger *slog.Logger) *GoGitAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &GoGitAdapter{logger: logger}
}

// Init initializes an empty repository.
func (g *GoGitAdapter) Init(_ context.Context, localPath string) error {
	if _, err := gogit.PlainInit(localPath, false); err != nil {
		return fmt.Errorf("init repository: %w", err)
	}
	return nil
}

// AddRemote registers remoteURI as the origin remote.
func (g *GoGitAdapter) AddRemote(_ context.Context, localPath string, remoteURI string, _ Transport) error {
	repo, err := gogit.PlainOpen(localPath)
	if err != nil {
		return fmt.Errorf("open repository: %w", err)
	}

	_, err = repo.CreateRemote(&config.RemoteConfig{
		Name: DefaultRemote,
		URLs: []string{remoteURI},
	})
	if err != nil {
		return fmt.Errorf("add remote: %w", err)
	}
	return nil
}

// Fetch fetches the refs needed for target from origin.
func (g *GoGitAdapter) Fetch(ctx context.Context, localPath string, target clone.Target, depth int, t Transport) error {
	repo, err := gogit.PlainOpen(localPath)
	if err != nil {
		return fmt.Errorf("open repository: %w", err)
	}

	remote, err := repo.Remote(DefaultRemote)
	if err != nil {
		return fmt.Errorf("get remote: %w", err)
	}

	auth, err := g.auth(remote.Config().URLs[0], t)
	if err != nil {
		return err
	}

	g.logger.Debug("fetching",
		slog.String("path", localPath),
		slog.String("target", target.String()),
		slog.Int("depth", depth),
	)

	err = repo.FetchContext(ctx, &gogit.FetchOptions{
		RemoteName: DefaultRemote,
		RefSpecs:   goGitRefSpecs(target),
		Depth:      depth,
		Auth:       auth,
	})
	if err != nil && !errors.Is(err, gogit.NoErrAlreadyUpToDate) {
		return fmt.Errorf("fetch repository: %w", err)
	}
	return nil
}

// Checkout checks out the target's ref. A branch that only exists on the
// remote gets a local branch, the way git checkout does it.
func (g *GoGitAdapter) Checkout(_ context.Context, localPath string, target clone.Target) error {
	repo, err := gogit.PlainOpen(localPath)
	if err != nil {
		return fmt.Errorf("open repository: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("get worktree: %w", err)
	}

	opts, err := g.checkoutOptions(repo, target)
	if err != nil {
		return fmt.Errorf("checkout %s: %w", target.Ref(), err)
	}
	opts.Force = true

	if err := worktree.Checkout(opts); err != nil {
		return fmt.Errorf("checkout %s: %w", target.Ref(), err)
	}
	return nil
}

func (g *GoGitAdapter) checkoutOptions(repo *gogit.Repository, target clone.Target) (*gogit.CheckoutOptions, error) {
	switch target.Kind() {
	case clone.TargetPullRequest:
		return &gogit.CheckoutOptions{
			Branch: plumbing.NewBranchReferenceName(target.Ref()),
		}, nil
	case clone.TargetBranch:
		local := plumbing.NewBranchReferenceName(target.Value())
		if _, err := repo.Reference(local, true); err == nil {
			return &gogit.CheckoutOptions{Branch: local}, nil
		}
		ref, err := repo.Reference(plumbing.NewRemoteReferenceName(DefaultRemote, target.Value()), true)
		if err != nil {
			return nil, fmt.Errorf("resolve branch: %w", err)
		}
		return &gogit.CheckoutOptions{Branch: local, Hash: ref.Hash(), Create: true}, nil
	case clone.TargetTag:
		ref, err := repo.Reference(plumbing.NewTagReferenceName(target.Value()), true)
		if err != nil {
			return nil, fmt.Errorf("resolve tag: %w", err)
		}
		hash, err := peel(repo, ref.Hash())
		if err != nil {
			return nil, err
		}
		return &gogit.CheckoutOptions{Hash: hash}, nil
	case clone.TargetCommit:
		hash, err := repo.ResolveRevision(plumbing.Revision(target.Value()))
		if err != nil {
			return nil, fmt.Errorf("resolve commit: %w", err)
		}
		return &gogit.CheckoutOptions{Hash: *hash}, nil
	default:
		return nil, fmt.Errorf("no checkout target")
	}
}

// UpdateSubmodules recursively initializes and updates submodules.
func (g *GoGitAdapter) UpdateSubmodules(ctx context.Context, localPath string, t Transport) error {
	repo, err := gogit.PlainOpen(localPath)
	if err != nil {
		return fmt.Errorf("open repository: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("get worktree: %w", err)
	}

	submodules, err := worktree.Submodules()
	if err != nil {
		return fmt.Errorf("list submodules: %w", err)
	}
	if len(submodules) == 0 {
		return nil
	}

	var auth transport.AuthMethod
	if t.IsAuthenticated() {
		auth, err = g.publicKeys(defaultSSHUser, t.KeyPath())
		if err != nil {
			return err
		}
	}

	err = submodules.UpdateContext(ctx, &gogit.SubmoduleUpdateOptions{
		Init:              true,
		RecurseSubmodules: gogit.DefaultSubmoduleRecursionDepth,
		Auth:              auth,
	})
	if err != nil {
		return fmt.Errorf("update submodules: %w", err)
	}
	return nil
}

// HeadCommit returns metadata of the checked-out commit.
func (g *GoGitAdapter) HeadCommit(_ context.Context, localPath string) (CommitInfo, error) {
	repo, err := gogit.PlainOpen(localPath)
	if err != nil {
		return CommitInfo{}, fmt.Errorf("open repository: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return CommitInfo{}, fmt.Errorf("get head: %w", err)
	}

	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return CommitInfo{}, fmt.Errorf("get head commit: %w", err)
	}

	subject, body := splitMessage(commit.Message)
	return CommitInfo{
		SHA:            commit.Hash.String(),
		Subject:        subject,
		Body:           body,
		AuthorName:     commit.Author.Name,
		AuthorEmail:    commit.Author.Email,
		CommitterName:  commit.Committer.Name,
		CommitterEmail: commit.Committer.Email,
	}, nil
}

// LatestLog returns the fuller-format log of the newest commit at the tip
// of any tag, branch or remote ref.
func (g *GoGitAdapter) LatestLog(_ context.Context, localPath string) (string, error) {
	repo, err := gogit.PlainOpen(localPath)
	if err != nil {
		return "", fmt.Errorf("open repository: %w", err)
	}

	refs, err := repo.References()
	if err != nil {
		return "", fmt.Errorf("list references: %w", err)
	}

	var latest *object.Commit
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		if ref.Type() != plumbing.HashReference {
			return nil
		}
		name := ref.Name()
		if !name.IsBranch() && !name.IsTag() && !name.IsRemote() {
			return nil
		}

		hash, err := peel(repo, ref.Hash())
		if err != nil {
			g.logger.Debug("skipping reference", slog.String("ref", name.String()), slog.String("error", err.Error()))
			return nil
		}
		commit, err := repo.CommitObject(hash)
		if err != nil {
			return nil
		}
		if latest == nil || commit.Committer.When.After(latest.Committer.When) {
			latest = commit
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("walk references: %w", err)
	}
	if latest == nil {
		return "", ErrNoCommits
	}

	return formatFuller(latest), nil
}

// auth returns the go-git auth method for remoteURL. Only ssh remotes use
// the provisioned key.
func (g *GoGitAdapter) auth(remoteURL string, t Transport) (transport.AuthMethod, error) {
	if !t.IsAuthenticated() {
		return nil, nil
	}

	endpoint, err := transport.NewEndpoint(remoteURL)
	if err != nil {
		return nil, fmt.Errorf("parse remote url: %w", err)
	}
	if endpoint.Protocol != "ssh" {
		g.logger.Warn("ssh key ignored for non-ssh remote", slog.String("protocol", endpoint.Protocol))
		return nil, nil
	}

	user := endpoint.User
	if user == "" {
		user = defaultSSHUser
	}
	return g.publicKeys(user, t.KeyPath())
}

func (g *GoGitAdapter) publicKeys(user, keyPath string) (*ssh.PublicKeys, error) {
	keys, err := ssh.NewPublicKeysFromFile(user, keyPath, "")
	if err != nil {
		return nil, fmt.Errorf("load ssh key: %w", err)
	}
	keys.HostKeyCallback = gossh.InsecureIgnoreHostKey()
	return keys, nil
}

// peel resolves annotated tags to the commit they point at.
func peel(repo *gogit.Repository, hash plumbing.Hash) (plumbing.Hash, error) {
	tag, err := repo.TagObject(hash)
	if err != nil {
		return hash, nil
	}
	commit, err := tag.Commit()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("peel tag %s: %w", tag.Name, err)
	}
	return commit.Hash, nil
}

// Ensure GoGitAdapter implements Adapter.
var _ Adapter = (*GoGitAdapter)(nil)
