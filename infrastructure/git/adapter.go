// Package git implements the clone executor over the git binary and go-git.
package git

import (
	"context"

	"github.com/helixml/gitclone/domain/clone"
)

// DefaultRemote is the name the repository URL is registered under.
const DefaultRemote = "origin"

// Adapter runs the individual version-control operations of a clone.
// Every method operates inside localPath.
type Adapter interface {
	// Init initializes an empty repository.
	Init(ctx context.Context, localPath string) error

	// AddRemote registers remoteURI as the fetch origin.
	AddRemote(ctx context.Context, localPath string, remoteURI string, transport Transport) error

	// Fetch fetches the refs needed to check out target. A positive depth
	// limits the fetched history.
	Fetch(ctx context.Context, localPath string, target clone.Target, depth int, transport Transport) error

	// Checkout checks out the fetched target.
	Checkout(ctx context.Context, localPath string, target clone.Target) error

	// UpdateSubmodules recursively initializes and updates submodules.
	UpdateSubmodules(ctx context.Context, localPath string, transport Transport) error

	// HeadCommit returns metadata of the checked-out commit.
	HeadCommit(ctx context.Context, localPath string) (CommitInfo, error)

	// LatestLog returns the fuller-format log entry of the most recent
	// commit reachable from any tag, branch or remote ref.
	LatestLog(ctx context.Context, localPath string) (string, error)
}

// CommitInfo holds commit metadata returned from the adapter.
type CommitInfo struct {
	SHA            string
	Subject        string
	Body           string
	AuthorName     string
	AuthorEmail    string
	CommitterName  string
	CommitterEmail string
}

// ToCommit converts the adapter result to the domain type.
func (c CommitInfo) ToCommit() clone.Commit {
	return clone.NewCommit(
		c.SHA,
		c.Subject,
		c.Body,
		clone.NewAuthor(c.AuthorName, c.AuthorEmail),
		clone.NewAuthor(c.CommitterName, c.CommitterEmail),
	)
}
