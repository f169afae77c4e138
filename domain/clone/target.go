package clone

import "fmt"

// TargetKind identifies which input a checkout target was derived from.
type TargetKind int

// TargetKind values, in selection priority order.
const (
	TargetNone TargetKind = iota
	TargetPullRequest
	TargetCommit
	TargetTag
	TargetBranch
)

// String returns the kind name.
func (k TargetKind) String() string {
	switch k {
	case TargetPullRequest:
		return "pull_request"
	case TargetCommit:
		return "commit"
	case TargetTag:
		return "tag"
	case TargetBranch:
		return "branch"
	default:
		return "none"
	}
}

// Target is the single ref a run checks out.
type Target struct {
	kind  TargetKind
	value string
}

// NewPullRequestTarget creates a Target for a pull request merge ref.
func NewPullRequestTarget(id string) Target {
	return Target{kind: TargetPullRequest, value: id}
}

// NewCommitTarget creates a Target for a commit hash.
func NewCommitTarget(hash string) Target {
	return Target{kind: TargetCommit, value: hash}
}

// NewTagTarget creates a Target for a tag.
func NewTagTarget(name string) Target {
	return Target{kind: TargetTag, value: name}
}

// NewBranchTarget creates a Target for a branch.
func NewBranchTarget(name string) Target {
	return Target{kind: TargetBranch, value: name}
}

// SelectTarget derives the checkout target from a request.
// The first non-empty of pull request, commit hash, tag and branch wins;
// the remaining fields are ignored.
func SelectTarget(req Request) Target {
	switch {
	case req.pullRequestID != "":
		return NewPullRequestTarget(req.pullRequestID)
	case req.commitHash != "":
		return NewCommitTarget(req.commitHash)
	case req.tag != "":
		return NewTagTarget(req.tag)
	case req.branch != "":
		return NewBranchTarget(req.branch)
	default:
		return Target{}
	}
}

// Kind returns the target kind.
func (t Target) Kind() TargetKind { return t.kind }

// Value returns the raw input value (pull request id, hash, tag or branch).
func (t Target) Value() string { return t.value }

// IsNone returns true if there is nothing to check out.
func (t Target) IsNone() bool { return t.kind == TargetNone }

// IsPullRequest returns true if the target is a pull request merge ref.
func (t Target) IsPullRequest() bool { return t.kind == TargetPullRequest }

// IsCommit returns true if the target is a commit hash.
func (t Target) IsCommit() bool { return t.kind == TargetCommit }

// IsTag returns true if the target is a tag.
func (t Target) IsTag() bool { return t.kind == TargetTag }

// IsBranch returns true if the target is a branch.
func (t Target) IsBranch() bool { return t.kind == TargetBranch }

// Ref returns the checkout parameter passed to git checkout.
// Pull requests are fetched into the local ref "pull/<id>".
func (t Target) Ref() string {
	if t.kind == TargetPullRequest {
		return "pull/" + t.value
	}
	return t.value
}

// String returns a formatted representation (kind:ref).
func (t Target) String() string {
	if t.IsNone() {
		return "none"
	}
	return fmt.Sprintf("%s:%s", t.kind, t.Ref())
}

// Equal returns true if two Target values are equal.
func (t Target) Equal(other Target) bool {
	return t.kind == other.kind && t.value == other.value
}
