package clone

// Outcome is the result of one run.
type Outcome struct {
	success bool
	target  Target
	commit  Commit
}

// NewSucceeded creates a successful Outcome. The commit is empty when the
// target is None.
func NewSucceeded(target Target, commit Commit) Outcome {
	return Outcome{success: true, target: target, commit: commit}
}

// NewFailed creates a failed Outcome.
func NewFailed(target Target) Outcome {
	return Outcome{target: target}
}

// Success returns true if the run succeeded.
func (o Outcome) Success() bool { return o.success }

// Target returns the checkout target the run used.
func (o Outcome) Target() Target { return o.target }

// Commit returns the checked-out commit metadata.
func (o Outcome) Commit() Commit { return o.commit }

// HasCommit returns true if a commit was checked out.
func (o Outcome) HasCommit() bool { return o.success && !o.commit.IsEmpty() }

// CommitHash returns the checked-out hash, empty on failure or when no
// checkout happened.
func (o Outcome) CommitHash() string {
	if !o.success {
		return ""
	}
	return o.commit.hash
}

// ExitCode maps the outcome to a process exit code.
func (o Outcome) ExitCode() int {
	if o.success {
		return 0
	}
	return 1
}
