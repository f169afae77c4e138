package clone

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Input holds the raw clone parameters as received from flags, environment
// variables or an inputs file. It is validated and normalized by Resolve.
type Input struct {
	RepositoryURL  string
	Branch         string
	Tag            string
	CommitHash     string
	PullRequestID  string
	DestinationDir string
	CloneDepth     int
	ReportPath     string
	SSHKey         string
}

// Request is the validated, normalized set of inputs for one run.
// It is never mutated after Resolve returns it.
type Request struct {
	repositoryURL  string
	branch         string
	tag            string
	commitHash     string
	pullRequestID  string
	destinationDir string
	cloneDepth     int
	reportPath     string
	sshKey         string
}

// Resolve validates raw input and expands the destination and report
// paths to absolute form. An empty report path means no report.
func Resolve(in Input) (Request, error) {
	repoURL := strings.TrimSpace(in.RepositoryURL)
	if repoURL == "" {
		return Request{}, ErrMissingRepositoryURL
	}
	if strings.TrimSpace(in.DestinationDir) == "" {
		return Request{}, ErrMissingDestination
	}
	if in.CloneDepth < 0 {
		return Request{}, fmt.Errorf("%w: %d", ErrInvalidDepth, in.CloneDepth)
	}

	dest, err := absPath(in.DestinationDir)
	if err != nil {
		return Request{}, fmt.Errorf("expand destination dir: %w", err)
	}

	var report string
	if strings.TrimSpace(in.ReportPath) != "" {
		report, err = absPath(in.ReportPath)
		if err != nil {
			return Request{}, fmt.Errorf("expand report path: %w", err)
		}
	}

	return Request{
		repositoryURL:  repoURL,
		branch:         strings.TrimSpace(in.Branch),
		tag:            strings.TrimSpace(in.Tag),
		commitHash:     strings.TrimSpace(in.CommitHash),
		pullRequestID:  strings.TrimSpace(in.PullRequestID),
		destinationDir: dest,
		cloneDepth:     in.CloneDepth,
		reportPath:     report,
		sshKey:         in.SSHKey,
	}, nil
}

// absPath expands a leading "~" to the user's home directory and returns
// the absolute, cleaned path.
func absPath(p string) (string, error) {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		p = filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	return filepath.Abs(p)
}

// RepositoryURL returns the remote repository URL.
func (r Request) RepositoryURL() string { return r.repositoryURL }

// Branch returns the requested branch.
func (r Request) Branch() string { return r.branch }

// Tag returns the requested tag.
func (r Request) Tag() string { return r.tag }

// CommitHash returns the requested commit hash.
func (r Request) CommitHash() string { return r.commitHash }

// PullRequestID returns the requested pull request id.
func (r Request) PullRequestID() string { return r.pullRequestID }

// DestinationDir returns the absolute clone destination directory.
func (r Request) DestinationDir() string { return r.destinationDir }

// CloneDepth returns the fetch depth, 0 when unlimited.
func (r Request) CloneDepth() int { return r.cloneDepth }

// IsShallow returns true if a fetch depth limit is set.
func (r Request) IsShallow() bool { return r.cloneDepth > 0 }

// ReportPath returns the absolute report path, empty when no report is requested.
func (r Request) ReportPath() string { return r.reportPath }

// HasReport returns true if a report should be written.
func (r Request) HasReport() bool { return r.reportPath != "" }

// SSHKey returns the raw private key material.
func (r Request) SSHKey() string { return r.sshKey }

// HasSSHKey returns true if private key material was supplied.
func (r Request) HasSSHKey() bool { return r.sshKey != "" }

// LogValue renders the request for structured logging with the key masked.
func (r Request) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("repo_url", r.repositoryURL),
		slog.String("branch", r.branch),
		slog.String("tag", r.tag),
		slog.String("commit_hash", r.commitHash),
		slog.String("pull_request_id", r.pullRequestID),
		slog.String("clone_destination_dir", r.destinationDir),
		slog.Int("clone_depth", r.cloneDepth),
		slog.String("formatted_output_file_path", r.reportPath),
		slog.String("auth_ssh_key_raw", r.maskedKey()),
	)
}

// String returns a single-line representation with the key masked.
func (r Request) String() string {
	return fmt.Sprintf("repo_url=%s dest=%s depth=%d report=%s ssh_key=%s",
		r.repositoryURL, r.destinationDir, r.cloneDepth, r.reportPath, r.maskedKey())
}

func (r Request) maskedKey() string {
	if r.sshKey == "" {
		return "no SSH key provided"
	}
	return "*****"
}
