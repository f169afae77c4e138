package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixml/gitclone/domain/clone"
)

// fixture is a local source repository with a branch, an annotated tag,
// two commits on main and a pull request merge ref pointing at a commit
// no branch contains.
type fixture struct {
	path      string
	first     string
	second    string
	tagCommit string
	pull      string
}

const fixturePullRequest = "7"

func runGit(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=Alice", "GIT_AUTHOR_EMAIL=alice@example.com",
		"GIT_COMMITTER_NAME=Bob", "GIT_COMMITTER_EMAIL=bob@example.com",
	)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %s: %s", strings.Join(args, " "), out)
	return strings.TrimSpace(string(out))
}

func createFixture(t *testing.T) fixture {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	dir := t.TempDir()
	runGit(t, dir, "init")
	runGit(t, dir, "checkout", "-b", "main")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# fixture\n"), 0o644))
	runGit(t, dir, "add", "-A")
	runGit(t, dir, "commit", "-m", "Initial commit")
	first := runGit(t, dir, "rev-parse", "HEAD")
	runGit(t, dir, "tag", "-a", "v1.0.0", "-m", "Release 1.0.0")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main\n"), 0o644))
	runGit(t, dir, "add", "-A")
	runGit(t, dir, "commit", "-m", "Add main\n\nWith a body line.")
	second := runGit(t, dir, "rev-parse", "HEAD")

	runGit(t, dir, "checkout", "-b", "pr-work")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "feature.go"), []byte("package main\n"), 0o644))
	runGit(t, dir, "add", "-A")
	runGit(t, dir, "commit", "-m", "Add feature")
	pull := runGit(t, dir, "rev-parse", "HEAD")
	runGit(t, dir, "checkout", "main")
	runGit(t, dir, "update-ref", "refs/pull/"+fixturePullRequest+"/merge", pull)
	runGit(t, dir, "branch", "-D", "pr-work")

	return fixture{path: dir, first: first, second: second, tagCommit: first, pull: pull}
}

func adapters(t *testing.T) map[string]Adapter {
	t.Helper()
	gitea, err := NewGiteaAdapter(nil)
	require.NoError(t, err)
	return map[string]Adapter{
		"gitea":  gitea,
		"go-git": NewGoGitAdapter(nil),
	}
}

func TestAdapters_CloneTargets(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	fx := createFixture(t)

	tests := []struct {
		name    string
		input   clone.Input
		wantSHA string
		subject string
	}{
		{"branch", clone.Input{Branch: "main"}, fx.second, "Add main"},
		{"tag", clone.Input{Tag: "v1.0.0"}, fx.tagCommit, "Initial commit"},
		{"commit", clone.Input{CommitHash: fx.first}, fx.first, "Initial commit"},
		{"pull request over branch", clone.Input{PullRequestID: fixturePullRequest, Branch: "main"}, fx.pull, "Add feature"},
	}

	for adapterName, adapter := range adapters(t) {
		for _, tt := range tests {
			t.Run(adapterName+"/"+tt.name, func(t *testing.T) {
				in := tt.input
				in.RepositoryURL = fx.path
				in.DestinationDir = filepath.Join(t.TempDir(), "dest")
				req, err := clone.Resolve(in)
				require.NoError(t, err)

				outcome, err := NewExecutor(adapter, nil).Execute(context.Background(), req, clone.SelectTarget(req), clone.Credential{})
				require.NoError(t, err)

				commit := outcome.Commit()
				assert.Equal(t, tt.wantSHA, outcome.CommitHash())
				assert.Equal(t, tt.subject, commit.Subject())
				assert.Equal(t, "Alice", commit.Author().Name())
				assert.Equal(t, "alice@example.com", commit.Author().Email())
				assert.Equal(t, "Bob", commit.Committer().Name())
				assert.Equal(t, "bob@example.com", commit.Committer().Email())
				assert.Contains(t, commit.Log(), "commit ")
				assert.Contains(t, commit.Log(), "CommitDate:")
				assert.FileExists(t, filepath.Join(req.DestinationDir(), "README.md"))
			})
		}
	}
}

func TestAdapters_MissingBranchRollsBack(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	fx := createFixture(t)

	for name, adapter := range adapters(t) {
		t.Run(name, func(t *testing.T) {
			req, err := clone.Resolve(clone.Input{
				RepositoryURL:  fx.path,
				DestinationDir: filepath.Join(t.TempDir(), "dest"),
				Branch:         "does-not-exist",
			})
			require.NoError(t, err)

			_, err = NewExecutor(adapter, nil).Execute(context.Background(), req, clone.SelectTarget(req), clone.Credential{})
			require.Error(t, err)

			stage, ok := clone.FailedStage(err)
			require.True(t, ok)
			assert.Equal(t, clone.StageFetch, stage)
			assert.NoDirExists(t, req.DestinationDir())
		})
	}
}

func TestAdapters_ShallowFetch(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	fx := createFixture(t)

	tests := []struct {
		name    string
		input   clone.Input
		wantSHA string
	}{
		{"branch", clone.Input{Branch: "main"}, fx.second},
		{"pull request", clone.Input{PullRequestID: fixturePullRequest, Branch: "main"}, fx.pull},
	}

	for adapterName, adapter := range adapters(t) {
		for _, tt := range tests {
			t.Run(adapterName+"/"+tt.name, func(t *testing.T) {
				in := tt.input
				in.RepositoryURL = "file://" + fx.path
				in.DestinationDir = filepath.Join(t.TempDir(), "dest")
				in.CloneDepth = 1
				req, err := clone.Resolve(in)
				require.NoError(t, err)

				outcome, err := NewExecutor(adapter, nil).Execute(context.Background(), req, clone.SelectTarget(req), clone.Credential{})
				require.NoError(t, err)
				assert.Equal(t, tt.wantSHA, outcome.CommitHash())

				count := runGit(t, req.DestinationDir(), "rev-list", "--count", "HEAD")
				assert.Equal(t, "1", count)
			})
		}
	}
}
