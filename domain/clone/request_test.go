package clone

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_MissingRepositoryURL(t *testing.T) {
	for _, url := range []string{"", "   "} {
		_, err := Resolve(Input{RepositoryURL: url, DestinationDir: "/tmp/x"})
		require.ErrorIs(t, err, ErrMissingRepositoryURL)
		assert.True(t, IsValidation(err))
	}
}

func TestResolve_MissingDestination(t *testing.T) {
	_, err := Resolve(Input{RepositoryURL: "git@github.com:a/b.git"})
	require.ErrorIs(t, err, ErrMissingDestination)
	assert.True(t, IsValidation(err))
}

func TestResolve_NegativeDepth(t *testing.T) {
	_, err := Resolve(Input{RepositoryURL: "git@github.com:a/b.git", DestinationDir: "x", CloneDepth: -1})
	require.ErrorIs(t, err, ErrInvalidDepth)
}

func TestResolve_ExpandsRelativePaths(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)

	req, err := Resolve(Input{
		RepositoryURL:  "https://github.com/example/repo.git",
		DestinationDir: "src/checkout",
		ReportPath:     "out/report.md",
	})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(cwd, "src", "checkout"), req.DestinationDir())
	assert.Equal(t, filepath.Join(cwd, "out", "report.md"), req.ReportPath())
	assert.True(t, req.HasReport())
}

func TestResolve_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	req, err := Resolve(Input{RepositoryURL: "https://example.com/r.git", DestinationDir: "~/work/r"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "work", "r"), req.DestinationDir())
}

func TestResolve_EmptyReportPathMeansNoReport(t *testing.T) {
	for _, report := range []string{"", " "} {
		req, err := Resolve(Input{RepositoryURL: "https://example.com/r.git", DestinationDir: "/tmp/r", ReportPath: report})
		require.NoError(t, err)
		assert.False(t, req.HasReport())
		assert.Empty(t, req.ReportPath())
	}
}

func TestResolve_KeepsFields(t *testing.T) {
	req, err := Resolve(Input{
		RepositoryURL:  " https://example.com/r.git ",
		Branch:         "main",
		Tag:            "v1",
		CommitHash:     "abc",
		PullRequestID:  "9",
		DestinationDir: "/tmp/r",
		CloneDepth:     1,
		SSHKey:         "KEY",
	})
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/r.git", req.RepositoryURL())
	assert.Equal(t, "main", req.Branch())
	assert.Equal(t, "v1", req.Tag())
	assert.Equal(t, "abc", req.CommitHash())
	assert.Equal(t, "9", req.PullRequestID())
	assert.Equal(t, 1, req.CloneDepth())
	assert.True(t, req.IsShallow())
	assert.True(t, req.HasSSHKey())
	assert.Equal(t, "KEY", req.SSHKey())
}

func TestRequest_NeverRendersKey(t *testing.T) {
	req, err := Resolve(Input{RepositoryURL: "https://example.com/r.git", DestinationDir: "/tmp/r", SSHKey: "-----BEGIN SECRET-----"})
	require.NoError(t, err)

	assert.NotContains(t, req.String(), "BEGIN SECRET")
	assert.Contains(t, req.String(), "*****")

	var b strings.Builder
	logger := slog.New(slog.NewTextHandler(&b, nil))
	logger.Info("configs", slog.Any("request", req))
	assert.NotContains(t, b.String(), "BEGIN SECRET")
	assert.Contains(t, b.String(), "auth_ssh_key_raw=*****")

	noKey, err := Resolve(Input{RepositoryURL: "https://example.com/r.git", DestinationDir: "/tmp/r"})
	require.NoError(t, err)
	assert.Contains(t, noKey.String(), "no SSH key provided")
}

func TestStageError(t *testing.T) {
	cause := errors.New("exit status 128")
	err := error(NewStageError(StageFetch, cause))

	assert.EqualError(t, err, "FetchError: exit status 128")
	assert.ErrorIs(t, err, cause)

	stage, ok := FailedStage(err)
	require.True(t, ok)
	assert.Equal(t, StageFetch, stage)

	_, ok = FailedStage(cause)
	assert.False(t, ok)
}

func TestStage_Kind(t *testing.T) {
	kinds := map[Stage]string{
		StageDirectory: "DirectoryCreateError",
		StageInit:      "InitError",
		StageRemote:    "RemoteAddError",
		StageFetch:     "FetchError",
		StageCheckout:  "CheckoutError",
		StageSubmodule: "SubmoduleError",
		StageMetadata:  "MetadataError",
		StageOutput:    "OutputError",
		StageReport:    "ReportError",
	}
	for stage, want := range kinds {
		assert.Equal(t, want, stage.Kind(), "stage %s", stage)
	}
}
