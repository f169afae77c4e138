package git

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/helixml/gitclone/domain/clone"
)

type mockAdapter struct {
	mock.Mock
}

func (m *mockAdapter) Init(ctx context.Context, localPath string) error {
	return m.Called(ctx, localPath).Error(0)
}

func (m *mockAdapter) AddRemote(ctx context.Context, localPath string, remoteURI string, transport Transport) error {
	return m.Called(ctx, localPath, remoteURI, transport).Error(0)
}

func (m *mockAdapter) Fetch(ctx context.Context, localPath string, target clone.Target, depth int, transport Transport) error {
	return m.Called(ctx, localPath, target, depth, transport).Error(0)
}

func (m *mockAdapter) Checkout(ctx context.Context, localPath string, target clone.Target) error {
	return m.Called(ctx, localPath, target).Error(0)
}

func (m *mockAdapter) UpdateSubmodules(ctx context.Context, localPath string, transport Transport) error {
	return m.Called(ctx, localPath, transport).Error(0)
}

func (m *mockAdapter) HeadCommit(ctx context.Context, localPath string) (CommitInfo, error) {
	args := m.Called(ctx, localPath)
	return args.Get(0).(CommitInfo), args.Error(1)
}

func (m *mockAdapter) LatestLog(ctx context.Context, localPath string) (string, error) {
	args := m.Called(ctx, localPath)
	return args.String(0), args.Error(1)
}

type recordingReporter struct {
	states []clone.State
}

func (r *recordingReporter) OnChange(_ context.Context, progress clone.Progress) error {
	r.states = append(r.states, progress.State())
	return nil
}

func newRequest(t *testing.T, in clone.Input) clone.Request {
	t.Helper()
	if in.RepositoryURL == "" {
		in.RepositoryURL = "git@example.com:org/repo.git"
	}
	if in.DestinationDir == "" {
		in.DestinationDir = filepath.Join(t.TempDir(), "checkout")
	}
	req, err := clone.Resolve(in)
	require.NoError(t, err)
	return req
}

var testCommit = CommitInfo{
	SHA:            "0123456789abcdef0123456789abcdef01234567",
	Subject:        "Add feature",
	Body:           "Details here.",
	AuthorName:     "Alice",
	AuthorEmail:    "alice@example.com",
	CommitterName:  "Bob",
	CommitterEmail: "bob@example.com",
}

func TestExecutor_BranchSuccess(t *testing.T) {
	ctx := context.Background()
	req := newRequest(t, clone.Input{Branch: "main", CloneDepth: 1})
	target := clone.SelectTarget(req)
	cred := clone.NewCredential("/home/user/.ssh/gitclone")
	transport := NewTransport(cred)
	dir := req.DestinationDir()

	adapter := &mockAdapter{}
	adapter.On("Init", mock.Anything, dir).Return(nil).Once()
	adapter.On("AddRemote", mock.Anything, dir, req.RepositoryURL(), transport).Return(nil).Once()
	adapter.On("Fetch", mock.Anything, dir, target, 1, transport).Return(nil).Once()
	adapter.On("Checkout", mock.Anything, dir, target).Return(nil).Once()
	adapter.On("UpdateSubmodules", mock.Anything, dir, transport).Return(nil).Once()
	adapter.On("HeadCommit", mock.Anything, dir).Return(testCommit, nil).Once()
	adapter.On("LatestLog", mock.Anything, dir).Return("commit 0123\n", nil).Once()

	reporter := &recordingReporter{}
	executor := NewExecutor(adapter, nil, reporter)

	outcome, err := executor.Execute(ctx, req, target, cred)
	require.NoError(t, err)

	assert.True(t, outcome.Success())
	assert.Equal(t, 0, outcome.ExitCode())
	assert.Equal(t, testCommit.SHA, outcome.CommitHash())
	assert.Equal(t, "commit 0123\n", outcome.Commit().Log())
	assert.Equal(t, "Bob", outcome.Commit().Committer().Name())
	assert.DirExists(t, dir)
	adapter.AssertExpectations(t)

	assert.Equal(t, []clone.State{
		clone.StateDirectoryChecked,
		clone.StateInitialized,
		clone.StateRemoteAdded,
		clone.StateFetched,
		clone.StateCheckedOut,
		clone.StateSubmodulesSynced,
		clone.StateMetadataExtracted,
		clone.StateSucceeded,
	}, reporter.states)
}

func TestExecutor_NoTargetSkipsCheckout(t *testing.T) {
	req := newRequest(t, clone.Input{})
	target := clone.SelectTarget(req)
	require.True(t, target.IsNone())
	dir := req.DestinationDir()

	adapter := &mockAdapter{}
	adapter.On("Init", mock.Anything, dir).Return(nil)
	adapter.On("AddRemote", mock.Anything, dir, mock.Anything, mock.Anything).Return(nil)
	adapter.On("Fetch", mock.Anything, dir, target, 0, mock.Anything).Return(nil)

	reporter := &recordingReporter{}
	outcome, err := NewExecutor(adapter, nil, reporter).Execute(context.Background(), req, target, clone.Credential{})
	require.NoError(t, err)

	assert.True(t, outcome.Success())
	assert.Empty(t, outcome.CommitHash())
	assert.False(t, outcome.HasCommit())
	adapter.AssertNotCalled(t, "Checkout", mock.Anything, mock.Anything, mock.Anything)
	adapter.AssertNotCalled(t, "UpdateSubmodules", mock.Anything, mock.Anything, mock.Anything)
	adapter.AssertNotCalled(t, "HeadCommit", mock.Anything, mock.Anything)
	assert.Equal(t, clone.StateSucceeded, reporter.states[len(reporter.states)-1])
	assert.NotContains(t, reporter.states, clone.StateCheckedOut)
}

func TestExecutor_ExistingRepository(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
	marker := filepath.Join(dir, "keep.txt")
	require.NoError(t, os.WriteFile(marker, []byte("keep"), 0o644))

	req := newRequest(t, clone.Input{DestinationDir: dir, Tag: "v1.0.0"})
	adapter := &mockAdapter{}

	outcome, err := NewExecutor(adapter, nil).Execute(context.Background(), req, clone.SelectTarget(req), clone.Credential{})
	require.Error(t, err)

	assert.True(t, errors.Is(err, clone.ErrAlreadyExists))
	assert.False(t, outcome.Success())
	assert.Equal(t, 1, outcome.ExitCode())
	assert.FileExists(t, marker)
	adapter.AssertNotCalled(t, "Init", mock.Anything, mock.Anything)
}

func TestExecutor_GitFileCountsAsRepository(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".git"), []byte("gitdir: ../x"), 0o644))

	req := newRequest(t, clone.Input{DestinationDir: dir})
	_, err := NewExecutor(&mockAdapter{}, nil).Execute(context.Background(), req, clone.SelectTarget(req), clone.Credential{})

	assert.ErrorIs(t, err, clone.ErrAlreadyExists)
	assert.DirExists(t, dir)
}

func TestExecutor_DirectoryCreateError(t *testing.T) {
	parent := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(parent, []byte("x"), 0o644))

	req := newRequest(t, clone.Input{DestinationDir: filepath.Join(parent, "checkout")})
	_, err := NewExecutor(&mockAdapter{}, nil).Execute(context.Background(), req, clone.SelectTarget(req), clone.Credential{})
	require.Error(t, err)

	stage, ok := clone.FailedStage(err)
	require.True(t, ok)
	assert.Equal(t, clone.StageDirectory, stage)
	assert.FileExists(t, parent)
}

func TestExecutor_StageFailureRemovesDestination(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name  string
		setup func(a *mockAdapter)
		stage clone.Stage
		kind  string
	}{
		{
			name: "init",
			setup: func(a *mockAdapter) {
				a.On("Init", mock.Anything, mock.Anything).Return(boom)
			},
			stage: clone.StageInit,
			kind:  "InitError",
		},
		{
			name: "remote",
			setup: func(a *mockAdapter) {
				a.On("Init", mock.Anything, mock.Anything).Return(nil)
				a.On("AddRemote", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(boom)
			},
			stage: clone.StageRemote,
			kind:  "RemoteAddError",
		},
		{
			name: "fetch",
			setup: func(a *mockAdapter) {
				a.On("Init", mock.Anything, mock.Anything).Return(nil)
				a.On("AddRemote", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
				a.On("Fetch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(boom)
			},
			stage: clone.StageFetch,
			kind:  "FetchError",
		},
		{
			name: "checkout",
			setup: func(a *mockAdapter) {
				a.On("Init", mock.Anything, mock.Anything).Return(nil)
				a.On("AddRemote", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
				a.On("Fetch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
				a.On("Checkout", mock.Anything, mock.Anything, mock.Anything).Return(boom)
			},
			stage: clone.StageCheckout,
			kind:  "CheckoutError",
		},
		{
			name: "submodule",
			setup: func(a *mockAdapter) {
				a.On("Init", mock.Anything, mock.Anything).Return(nil)
				a.On("AddRemote", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
				a.On("Fetch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
				a.On("Checkout", mock.Anything, mock.Anything, mock.Anything).Return(nil)
				a.On("UpdateSubmodules", mock.Anything, mock.Anything, mock.Anything).Return(boom)
			},
			stage: clone.StageSubmodule,
			kind:  "SubmoduleError",
		},
		{
			name: "metadata",
			setup: func(a *mockAdapter) {
				a.On("Init", mock.Anything, mock.Anything).Return(nil)
				a.On("AddRemote", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
				a.On("Fetch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
				a.On("Checkout", mock.Anything, mock.Anything, mock.Anything).Return(nil)
				a.On("UpdateSubmodules", mock.Anything, mock.Anything, mock.Anything).Return(nil)
				a.On("HeadCommit", mock.Anything, mock.Anything).Return(testCommit, nil)
				a.On("LatestLog", mock.Anything, mock.Anything).Return("", boom)
			},
			stage: clone.StageMetadata,
			kind:  "MetadataError",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newRequest(t, clone.Input{CommitHash: "abc123"})
			adapter := &mockAdapter{}
			tt.setup(adapter)
			reporter := &recordingReporter{}

			outcome, err := NewExecutor(adapter, nil, reporter).Execute(context.Background(), req, clone.SelectTarget(req), clone.Credential{})
			require.Error(t, err)

			var stageErr *clone.StageError
			require.True(t, errors.As(err, &stageErr))
			assert.Equal(t, tt.stage, stageErr.Stage)
			assert.Equal(t, tt.kind, stageErr.Stage.Kind())
			assert.ErrorIs(t, err, boom)
			assert.False(t, outcome.Success())
			assert.Empty(t, outcome.CommitHash())
			assert.NoDirExists(t, req.DestinationDir())
			assert.Equal(t, clone.StateFailed, reporter.states[len(reporter.states)-1])
		})
	}
}

func TestExecutor_FailureRemovesPartialContent(t *testing.T) {
	req := newRequest(t, clone.Input{Branch: "main"})
	dir := req.DestinationDir()

	adapter := &mockAdapter{}
	adapter.On("Init", mock.Anything, dir).Run(func(mock.Arguments) {
		_ = os.MkdirAll(filepath.Join(dir, ".git", "objects"), 0o755)
	}).Return(nil)
	adapter.On("AddRemote", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	adapter.On("Fetch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("network unreachable"))

	_, err := NewExecutor(adapter, nil).Execute(context.Background(), req, clone.SelectTarget(req), clone.Credential{})

	assert.EqualError(t, err, "FetchError: network unreachable")
	assert.NoDirExists(t, dir)
	adapter.AssertNotCalled(t, "Checkout", mock.Anything, mock.Anything, mock.Anything)
}
