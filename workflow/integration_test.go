package workflow

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/hotfix/console"
	"github.com/randalmurphal/hotfix/git"
	"github.com/randalmurphal/hotfix/message"
	"github.com/randalmurphal/hotfix/pr"
	"github.com/randalmurphal/hotfix/testutil"
)

// newRealOrchestrator runs against a real repository through ExecRunner.
func newRealOrchestrator(t *testing.T, repo string, provider pr.Provider, prompter console.Prompter, templates *message.Loader) *Orchestrator {
	t.Helper()

	gitCtx, err := git.NewContext(repo)
	require.NoError(t, err)

	orch, err := NewOrchestrator(Deps{
		Git:       gitCtx,
		Provider:  provider,
		Templates: templates,
		Prompter:  prompter,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, Options{
		Trunk:      testutil.DefaultBranch,
		MergeDelay: time.Millisecond,
	})
	require.NoError(t, err)
	return orch
}

// mergingProvider fast-forwards the remote trunk to the hotfix branch and
// deletes the remote branch, standing in for a host-side merge.
func mergingProvider(t *testing.T, repo string) *pr.MockProvider {
	return &pr.MockProvider{
		MergePRFunc: func(_ context.Context, branch string, opts pr.MergeOptions) error {
			testutil.Git(t, repo, "push", "origin", branch+":"+testutil.DefaultBranch)
			if opts.DeleteBranch {
				testutil.Git(t, repo, "push", "origin", "--delete", branch)
			}
			return nil
		},
	}
}

func TestIntegration_FullPipeline(t *testing.T) {
	repo, remote := testutil.SetupTestRepoWithRemote(t)
	testutil.WriteFile(t, repo, "handler.go", "package main\n\nfunc handler() {}\n")

	prompter := &console.ScriptedPrompter{EditAnswers: []string{"Fix handler crash"}}
	provider := mergingProvider(t, repo)
	orch := newRealOrchestrator(t, repo, provider, prompter, nil)

	state, err := orch.Run(testutil.TestContextWithTimeout(t, 30*time.Second))
	require.NoError(t, err)

	assert.Equal(t, MergedAutomatically, state.Merge)
	assert.Regexp(t, `^hotfix-\d{4}-\d{2}-\d{2}-\d{2}-\d{2}-\d{2}$`, state.BranchName)

	assert.Equal(t, testutil.DefaultBranch, testutil.GetCurrentBranch(t, repo))
	assert.Empty(t, testutil.Status(t, repo), "work tree should be clean")
	assert.False(t, testutil.HasBranch(t, repo, state.BranchName), "local hotfix branch should be deleted")
	assert.False(t, testutil.HasBranch(t, remote, state.BranchName), "remote hotfix branch should be deleted")
	assert.Equal(t, "Fix handler crash", testutil.LastCommitMessage(t, repo, "HEAD"))
	assert.Equal(t, testutil.GetHeadSHA(t, remote, testutil.DefaultBranch), testutil.GetHeadSHA(t, repo, "HEAD"))

	require.Len(t, provider.Created, 1)
	assert.Equal(t, "Fix handler crash", provider.Created[0].Title)
	assert.Equal(t, testutil.DefaultBranch, provider.Created[0].Base)
}

func TestIntegration_RollbackAfterPush(t *testing.T) {
	repo, remote := testutil.SetupTestRepoWithRemote(t)
	testutil.WriteFile(t, repo, "handler.go", "package main\n")
	trunkBefore := testutil.GetHeadSHA(t, repo, "HEAD")

	provider := &pr.MockProvider{
		CreatePRFunc: func(context.Context, pr.Options) (*pr.PullRequest, error) {
			return nil, errors.New("HTTP 422: Validation Failed")
		},
	}
	orch := newRealOrchestrator(t, repo, provider, console.AcceptingPrompter{}, nil)

	state, err := orch.Run(testutil.TestContext(t))
	require.Error(t, err)

	assert.Equal(t, testutil.DefaultBranch, testutil.GetCurrentBranch(t, repo))
	assert.False(t, testutil.HasBranch(t, repo, state.BranchName), "rollback should delete the local branch")
	assert.True(t, testutil.HasBranch(t, remote, state.BranchName), "rollback does not touch the remote")
	assert.Equal(t, trunkBefore, testutil.GetHeadSHA(t, repo, "HEAD"))
}

func TestIntegration_WrongBranchChangesNothing(t *testing.T) {
	repo, _ := testutil.SetupTestRepoWithRemote(t)
	testutil.CreateBranch(t, repo, "feature")
	testutil.WriteFile(t, repo, "handler.go", "package main\n")

	provider := &pr.MockProvider{}
	orch := newRealOrchestrator(t, repo, provider, console.AcceptingPrompter{}, nil)

	_, err := orch.Run(testutil.TestContext(t))
	require.ErrorIs(t, err, ErrWrongBranch)

	assert.Equal(t, "feature", testutil.GetCurrentBranch(t, repo))
	assert.Contains(t, testutil.Status(t, repo), "handler.go")
	assert.False(t, provider.Called("CreatePR"))
}

func TestIntegration_TemplateOverrides(t *testing.T) {
	repo, _ := testutil.SetupTestRepoWithRemote(t)
	testutil.WriteFile(t, repo, "handler.go", "package main\n")

	dir := filepath.Join(t.TempDir(), "templates")
	testutil.WriteTemplates(t, dir, map[string]string{
		message.TemplateCommitFallback: "Emergency fix {{.Timestamp}}",
		message.TemplatePRBody:         "Run {{.RunID}} on {{.Branch}}",
	})

	provider := mergingProvider(t, repo)
	orch := newRealOrchestrator(t, repo, provider, console.AcceptingPrompter{}, message.NewLoader(dir))

	state, err := orch.Run(testutil.TestContext(t))
	require.NoError(t, err)

	assert.Regexp(t, `^Emergency fix \d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$`, state.CommitMessage)
	require.Len(t, provider.Created, 1)
	assert.Equal(t, "Run "+state.RunID+" on "+state.BranchName, provider.Created[0].Body)
}
