package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/hotfix/git"
)

type cliResult struct {
	code   int
	stdout string
	stderr string
}

// isolate points HOME at a temp dir and clears HOTFIX_* variables.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, env := range os.Environ() {
		if name, _, ok := strings.Cut(env, "="); ok && strings.HasPrefix(name, "HOTFIX_") {
			t.Setenv(name, "")
		}
	}
	return home
}

func newRepoDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
	return dir
}

func runCLI(t *testing.T, dir string, runner git.CommandRunner, stdin string, args ...string) cliResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), args, &app{
		stdin:   strings.NewReader(stdin),
		stdout:  &stdout,
		stderr:  &stderr,
		workDir: dir,
		runner:  runner,
	})
	return cliResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

// hotfixRunner answers git and gh for a clean run on main.
func hotfixRunner() *git.MockRunner {
	runner := git.NewMockRunner()
	runner.On("git rev-parse --is-inside-work-tree", "true\n", nil)
	runner.On("git rev-parse --abbrev-ref HEAD", "main\n", nil)
	runner.On("git status --porcelain", " M handler.go\n", nil)
	runner.OnPrefix("gh pr create", "https://github.com/acme/api/pull/42\n", nil)
	return runner
}

func TestVersion(t *testing.T) {
	isolate(t)

	res := runCLI(t, t.TempDir(), nil, "", "--version")

	assert.Equal(t, 0, res.code)
	assert.Equal(t, "hotfix dev\n", res.stdout)
}

func TestHelp(t *testing.T) {
	isolate(t)
	runner := git.NewMockRunner()

	res := runCLI(t, t.TempDir(), runner, "", "--help")

	assert.Equal(t, 0, res.code)
	assert.Contains(t, res.stdout, "Usage:")
	assert.Contains(t, res.stdout, "--merge-delay")
	assert.Empty(t, runner.Calls(), "help must not touch git")
}

func TestUsageErrors(t *testing.T) {
	isolate(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown flag", []string{"--bogus"}, "unknown flag: --bogus"},
		{"positional argument", []string{"extra"}, "unknown command"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := git.NewMockRunner()
			res := runCLI(t, t.TempDir(), runner, "", tt.args...)

			assert.Equal(t, 1, res.code)
			assert.Contains(t, res.stderr, tt.want)
			assert.Contains(t, res.stderr, "hotfix --help")
			assert.Empty(t, runner.Calls())
		})
	}
}

func TestRun_Success(t *testing.T) {
	isolate(t)
	runner := hotfixRunner()

	res := runCLI(t, newRepoDir(t), runner, "", "--yes", "--merge-delay", "0s")

	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Pull request created")
	assert.Contains(t, res.stdout, "Hotfix complete: hotfix-")
	assert.True(t, runner.Ran("git checkout -b hotfix-"))
	assert.True(t, runner.Ran("git push -u origin hotfix-"))
	assert.True(t, runner.Ran("gh pr merge hotfix-"))
	assert.True(t, runner.Ran("git pull origin main"))
}

func TestRun_FlagsOverrideConfig(t *testing.T) {
	isolate(t)
	dir := newRepoDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hotfix.yaml"), []byte("trunk: develop\nremote: upstream\n"), 0o644))
	runner := hotfixRunner()
	runner.On("git rev-parse --abbrev-ref HEAD", "master\n", nil)

	res := runCLI(t, dir, runner, "", "--yes", "--merge-delay", "0s", "--trunk", "master")

	require.Equal(t, 0, res.code, res.stderr)
	assert.True(t, runner.Ran("git push -u upstream hotfix-"))
	assert.True(t, runner.Ran("git pull upstream master"))
}

func TestRun_WrongBranch(t *testing.T) {
	isolate(t)
	runner := hotfixRunner()
	runner.On("git rev-parse --abbrev-ref HEAD", "feature-x\n", nil)

	res := runCLI(t, newRepoDir(t), runner, "", "--yes")

	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, `"feature-x"`)
	assert.Contains(t, res.stderr, "git checkout main")
	assert.False(t, runner.Ran("git checkout -b"))
}

func TestRun_InvalidConfig(t *testing.T) {
	isolate(t)
	runner := hotfixRunner()

	res := runCLI(t, newRepoDir(t), runner, "", "--merge-delay", "soon")

	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "Invalid configuration.")
	assert.Contains(t, res.stderr, "hotfix config")
	assert.Empty(t, runner.Calls())
}

func TestRun_NotAuthenticated(t *testing.T) {
	isolate(t)
	runner := hotfixRunner()
	runner.Fail("gh auth status", "You are not logged into any GitHub hosts.")

	res := runCLI(t, newRepoDir(t), runner, "", "--yes")

	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "gh auth login")
	assert.False(t, runner.Ran("git checkout -b"))
}

func TestRun_PushFailureRollsBack(t *testing.T) {
	isolate(t)
	runner := hotfixRunner()
	runner.FailPrefix("git push", "remote: Permission to acme/api.git denied")

	res := runCLI(t, newRepoDir(t), runner, "", "--yes", "--merge-delay", "0s")

	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "Hotfix failed during push")
	assert.True(t, runner.Ran("git branch -D hotfix-"))
	assert.False(t, runner.Ran("gh pr create"))
}

func TestRun_YesStillWaitsForManualMerge(t *testing.T) {
	isolate(t)
	runner := hotfixRunner()
	runner.FailPrefix("gh pr merge", "GraphQL: Pull request is not mergeable")

	res := runCLI(t, newRepoDir(t), runner, "", "--yes", "--merge-delay", "0s")

	assert.Equal(t, 1, res.code)
	assert.True(t, runner.Ran("gh pr view hotfix-"))
	assert.NotContains(t, res.stdout, "Hotfix complete")
	assert.False(t, runner.Ran("git pull"), "cleanup must wait for confirmation")
	assert.True(t, runner.Ran("git branch -D hotfix-"))
	assert.Contains(t, res.stderr, "git push origin --delete hotfix-")
}

func TestRun_YesManualMergeConfirmed(t *testing.T) {
	isolate(t)
	runner := hotfixRunner()
	runner.FailPrefix("gh pr merge", "GraphQL: Pull request is not mergeable")

	res := runCLI(t, newRepoDir(t), runner, "\n", "--yes", "--merge-delay", "0s")

	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Merge the pull request manually")
	assert.True(t, runner.Ran("git pull origin main"))
}

func TestConfig_SetGetShow(t *testing.T) {
	home := isolate(t)
	dir := newRepoDir(t)

	res := runCLI(t, dir, nil, "", "config", "set", "trunk", "master")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Set trunk = master")

	res = runCLI(t, dir, nil, "", "config", "get", "trunk")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "master\n", res.stdout)

	res = runCLI(t, dir, nil, "", "config", "set", "--global", "github_token", "ghp_abcdef1234")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "****1234")
	assert.NotContains(t, res.stdout, "ghp_abcdef1234")
	assert.FileExists(t, filepath.Join(home, ".config", "hotfix", "config.yaml"))

	res = runCLI(t, dir, nil, "", "config")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Regexp(t, `trunk\s+master\s+\(local\)`, res.stdout)
	assert.Regexp(t, `github_token\s+\*\*\*\*1234\s+\(global\)`, res.stdout)
	assert.Regexp(t, `remote\s+origin\s+\(default\)`, res.stdout)

	res = runCLI(t, dir, nil, "", "config", "get", "--source", "trunk")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "master (local)\n", res.stdout)

	res = runCLI(t, dir, nil, "", "config", "unset", "trunk")
	require.Equal(t, 0, res.code, res.stderr)
	res = runCLI(t, dir, nil, "", "config", "get", "trunk")
	assert.Equal(t, "main\n", res.stdout)
}

func TestConfig_Rejections(t *testing.T) {
	isolate(t)
	dir := newRepoDir(t)

	res := runCLI(t, dir, nil, "", "config", "set", "github_token", "ghp_abcdef1234")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "use --global")

	res = runCLI(t, dir, nil, "", "config", "get", "colour")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "unknown config key: colour")
}

func TestDisplayValue(t *testing.T) {
	tests := []struct {
		key, value, want string
	}{
		{"trunk", "main", "main"},
		{"trunk", "", `""`},
		{"github_token", "abc", "****"},
		{"slack_webhook", "https://hooks.slack.com/services/T000/B000/XYZW", "****XYZW"},
	}
	for _, tt := range tests {
		if got := displayValue(tt.key, tt.value); got != tt.want {
			t.Errorf("displayValue(%q, %q) = %q, want %q", tt.key, tt.value, got, tt.want)
		}
	}
}
