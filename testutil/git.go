package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// DefaultBranch is the branch every test repository starts on.
const DefaultBranch = "main"

// SetupTestRepo creates a temporary git repository on DefaultBranch with
// one commit. The repository is removed when the test ends.
func SetupTestRepo(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()

	Git(t, dir, "init")
	Git(t, dir, "symbolic-ref", "HEAD", "refs/heads/"+DefaultBranch)
	Git(t, dir, "config", "user.email", "test@test.com")
	Git(t, dir, "config", "user.name", "Test User")
	Git(t, dir, "config", "commit.gpgsign", "false")

	WriteFile(t, dir, "README.md", "# Test Repository\n")
	Git(t, dir, "add", ".")
	Git(t, dir, "commit", "-m", "Initial commit")

	return dir
}

// SetupTestRepoWithRemote creates a test repository whose "origin" is a
// bare repository in another temp dir, with DefaultBranch already pushed.
// Returns the work tree and the bare remote paths.
func SetupTestRepoWithRemote(t *testing.T) (repoDir, remoteDir string) {
	t.Helper()

	repoDir = SetupTestRepo(t)
	remoteDir = filepath.Join(t.TempDir(), "origin.git")

	Git(t, filepath.Dir(remoteDir), "init", "--bare", remoteDir)
	Git(t, remoteDir, "symbolic-ref", "HEAD", "refs/heads/"+DefaultBranch)
	Git(t, repoDir, "remote", "add", "origin", remoteDir)
	Git(t, repoDir, "push", "-u", "origin", DefaultBranch)

	return repoDir, remoteDir
}

// WriteFile creates or replaces a file in the work tree without staging it.
func WriteFile(t *testing.T, repoDir, path, content string) {
	t.Helper()

	fullPath := filepath.Join(repoDir, path)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
}

// CommitFile creates or updates a file and commits it.
func CommitFile(t *testing.T, repoDir, path, content, message string) {
	t.Helper()

	WriteFile(t, repoDir, path, content)
	Git(t, repoDir, "add", path)
	Git(t, repoDir, "commit", "-m", message)
}

// CreateBranch creates a new branch in the test repo and switches to it.
func CreateBranch(t *testing.T, repoDir, branch string) {
	t.Helper()
	Git(t, repoDir, "checkout", "-b", branch)
}

// SwitchBranch switches to an existing branch.
func SwitchBranch(t *testing.T, repoDir, branch string) {
	t.Helper()
	Git(t, repoDir, "checkout", branch)
}

// GetCurrentBranch returns the current branch name.
func GetCurrentBranch(t *testing.T, repoDir string) string {
	t.Helper()
	return Git(t, repoDir, "rev-parse", "--abbrev-ref", "HEAD")
}

// GetHeadSHA returns the SHA of ref in the repository (a work tree or bare).
func GetHeadSHA(t *testing.T, repoDir, ref string) string {
	t.Helper()
	return Git(t, repoDir, "rev-parse", ref)
}

// LastCommitMessage returns the full message of the commit at ref.
func LastCommitMessage(t *testing.T, repoDir, ref string) string {
	t.Helper()
	return Git(t, repoDir, "log", "-1", "--format=%B", ref)
}

// Status returns `git status --porcelain`, trimmed.
func Status(t *testing.T, repoDir string) string {
	t.Helper()
	return Git(t, repoDir, "status", "--porcelain")
}

// HasBranch reports whether a local branch exists. It works on bare
// repositories too.
func HasBranch(t *testing.T, repoDir, branch string) bool {
	t.Helper()

	cmd := exec.Command("git", "rev-parse", "--verify", "--quiet", "refs/heads/"+branch)
	cmd.Dir = repoDir
	return cmd.Run() == nil
}

// Git runs a git command in dir and returns its trimmed output, failing
// the test on error.
func Git(t *testing.T, dir string, args ...string) string {
	t.Helper()

	out, err := runGit(dir, args...)
	if err != nil {
		t.Fatalf("git %s failed: %v\n%s", strings.Join(args, " "), err, out)
	}
	return strings.TrimSpace(out)
}

// runGit runs a git command in the specified directory with a fixed identity.
func runGit(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=Test User",
		"GIT_AUTHOR_EMAIL=test@test.com",
		"GIT_COMMITTER_NAME=Test User",
		"GIT_COMMITTER_EMAIL=test@test.com",
		"GIT_TERMINAL_PROMPT=0",
	)

	output, err := cmd.CombinedOutput()
	return string(output), err
}
