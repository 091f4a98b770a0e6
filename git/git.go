package git

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// DefaultRemote is the remote pushed to and pulled from when none is configured.
const DefaultRemote = "origin"

// Context runs git commands against one working tree.
type Context struct {
	workDir string        // Directory git commands run in
	remote  string        // Remote used for push and pull
	runner  CommandRunner // Command runner (defaults to ExecRunner)
}

// Option configures Context.
type Option func(*Context)

// NewContext creates a git context rooted at workDir.
// It does not check that workDir is a repository; use IsRepository for that.
func NewContext(workDir string, opts ...Option) (*Context, error) {
	absPath, err := filepath.Abs(workDir)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}

	g := &Context{
		workDir: absPath,
		remote:  DefaultRemote,
		runner:  NewExecRunner(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// WithRunner sets a custom command runner for git operations.
// This is primarily used for testing to inject mock command execution.
func WithRunner(runner CommandRunner) Option {
	return func(g *Context) {
		g.runner = runner
	}
}

// WithRemote sets the remote used by Push and Pull callers.
func WithRemote(remote string) Option {
	return func(g *Context) {
		if remote != "" {
			g.remote = remote
		}
	}
}

// WorkDir returns the directory git commands run in.
func (g *Context) WorkDir() string {
	return g.workDir
}

// Remote returns the configured remote name.
func (g *Context) Remote() string {
	return g.remote
}

// Runner returns the command runner, so other tools can share it.
func (g *Context) Runner() CommandRunner {
	return g.runner
}

// IsRepository reports whether the working directory is inside a git work tree.
// A failing rev-parse means "not a repository"; only a cancelled context is an error.
func (g *Context) IsRepository(ctx context.Context) (bool, error) {
	out, err := g.runGit(ctx, "rev-parse", "--is-inside-work-tree")
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, ctxErr
		}
		return false, nil
	}
	return strings.TrimSpace(out) == "true", nil
}

// CurrentBranch returns the current branch name.
func (g *Context) CurrentBranch(ctx context.Context) (string, error) {
	out, err := g.runGit(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", &Error{Op: "get current branch", Err: err}
	}
	return strings.TrimSpace(out), nil
}

// Status returns the working tree status in porcelain format.
func (g *Context) Status(ctx context.Context) (string, error) {
	out, err := g.runGit(ctx, "status", "--porcelain")
	if err != nil {
		return "", &Error{Op: "status", Err: err}
	}
	return strings.TrimRight(out, "\n"), nil
}

// HasChanges reports whether the working tree has staged, unstaged, or
// untracked changes.
func (g *Context) HasChanges(ctx context.Context) (bool, error) {
	status, err := g.Status(ctx)
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(status) != "", nil
}

// CheckoutNew creates a branch at HEAD and switches to it.
func (g *Context) CheckoutNew(ctx context.Context, name string) error {
	if _, err := g.runGit(ctx, "checkout", "-b", name); err != nil {
		if strings.Contains(err.Error(), "already exists") {
			return fmt.Errorf("%w: %s", ErrBranchExists, name)
		}
		return &Error{Op: "create branch", Err: err}
	}
	return nil
}

// Checkout switches to the specified ref.
func (g *Context) Checkout(ctx context.Context, ref string) error {
	if _, err := g.runGit(ctx, "checkout", ref); err != nil {
		return &Error{Op: "checkout", Err: err}
	}
	return nil
}

// StageAll stages all changes (git add -A).
func (g *Context) StageAll(ctx context.Context) error {
	if _, err := g.runGit(ctx, "add", "-A"); err != nil {
		return &Error{Op: "stage all", Err: err}
	}
	return nil
}

// Commit creates a commit with the given message.
// Returns ErrNothingToCommit if there are no staged changes.
func (g *Context) Commit(ctx context.Context, message string) error {
	output, err := g.runGit(ctx, "commit", "-m", message)
	if err != nil {
		if strings.Contains(output, "nothing to commit") ||
			strings.Contains(err.Error(), "nothing to commit") {
			return ErrNothingToCommit
		}
		return &Error{Op: "commit", Err: err}
	}
	return nil
}

// CommitAll stages every change and commits it.
func (g *Context) CommitAll(ctx context.Context, message string) error {
	if err := g.StageAll(ctx); err != nil {
		return err
	}
	return g.Commit(ctx, message)
}

// Push pushes the branch to the remote.
// If setUpstream is true, uses -u to set upstream tracking.
func (g *Context) Push(ctx context.Context, remote, branch string, setUpstream bool) error {
	args := []string{"push"}
	if setUpstream {
		args = append(args, "-u")
	}
	args = append(args, remote, branch)

	if _, err := g.runGit(ctx, args...); err != nil {
		return &Error{Op: "push", Err: err}
	}
	return nil
}

// Pull pulls a branch from the remote into the current branch.
func (g *Context) Pull(ctx context.Context, remote, branch string) error {
	if _, err := g.runGit(ctx, "pull", remote, branch); err != nil {
		return &Error{Op: "pull", Err: err}
	}
	return nil
}

// BranchExists reports whether a local branch exists.
func (g *Context) BranchExists(ctx context.Context, name string) (bool, error) {
	_, err := g.runGit(ctx, "rev-parse", "--verify", "--quiet", "refs/heads/"+name)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, ctxErr
		}
		var cmdErr *CommandError
		if errors.As(err, &cmdErr) {
			return false, nil
		}
		return false, &Error{Op: "verify branch", Err: err}
	}
	return true, nil
}

// DeleteBranch deletes a local branch. If force is true, uses -D instead of -d.
func (g *Context) DeleteBranch(ctx context.Context, name string, force bool) error {
	flag := "-d"
	if force {
		flag = "-D"
	}
	if _, err := g.runGit(ctx, "branch", flag, name); err != nil {
		return &Error{Op: "delete branch", Err: err}
	}
	return nil
}

// RemoteURL returns the URL of the specified remote.
func (g *Context) RemoteURL(ctx context.Context, remote string) (string, error) {
	out, err := g.runGit(ctx, "remote", "get-url", remote)
	if err != nil {
		return "", &Error{Op: "get remote URL", Err: err}
	}
	return strings.TrimSpace(out), nil
}

func (g *Context) runGit(ctx context.Context, args ...string) (string, error) {
	return g.runner.Run(ctx, g.workDir, "git", args...)
}
