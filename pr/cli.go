package pr

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/randalmurphal/hotfix/git"
)

// GHProvider implements Provider by shelling out to the gh CLI.
// gh keeps its own credentials, so no token is configured here.
type GHProvider struct {
	runner  git.CommandRunner
	workDir string
	binary  string
}

// NewGHProvider creates a provider that runs gh in workDir.
func NewGHProvider(runner git.CommandRunner, workDir string) *GHProvider {
	if runner == nil {
		runner = git.NewExecRunner()
	}
	return &GHProvider{runner: runner, workDir: workDir, binary: "gh"}
}

var prNumberPattern = regexp.MustCompile(`/pull/(\d+)`)

// Name implements Provider.
func (p *GHProvider) Name() string { return "gh" }

// CheckAuth runs gh auth status.
func (p *GHProvider) CheckAuth(ctx context.Context) error {
	if _, err := p.run(ctx, "auth", "status"); err != nil {
		return fmt.Errorf("%w: %w", ErrNotAuthenticated, err)
	}
	return nil
}

// CreatePR runs gh pr create and parses the URL it prints.
func (p *GHProvider) CreatePR(ctx context.Context, opts Options) (*PullRequest, error) {
	base := opts.Base
	if base == "" {
		base = "main"
	}

	out, err := p.run(ctx, "pr", "create",
		"--title", opts.Title,
		"--body", opts.Body,
		"--base", base,
		"--head", opts.Head,
	)
	if err != nil {
		msg := err.Error()
		switch {
		case strings.Contains(msg, "already exists"):
			return nil, fmt.Errorf("%w: %w", ErrExists, err)
		case strings.Contains(msg, "No commits between"):
			return nil, fmt.Errorf("%w: %w", ErrNoChanges, err)
		}
		return nil, err
	}

	url := lastLine(out)
	result := &PullRequest{
		URL:   url,
		Title: opts.Title,
		Head:  opts.Head,
		Base:  base,
		State: StateOpen,
	}
	if m := prNumberPattern.FindStringSubmatch(url); m != nil {
		result.Number, _ = strconv.Atoi(m[1])
	}
	return result, nil
}

// MergePR runs gh pr merge for branch.
func (p *GHProvider) MergePR(ctx context.Context, branch string, opts MergeOptions) error {
	args := []string{"pr", "merge", branch, "--" + string(methodOrDefault(opts.Method))}
	if opts.DeleteBranch {
		args = append(args, "--delete-branch")
	}
	if opts.Auto {
		args = append(args, "--auto")
	}
	_, err := p.run(ctx, args...)
	return err
}

// ViewPR runs gh pr view --web, which opens the browser itself.
func (p *GHProvider) ViewPR(ctx context.Context, branch string) error {
	_, err := p.run(ctx, "pr", "view", branch, "--web")
	return err
}

func (p *GHProvider) run(ctx context.Context, args ...string) (string, error) {
	return p.runner.Run(ctx, p.workDir, p.binary, args...)
}

func methodOrDefault(m MergeMethod) MergeMethod {
	if m == "" {
		return MergeMethodMerge
	}
	return m
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
