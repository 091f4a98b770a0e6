package pr

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/go-github/v57/github"
	"github.com/pkg/browser"
	"golang.org/x/oauth2"
)

// GitHubProvider implements Provider against the GitHub REST API.
type GitHubProvider struct {
	client  *github.Client
	owner   string
	repo    string
	openURL func(string) error
	logger  *slog.Logger
}

// NewGitHubProvider creates a new GitHub provider.
// token is a personal access token or GitHub App token.
func NewGitHubProvider(token, owner, repo string) (*GitHubProvider, error) {
	if token == "" {
		return nil, fmt.Errorf("GitHub token is required")
	}
	if owner == "" || repo == "" {
		return nil, fmt.Errorf("owner and repo are required")
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(context.Background(), ts)
	return NewGitHubProviderWithClient(github.NewClient(tc), owner, repo), nil
}

// NewGitHubProviderFromURL creates a GitHub provider from a remote URL.
// Example: "git@github.com:acme/api.git"
func NewGitHubProviderFromURL(token, remoteURL string) (*GitHubProvider, error) {
	owner, repo, err := ParseRepoFromURL(remoteURL)
	if err != nil {
		return nil, fmt.Errorf("parse remote URL: %w", err)
	}
	return NewGitHubProvider(token, owner, repo)
}

// NewGitHubProviderWithClient wraps an existing client, such as one pointed
// at a GitHub Enterprise host or a test server.
func NewGitHubProviderWithClient(client *github.Client, owner, repo string) *GitHubProvider {
	return &GitHubProvider{
		client:  client,
		owner:   owner,
		repo:    repo,
		openURL: browser.OpenURL,
		logger:  slog.Default(),
	}
}

// Name implements Provider.
func (p *GitHubProvider) Name() string { return "github" }

// CheckAuth fetches the authenticated user.
func (p *GitHubProvider) CheckAuth(ctx context.Context) error {
	_, resp, err := p.client.Users.Get(ctx, "")
	if err != nil {
		if resp != nil && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
			return fmt.Errorf("%w: %w", ErrNotAuthenticated, err)
		}
		return fmt.Errorf("check auth: %w", err)
	}
	return nil
}

// CreatePR creates a new pull request.
func (p *GitHubProvider) CreatePR(ctx context.Context, opts Options) (*PullRequest, error) {
	base := opts.Base
	if base == "" {
		base = "main"
	}

	newPR := &github.NewPullRequest{
		Title: github.String(opts.Title),
		Body:  github.String(opts.Body),
		Base:  github.String(base),
		Head:  github.String(opts.Head),
	}

	created, resp, err := p.client.PullRequests.Create(ctx, p.owner, p.repo, newPR)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnprocessableEntity {
			if strings.Contains(err.Error(), "A pull request already exists") {
				return nil, ErrExists
			}
			if strings.Contains(err.Error(), "No commits between") {
				return nil, ErrNoChanges
			}
		}
		return nil, fmt.Errorf("create PR: %w", err)
	}

	return prFromGitHub(created), nil
}

// MergePR merges the open PR for branch and deletes the branch if asked.
// The REST API has no auto-merge; Auto is satisfied by merging now, and a PR
// that is not yet mergeable reports ErrNotMergeable.
func (p *GitHubProvider) MergePR(ctx context.Context, branch string, opts MergeOptions) error {
	found, err := p.findOpen(ctx, branch)
	if err != nil {
		return err
	}

	mergeOpts := &github.PullRequestOptions{MergeMethod: string(methodOrDefault(opts.Method))}
	_, resp, err := p.client.PullRequests.Merge(ctx, p.owner, p.repo, found.GetNumber(), "", mergeOpts)
	if err != nil {
		if resp != nil {
			switch resp.StatusCode {
			case http.StatusNotFound:
				return ErrNotFound
			case http.StatusMethodNotAllowed:
				return fmt.Errorf("%w: %w", ErrNotMergeable, err)
			case http.StatusConflict:
				return ErrMergeConflict
			}
		}
		return fmt.Errorf("merge PR: %w", err)
	}

	if opts.DeleteBranch {
		if _, err := p.client.Git.DeleteRef(ctx, p.owner, p.repo, "heads/"+branch); err != nil {
			p.logger.Warn("failed to delete branch after merge", "error", err, "pr", found.GetNumber(), "branch", branch)
		}
	}
	return nil
}

// ViewPR opens the PR for branch in the default browser.
func (p *GitHubProvider) ViewPR(ctx context.Context, branch string) error {
	found, err := p.findOpen(ctx, branch)
	if err != nil {
		return err
	}
	return p.openURL(found.GetHTMLURL())
}

func (p *GitHubProvider) findOpen(ctx context.Context, branch string) (*github.PullRequest, error) {
	prs, _, err := p.client.PullRequests.List(ctx, p.owner, p.repo, &github.PullRequestListOptions{
		State:       "open",
		Head:        p.owner + ":" + branch,
		ListOptions: github.ListOptions{PerPage: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("list PRs: %w", err)
	}
	if len(prs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, branch)
	}
	return prs[0], nil
}

func prFromGitHub(gh *github.PullRequest) *PullRequest {
	result := &PullRequest{
		Number: gh.GetNumber(),
		URL:    gh.GetHTMLURL(),
		Title:  gh.GetTitle(),
		Head:   gh.GetHead().GetRef(),
		Base:   gh.GetBase().GetRef(),
		State:  StateOpen,
	}
	switch {
	case gh.GetMerged():
		result.State = StateMerged
	case gh.GetState() == "closed":
		result.State = StateClosed
	}
	return result
}
