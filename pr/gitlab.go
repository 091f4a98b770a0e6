package pr

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/browser"
	"github.com/xanzy/go-gitlab"
)

// GitLabProvider implements Provider for GitLab merge requests.
type GitLabProvider struct {
	client    *gitlab.Client
	projectID string // Can be numeric ID or "namespace/project"
	openURL   func(string) error
}

// NewGitLabProvider creates a new GitLab provider.
// token is a personal access token.
// baseURL is the GitLab instance URL (empty for gitlab.com).
// projectID can be numeric ID or "namespace/project" path.
func NewGitLabProvider(token, baseURL, projectID string) (*GitLabProvider, error) {
	if token == "" {
		return nil, fmt.Errorf("GitLab token is required")
	}
	if projectID == "" {
		return nil, fmt.Errorf("project ID is required")
	}

	var opts []gitlab.ClientOptionFunc
	if baseURL != "" {
		opts = append(opts, gitlab.WithBaseURL(baseURL))
	}
	client, err := gitlab.NewClient(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("create GitLab client: %w", err)
	}

	return &GitLabProvider{
		client:    client,
		projectID: projectID,
		openURL:   browser.OpenURL,
	}, nil
}

// NewGitLabProviderFromURL creates a GitLab provider from a remote URL.
// baseURL overrides the instance derived from the remote; leave it empty to
// use gitlab.com or the remote's own host.
func NewGitLabProviderFromURL(token, baseURL, remoteURL string) (*GitLabProvider, error) {
	namespace, project, err := ParseRepoFromURL(remoteURL)
	if err != nil {
		return nil, fmt.Errorf("parse remote URL: %w", err)
	}

	if baseURL == "" && !strings.Contains(remoteURL, "gitlab.com") {
		baseURL = HostFromURL(remoteURL)
	}
	return NewGitLabProvider(token, baseURL, namespace+"/"+project)
}

// Name implements Provider.
func (p *GitLabProvider) Name() string { return "gitlab" }

// CheckAuth fetches the current user.
func (p *GitLabProvider) CheckAuth(ctx context.Context) error {
	_, resp, err := p.client.Users.CurrentUser(gitlab.WithContext(ctx))
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return fmt.Errorf("%w: %w", ErrNotAuthenticated, err)
		}
		return fmt.Errorf("check auth: %w", err)
	}
	return nil
}

// CreatePR creates a new merge request.
func (p *GitLabProvider) CreatePR(ctx context.Context, opts Options) (*PullRequest, error) {
	targetBranch := opts.Base
	if targetBranch == "" {
		targetBranch = "main"
	}

	mrOpts := &gitlab.CreateMergeRequestOptions{
		Title:        gitlab.Ptr(opts.Title),
		Description:  gitlab.Ptr(opts.Body),
		SourceBranch: gitlab.Ptr(opts.Head),
		TargetBranch: gitlab.Ptr(targetBranch),
	}

	mr, resp, err := p.client.MergeRequests.CreateMergeRequest(p.projectID, mrOpts, gitlab.WithContext(ctx))
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusConflict {
			return nil, ErrExists
		}
		if resp != nil && resp.StatusCode == http.StatusBadRequest && strings.Contains(err.Error(), "No commits between") {
			return nil, ErrNoChanges
		}
		return nil, fmt.Errorf("create MR: %w", err)
	}

	return &PullRequest{
		Number: mr.IID,
		URL:    mr.WebURL,
		Title:  mr.Title,
		Head:   mr.SourceBranch,
		Base:   mr.TargetBranch,
		State:  StateOpen,
	}, nil
}

// MergePR accepts the open MR for branch. With Auto set, GitLab merges once
// the pipeline succeeds.
func (p *GitLabProvider) MergePR(ctx context.Context, branch string, opts MergeOptions) error {
	iid, _, err := p.findOpen(ctx, branch)
	if err != nil {
		return err
	}

	mergeOpts := &gitlab.AcceptMergeRequestOptions{}
	if opts.DeleteBranch {
		mergeOpts.ShouldRemoveSourceBranch = gitlab.Ptr(true)
	}
	if opts.Auto {
		mergeOpts.MergeWhenPipelineSucceeds = gitlab.Ptr(true)
	}
	if opts.Method == MergeMethodSquash {
		mergeOpts.Squash = gitlab.Ptr(true)
	}

	_, resp, err := p.client.MergeRequests.AcceptMergeRequest(p.projectID, iid, mergeOpts, gitlab.WithContext(ctx))
	if err != nil {
		if resp != nil {
			switch resp.StatusCode {
			case http.StatusNotFound:
				return ErrNotFound
			case http.StatusMethodNotAllowed, http.StatusUnprocessableEntity:
				return fmt.Errorf("%w: %w", ErrNotMergeable, err)
			case http.StatusNotAcceptable, http.StatusConflict:
				return ErrMergeConflict
			}
		}
		return fmt.Errorf("merge MR: %w", err)
	}
	return nil
}

// ViewPR opens the MR for branch in the default browser.
func (p *GitLabProvider) ViewPR(ctx context.Context, branch string) error {
	_, webURL, err := p.findOpen(ctx, branch)
	if err != nil {
		return err
	}
	return p.openURL(webURL)
}

func (p *GitLabProvider) findOpen(ctx context.Context, branch string) (int, string, error) {
	opts := &gitlab.ListProjectMergeRequestsOptions{
		ListOptions:  gitlab.ListOptions{PerPage: 1},
		State:        gitlab.Ptr("opened"),
		SourceBranch: gitlab.Ptr(branch),
	}
	mrs, _, err := p.client.MergeRequests.ListProjectMergeRequests(p.projectID, opts, gitlab.WithContext(ctx))
	if err != nil {
		return 0, "", fmt.Errorf("list MRs: %w", err)
	}
	if len(mrs) == 0 {
		return 0, "", fmt.Errorf("%w: %s", ErrNotFound, branch)
	}
	return mrs[0].IID, mrs[0].WebURL, nil
}
