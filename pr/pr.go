package pr

import (
	"context"
	"fmt"
	"strings"
)

// MaxTitleLength is the longest PR title sent to a host.
const MaxTitleLength = 70

// titleEllipsis marks a truncated title.
const titleEllipsis = "..."

// State represents the state of a pull request.
type State string

const (
	StateOpen   State = "open"
	StateClosed State = "closed"
	StateMerged State = "merged"
)

// Provider is the interface to a code host.
// Implementations exist for the gh CLI, the GitHub REST API, and GitLab.
type Provider interface {
	// Name identifies the provider in logs and config output.
	Name() string

	// CheckAuth reports whether the host CLI or token is authenticated.
	CheckAuth(ctx context.Context) error

	// CreatePR creates a new pull request.
	CreatePR(ctx context.Context, opts Options) (*PullRequest, error)

	// MergePR merges the open pull request whose head is branch.
	MergePR(ctx context.Context, branch string, opts MergeOptions) error

	// ViewPR opens the pull request for branch in a browser.
	ViewPR(ctx context.Context, branch string) error
}

// Options configures pull request creation.
type Options struct {
	Title string // PR title (required)
	Body  string // PR description (markdown)
	Base  string // Target branch (default: "main")
	Head  string // Source branch (required)
}

// MergeOptions configures pull request merging.
type MergeOptions struct {
	Method       MergeMethod // Merge method (merge, squash, rebase)
	DeleteBranch bool        // Delete source branch after merge
	Auto         bool        // Merge once required checks pass
}

// MergeMethod specifies how to merge a pull request.
type MergeMethod string

const (
	MergeMethodMerge  MergeMethod = "merge"
	MergeMethodSquash MergeMethod = "squash"
	MergeMethodRebase MergeMethod = "rebase"
)

// PullRequest represents a created pull request.
type PullRequest struct {
	Number int    // PR number (IID on GitLab)
	URL    string // Web URL
	Title  string // PR title
	Head   string // Source branch
	Base   string // Target branch
	State  State  // Current state
}

// String returns "#<number> <url>", or just the URL when the number is unknown.
func (p *PullRequest) String() string {
	if p == nil {
		return ""
	}
	if p.Number == 0 {
		return p.URL
	}
	return fmt.Sprintf("#%d %s", p.Number, p.URL)
}

// TruncateTitle returns the first line of message, cut to MaxTitleLength
// characters with a trailing "..." when it is longer.
func TruncateTitle(message string) string {
	title, _, _ := strings.Cut(strings.TrimSpace(message), "\n")
	title = strings.TrimSpace(title)

	runes := []rune(title)
	if len(runes) <= MaxTitleLength {
		return title
	}
	return string(runes[:MaxTitleLength-len(titleEllipsis)]) + titleEllipsis
}

// Builder helps construct PR options using a fluent interface.
type Builder struct {
	opts Options
}

// NewBuilder creates a PR builder whose title is derived from message.
func NewBuilder(message string) *Builder {
	return &Builder{
		opts: Options{
			Title: TruncateTitle(message),
			Base:  "main",
		},
	}
}

// WithBody sets the PR body.
func (b *Builder) WithBody(body string) *Builder {
	b.opts.Body = body
	return b
}

// WithBase sets the target branch.
func (b *Builder) WithBase(base string) *Builder {
	if base != "" {
		b.opts.Base = base
	}
	return b
}

// WithHead sets the source branch.
func (b *Builder) WithHead(head string) *Builder {
	b.opts.Head = head
	return b
}

// Build returns the constructed PR options.
func (b *Builder) Build() Options {
	return b.opts
}

// Platform names a hosting service detected from a remote URL.
type Platform string

const (
	PlatformGitHub Platform = "github"
	PlatformGitLab Platform = "gitlab"
)

// DetectPlatform attempts to detect the hosting platform from a remote URL.
func DetectPlatform(remoteURL string) (Platform, error) {
	lower := strings.ToLower(remoteURL)

	if strings.Contains(lower, "github") {
		return PlatformGitHub, nil
	}
	if strings.Contains(lower, "gitlab") {
		return PlatformGitLab, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownProvider, remoteURL)
}

// ParseRepoFromURL extracts owner and repo from a git remote URL.
// For nested GitLab groups the owner is the full namespace path.
func ParseRepoFromURL(remoteURL string) (owner, repo string, err error) {
	remoteURL = strings.TrimSpace(remoteURL)

	var path string
	switch {
	case strings.HasPrefix(remoteURL, "git@"):
		_, after, ok := strings.Cut(remoteURL, ":")
		if !ok {
			return "", "", fmt.Errorf("invalid SSH URL format: %s", remoteURL)
		}
		path = after
	case strings.HasPrefix(remoteURL, "ssh://"), strings.HasPrefix(remoteURL, "https://"), strings.HasPrefix(remoteURL, "http://"):
		_, rest, _ := strings.Cut(remoteURL, "://")
		_, after, ok := strings.Cut(rest, "/")
		if !ok {
			return "", "", fmt.Errorf("invalid URL format: %s", remoteURL)
		}
		path = after
	default:
		return "", "", fmt.Errorf("invalid URL format: %s", remoteURL)
	}

	path = strings.Trim(strings.TrimSuffix(path, ".git"), "/")
	idx := strings.LastIndex(path, "/")
	if idx <= 0 || idx == len(path)-1 {
		return "", "", fmt.Errorf("invalid repository path: %s", path)
	}
	return path[:idx], path[idx+1:], nil
}

// HostFromURL returns the scheme and host of an https remote, or
// "https://<host>" for an SSH remote.
func HostFromURL(remoteURL string) string {
	remoteURL = strings.TrimSpace(remoteURL)
	if rest, ok := strings.CutPrefix(remoteURL, "git@"); ok {
		host, _, _ := strings.Cut(rest, ":")
		return "https://" + host
	}
	scheme, rest, ok := strings.Cut(remoteURL, "://")
	if !ok {
		return ""
	}
	host, _, _ := strings.Cut(rest, "/")
	if _, h, found := strings.Cut(host, "@"); found {
		host = h
	}
	if scheme != "http" {
		scheme = "https"
	}
	return scheme + "://" + host
}
