package pr

import (
	"fmt"
	"os"

	"github.com/randalmurphal/hotfix/git"
)

// Provider kinds accepted by NewProvider.
const (
	KindGH     = "gh"
	KindGitHub = "github"
	KindGitLab = "gitlab"
	KindAuto   = "auto"
)

// ProviderConfig carries what the providers need to authenticate.
type ProviderConfig struct {
	Runner      git.CommandRunner // Used by the gh provider
	WorkDir     string            // Directory gh runs in
	GitHubToken string            // Falls back to GITHUB_TOKEN, then GIT_TOKEN
	GitLabToken string            // Falls back to GITLAB_TOKEN, then GIT_TOKEN
	GitLabURL   string            // Self-hosted GitLab base URL
}

// NewProvider creates the provider named by kind.
//
// "gh" needs no remote URL. "github" and "gitlab" parse owner and repo from
// remoteURL. "auto" picks "gitlab" for GitLab remotes, "github" for GitHub
// remotes when a token is available, and "gh" otherwise.
func NewProvider(kind, remoteURL string, cfg ProviderConfig) (Provider, error) {
	switch kind {
	case KindGH, "":
		return NewGHProvider(cfg.Runner, cfg.WorkDir), nil

	case KindGitHub:
		token := firstNonEmpty(cfg.GitHubToken, os.Getenv("GITHUB_TOKEN"), os.Getenv("GIT_TOKEN"))
		if token == "" {
			return nil, fmt.Errorf("github provider needs a token; set github_token, GITHUB_TOKEN, or GIT_TOKEN")
		}
		return NewGitHubProviderFromURL(token, remoteURL)

	case KindGitLab:
		token := firstNonEmpty(cfg.GitLabToken, os.Getenv("GITLAB_TOKEN"), os.Getenv("GIT_TOKEN"))
		if token == "" {
			return nil, fmt.Errorf("gitlab provider needs a token; set gitlab_token, GITLAB_TOKEN, or GIT_TOKEN")
		}
		return NewGitLabProviderFromURL(token, cfg.GitLabURL, remoteURL)

	case KindAuto:
		platform, err := DetectPlatform(remoteURL)
		if err != nil {
			return NewGHProvider(cfg.Runner, cfg.WorkDir), nil
		}
		if platform == PlatformGitLab {
			return NewProvider(KindGitLab, remoteURL, cfg)
		}
		if firstNonEmpty(cfg.GitHubToken, os.Getenv("GITHUB_TOKEN"), os.Getenv("GIT_TOKEN")) != "" {
			return NewProvider(KindGitHub, remoteURL, cfg)
		}
		return NewGHProvider(cfg.Runner, cfg.WorkDir), nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, kind)
	}
}

// NeedsRemoteURL reports whether kind resolves owner and repo from the remote.
func NeedsRemoteURL(kind string) bool {
	return kind == KindGitHub || kind == KindGitLab || kind == KindAuto
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
