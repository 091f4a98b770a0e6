// Package pr provides pull request operations against a code host.
//
// Core types:
//   - Provider: Interface for auth checks, creating, merging, and viewing pull requests
//   - Options: Configuration for creating a pull request
//   - PullRequest: Represents a created pull request with URL and number
//   - Builder: Builds PR options from a commit message, truncating the title
//
// Implementations:
//   - GHProvider: Shells out to the gh CLI (the default)
//   - GitHubProvider: GitHub REST API using go-github
//   - GitLabProvider: GitLab MR provider using go-gitlab
//
// Example usage:
//
//	provider := pr.NewGHProvider(git.NewExecRunner(), ".")
//	pull, err := provider.CreatePR(ctx, pr.NewBuilder(message).
//	    WithBody(body).
//	    WithBase("main").
//	    WithHead(branch).
//	    Build())
package pr
