package errors

import (
	"errors"

	"github.com/randalmurphal/hotfix/workflow"
)

// Common CLI errors with actionable guidance.
var (
	// ErrNotAuthenticated indicates the host CLI or token is not logged in.
	ErrNotAuthenticated = workflow.ErrNotAuthenticated

	// ErrNotInGitRepo indicates the command requires a git repository.
	ErrNotInGitRepo = workflow.ErrNotARepository

	// ErrConnectionFailed indicates the code host or remote is unreachable.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrPermissionDenied indicates insufficient permissions on the host.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrSessionExpired indicates the host token has expired.
	ErrSessionExpired = errors.New("session expired")

	// ErrInterrupted indicates the run was stopped by a signal.
	ErrInterrupted = errors.New("interrupted")
)
