package pr

import "errors"

// PR provider errors
var (
	// ErrUnknownProvider indicates the provider name or remote host is not recognized.
	ErrUnknownProvider = errors.New("unknown git provider")

	// ErrNotAuthenticated indicates the host rejected the credentials.
	ErrNotAuthenticated = errors.New("not authenticated with code host")

	// ErrExists indicates a PR already exists for the branch.
	ErrExists = errors.New("pull request already exists for this branch")

	// ErrNotFound indicates no open PR exists for the branch.
	ErrNotFound = errors.New("pull request not found")

	// ErrNoChanges indicates there are no changes between branches.
	ErrNoChanges = errors.New("no changes between branches")

	// ErrMergeConflict indicates a merge conflict occurred.
	ErrMergeConflict = errors.New("merge conflict")

	// ErrNotMergeable indicates the host refused the merge (checks, reviews, or state).
	ErrNotMergeable = errors.New("pull request is not mergeable")
)
