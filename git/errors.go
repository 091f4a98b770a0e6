package git

import "errors"

// Git operation errors.
var (
	// ErrBranchExists indicates the branch already exists.
	ErrBranchExists = errors.New("branch already exists")

	// ErrNothingToCommit indicates there are no staged changes to commit.
	ErrNothingToCommit = errors.New("nothing to commit")
)

// Error wraps a git command error with the operation that failed.
type Error struct {
	Op  string // Operation that failed (e.g., "commit", "push")
	Err error  // Underlying error, usually a *CommandError
}

func (e *Error) Error() string {
	var cmdErr *CommandError
	if errors.As(e.Err, &cmdErr) && cmdErr.Output != "" {
		return e.Op + ": " + cmdErr.Output
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}
