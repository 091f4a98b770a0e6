package workflow

import (
	"errors"
	"fmt"
	"strings"
)

// Pre-flight errors. A run that fails with one of these changed nothing.
var (
	ErrNotARepository   = errors.New("not inside a git repository")
	ErrNotAuthenticated = errors.New("not authenticated with the code host")
	ErrWrongBranch      = errors.New("not on the trunk branch")
	ErrNoChanges        = errors.New("no pending changes")
)

// WrongBranchError reports the branch found during validation.
type WrongBranchError struct {
	Actual   string
	Expected string
}

func (e *WrongBranchError) Error() string {
	return fmt.Sprintf("%s: on %q, expected %q", ErrWrongBranch, e.Actual, e.Expected)
}

// Is makes errors.Is(err, ErrWrongBranch) match.
func (e *WrongBranchError) Is(target error) bool {
	return target == ErrWrongBranch
}

// StepError is the error returned by Run. Phase is the last phase the run
// completed before Step failed. Branch and Remote name where the hotfix
// branch was, or would have been, pushed.
type StepError struct {
	Step   string
	Phase  Phase
	Branch string
	Remote string
	Err    error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// RollbackError collects the rollback actions that failed.
// It is logged and notified, never returned from Run.
type RollbackError struct {
	Branch string
	Errs   []error
}

func (e *RollbackError) Error() string {
	msgs := make([]string, len(e.Errs))
	for i, err := range e.Errs {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("rollback of %s incomplete: %s", e.Branch, strings.Join(msgs, "; "))
}

func (e *RollbackError) Unwrap() []error {
	return e.Errs
}
