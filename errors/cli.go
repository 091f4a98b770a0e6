package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/randalmurphal/hotfix/git"
	"github.com/randalmurphal/hotfix/workflow"
)

// CLIError wraps an error with user-friendly context and suggestions.
type CLIError struct {
	// Err is the underlying error
	Err error

	// Message is a user-friendly description of what went wrong
	Message string

	// Suggestion is an actionable hint for the user
	Suggestion string

	// Details provides additional context (optional)
	Details string
}

func (e *CLIError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Message)

	if e.Details != "" {
		sb.WriteString("\n")
		sb.WriteString(e.Details)
	}

	if e.Suggestion != "" {
		sb.WriteString("\n\n")
		sb.WriteString(e.Suggestion)
	}

	return sb.String()
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// ErrorMessenger provides customizable error messages.
type ErrorMessenger interface {
	// AuthErrorMessage returns the message and suggestion for unauthenticated errors.
	AuthErrorMessage() (message, suggestion string)

	// SessionExpiredMessage returns the message and suggestion for expired tokens.
	SessionExpiredMessage() (message, suggestion string)

	// PermissionDeniedMessage returns the message and suggestion for permission errors.
	PermissionDeniedMessage() (message, suggestion string)

	// ConnectionErrorMessage returns the message and suggestion for connection errors.
	// target names what failed to connect, such as a remote or host.
	ConnectionErrorMessage(target string) (message, suggestion string)

	// TLSErrorMessage returns the message and suggestion for TLS/certificate errors.
	TLSErrorMessage(target string) (message, suggestion string)

	// TimeoutErrorMessage returns the message and suggestion for timeout errors.
	TimeoutErrorMessage(target string) (message, suggestion string)

	// NotInGitRepoMessage returns the message and suggestion for git repo errors.
	NotInGitRepoMessage() (message, suggestion string)

	// WrongBranchMessage returns the message and suggestion when not on trunk.
	WrongBranchMessage(actual, expected string) (message, suggestion string)

	// NoChangesMessage returns the message and suggestion for a clean work tree.
	NoChangesMessage() (message, suggestion string)

	// InterruptedMessage returns the message and suggestion for a cancelled run.
	InterruptedMessage() (message, suggestion string)

	// StepFailedMessage returns the message and suggestion for a failed step.
	// rolledBack reports whether local changes were undone.
	StepFailedMessage(step string, rolledBack bool) (message, suggestion string)
}

// DefaultMessenger provides default error messages.
type DefaultMessenger struct{}

func (m DefaultMessenger) AuthErrorMessage() (string, string) {
	return "You are not logged in to the code host.",
		"Run 'gh auth login', or set GITHUB_TOKEN or GITLAB_TOKEN for the API providers."
}

func (m DefaultMessenger) SessionExpiredMessage() (string, string) {
	return "Your code host token has expired.",
		"Run 'gh auth refresh', or replace the token with 'hotfix config set --global github_token <token>'."
}

func (m DefaultMessenger) PermissionDeniedMessage() (string, string) {
	return "You don't have permission to perform this action.",
		"Check that your account can push to the repository and merge into the trunk branch."
}

func (m DefaultMessenger) ConnectionErrorMessage(target string) (string, string) {
	return fmt.Sprintf("Cannot connect to %s", target),
		"Check that:\n  - The remote URL is correct (git remote -v)\n  - Your network connection is working"
}

func (m DefaultMessenger) TLSErrorMessage(target string) (string, string) {
	return fmt.Sprintf("TLS/certificate error connecting to %s", target),
		"Check that the server certificate is valid."
}

func (m DefaultMessenger) TimeoutErrorMessage(target string) (string, string) {
	return fmt.Sprintf("Connection to %s timed out", target),
		"The host may be overloaded or unreachable.\nTry again in a moment."
}

func (m DefaultMessenger) NotInGitRepoMessage() (string, string) {
	return "This command must be run from within a git repository.",
		"cd into your repository and run hotfix again."
}

func (m DefaultMessenger) WrongBranchMessage(actual, expected string) (string, string) {
	return fmt.Sprintf("You are on branch %q; hotfixes start from %q.", actual, expected),
		fmt.Sprintf("Run 'git checkout %s' (bring your changes along), or pass --trunk %s.", expected, actual)
}

func (m DefaultMessenger) NoChangesMessage() (string, string) {
	return "There are no pending changes to release.",
		"Make your fix in the working tree first, then run hotfix."
}

func (m DefaultMessenger) InterruptedMessage() (string, string) {
	return "Hotfix interrupted.",
		"Local changes were rolled back. Check 'git status' before retrying."
}

func (m DefaultMessenger) StepFailedMessage(step string, rolledBack bool) (string, string) {
	msg := fmt.Sprintf("Hotfix failed during %s.", step)
	if rolledBack {
		return msg, "The original branch was restored and the hotfix branch deleted locally."
	}
	return msg, ""
}

// WrapConfig configures error wrapping behavior.
type WrapConfig struct {
	Messenger ErrorMessenger
}

// Option configures WrapConfig.
type Option func(*WrapConfig)

// WithMessenger sets a custom error messenger.
func WithMessenger(m ErrorMessenger) Option {
	return func(c *WrapConfig) {
		c.Messenger = m
	}
}

func getMessenger(opts []Option) ErrorMessenger {
	cfg := &WrapConfig{
		Messenger: DefaultMessenger{},
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg.Messenger
}

// WrapAuthError wraps authentication-related errors with helpful guidance.
// Errors that are not auth-related are returned unchanged.
func WrapAuthError(err error, opts ...Option) error {
	if err == nil {
		return nil
	}

	errStr := strings.ToLower(err.Error())
	messenger := getMessenger(opts)

	// Token expiration
	if strings.Contains(errStr, "token") && (strings.Contains(errStr, "expired") || strings.Contains(errStr, "invalid")) {
		msg, suggestion := messenger.SessionExpiredMessage()
		return &CLIError{
			Err:        errors.Join(ErrSessionExpired, err),
			Message:    msg,
			Suggestion: suggestion,
		}
	}

	if IsAuthError(err) {
		msg, suggestion := messenger.AuthErrorMessage()
		return &CLIError{
			Err:        errors.Join(ErrNotAuthenticated, err),
			Message:    msg,
			Suggestion: suggestion,
		}
	}

	if IsPermissionError(err) {
		msg, suggestion := messenger.PermissionDeniedMessage()
		return &CLIError{
			Err:        errors.Join(ErrPermissionDenied, err),
			Message:    msg,
			Suggestion: suggestion,
		}
	}

	return err
}

// WrapConnectionError wraps connection-related errors with helpful guidance.
// Errors that are not connection-related are returned unchanged.
func WrapConnectionError(err error, target string, opts ...Option) error {
	if err == nil {
		return nil
	}

	errStr := strings.ToLower(err.Error())
	messenger := getMessenger(opts)

	if strings.Contains(errStr, "certificate") || strings.Contains(errStr, "tls") ||
		strings.Contains(errStr, "x509") {
		msg, suggestion := messenger.TLSErrorMessage(target)
		return &CLIError{
			Err:        errors.Join(ErrConnectionFailed, err),
			Message:    msg,
			Details:    err.Error(),
			Suggestion: suggestion,
		}
	}

	if isTimeout(errStr) {
		msg, suggestion := messenger.TimeoutErrorMessage(target)
		return &CLIError{
			Err:        errors.Join(ErrConnectionFailed, err),
			Message:    msg,
			Suggestion: suggestion,
		}
	}

	if IsConnectionError(err) {
		msg, suggestion := messenger.ConnectionErrorMessage(target)
		return &CLIError{
			Err:        errors.Join(ErrConnectionFailed, err),
			Message:    msg,
			Suggestion: suggestion,
		}
	}

	return err
}

// NewNotInGitRepoError creates an error for commands that require a git repository.
func NewNotInGitRepoError(opts ...Option) error {
	messenger := getMessenger(opts)
	msg, suggestion := messenger.NotInGitRepoMessage()
	return &CLIError{
		Err:        ErrNotInGitRepo,
		Message:    msg,
		Suggestion: suggestion,
	}
}

// NewNotAuthenticatedError creates an error for unauthenticated users.
func NewNotAuthenticatedError(opts ...Option) error {
	messenger := getMessenger(opts)
	msg, suggestion := messenger.AuthErrorMessage()
	return &CLIError{
		Err:        ErrNotAuthenticated,
		Message:    msg,
		Suggestion: suggestion,
	}
}

// Format turns any error from a hotfix run into a CLIError for the operator.
// It returns nil for a nil error.
func Format(err error, opts ...Option) *CLIError {
	if err == nil {
		return nil
	}

	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr
	}

	messenger := getMessenger(opts)

	var wrong *workflow.WrongBranchError
	switch {
	case errors.As(err, &wrong):
		msg, suggestion := messenger.WrongBranchMessage(wrong.Actual, wrong.Expected)
		return &CLIError{Err: err, Message: msg, Suggestion: suggestion}

	case errors.Is(err, ErrNotInGitRepo):
		msg, suggestion := messenger.NotInGitRepoMessage()
		return &CLIError{Err: err, Message: msg, Suggestion: suggestion}

	case errors.Is(err, workflow.ErrNoChanges):
		msg, suggestion := messenger.NoChangesMessage()
		return &CLIError{Err: err, Message: msg, Suggestion: suggestion}

	case errors.Is(err, ErrNotAuthenticated):
		msg, suggestion := messenger.AuthErrorMessage()
		return &CLIError{Err: err, Message: msg, Details: cause(err), Suggestion: suggestion}
	}

	var stepErr *workflow.StepError
	hasStep := errors.As(err, &stepErr)
	rolledBack := hasStep && stepErr.Phase >= workflow.PhaseMessageResolved

	var result *CLIError
	switch {
	case IsInterrupted(err):
		msg, suggestion := messenger.InterruptedMessage()
		result = &CLIError{Err: err, Message: msg, Suggestion: suggestion}
		if !rolledBack {
			result.Suggestion = ""
		}

	default:
		if wrapped := WrapAuthError(err, opts...); errors.As(wrapped, &cliErr) {
			result = cliErr
		} else if wrapped := WrapConnectionError(err, target(err), opts...); errors.As(wrapped, &cliErr) {
			result = cliErr
		} else {
			step := "the run"
			if hasStep {
				step = stepErr.Step
			}
			msg, suggestion := messenger.StepFailedMessage(step, rolledBack)
			result = &CLIError{Err: err, Message: msg, Suggestion: suggestion}
		}
		if result.Details == "" {
			result.Details = cause(err)
		}
	}

	if hasStep && stepErr.Phase >= workflow.PhasePushed {
		branch := stepErr.Branch
		if branch == "" {
			branch = leftoverBranch(err)
		}
		if branch != "" {
			remote := leftoverRemote(stepErr, err)
			note := fmt.Sprintf("The branch %s may still exist on %s. Delete it with 'git push %s --delete %s'.",
				branch, remote, remote, branch)
			result.Suggestion = strings.TrimSpace(result.Suggestion + "\n" + note)
		}
	}

	return result
}

// cause returns the innermost useful message: the failed command's output
// when there is one, else the step's cause.
func cause(err error) string {
	var cmdErr *git.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Error()
	}
	var stepErr *workflow.StepError
	if errors.As(err, &stepErr) {
		return stepErr.Err.Error()
	}
	return err.Error()
}

// target names what a failed command was talking to.
func target(err error) string {
	if remote := remoteArg(err); remote != "" {
		return fmt.Sprintf("remote %q", remote)
	}
	var cmdErr *git.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Command
	}
	return "the code host"
}

// remoteArg returns the remote of a failed git push, pull, or fetch.
func remoteArg(err error) string {
	var cmdErr *git.CommandError
	if !errors.As(err, &cmdErr) || cmdErr.Command != "git" || len(cmdErr.Args) < 2 {
		return ""
	}
	switch cmdErr.Args[0] {
	case "push", "pull", "fetch":
		for _, arg := range cmdErr.Args[1:] {
			if !strings.HasPrefix(arg, "-") {
				return arg
			}
		}
	}
	return ""
}

// leftoverRemote picks the remote the hotfix branch was pushed to.
func leftoverRemote(stepErr *workflow.StepError, err error) string {
	if stepErr.Remote != "" {
		return stepErr.Remote
	}
	if remote := remoteArg(err); remote != "" {
		return remote
	}
	return git.DefaultRemote
}

// leftoverBranch finds a hotfix branch name mentioned by the failed command
// or its error text.
func leftoverBranch(err error) string {
	var cmdErr *git.CommandError
	if errors.As(err, &cmdErr) {
		for _, arg := range cmdErr.Args {
			if _, ok := git.ParseHotfixBranch(arg); ok {
				return arg
			}
		}
	}
	for _, field := range strings.Fields(err.Error()) {
		field = strings.Trim(field, "\"'`:,.;()")
		if _, ok := git.ParseHotfixBranch(field); ok {
			return field
		}
	}
	return ""
}
