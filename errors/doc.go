// Package errors turns hotfix failures into messages an operator can act on.
//
// Core types:
//   - CLIError: Wraps errors with message, suggestion, and details
//   - ErrorMessenger: Interface for customizing error messages
//
// Sentinel errors for common scenarios:
//   - ErrNotAuthenticated: Host CLI or token not logged in
//   - ErrSessionExpired: Host token has expired
//   - ErrNotInGitRepo: Command requires a git repository
//   - ErrConnectionFailed: Remote or host is unreachable
//   - ErrPermissionDenied: Insufficient permissions
//   - ErrInterrupted: Run stopped by a signal
//
// Example usage:
//
//	state, err := orch.Run(ctx)
//	if err != nil {
//	    fmt.Fprintln(os.Stderr, errors.Format(err))
//	    os.Exit(1)
//	}
//
//	// Check error types
//	if errors.IsAuthError(err) {
//	    // Handle auth-related error
//	}
package errors
