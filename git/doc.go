// Package git provides the command executor and the git operations the
// hotfix workflow needs.
//
// Core types:
//   - CommandRunner: Interface for executing external commands (with mocks for testing)
//   - ExecRunner: CommandRunner backed by os/exec; cancelling the context kills the process
//   - CommandError: A failed command with its command line and output
//   - Context: Git operations for one working tree
//
// Example usage:
//
//	g, err := git.NewContext(".")
//	branch := git.HotfixBranchName(time.Now())
//	if err := g.CheckoutNew(ctx, branch); err != nil {
//	    return err
//	}
//	err = g.CommitAll(ctx, "Fix login redirect")
package git
