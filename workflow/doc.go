// Package workflow runs the hotfix pipeline.
//
// Core types:
//   - Orchestrator: Compiles and runs the fixed step sequence
//   - State: Data one run accumulates (branch, message, PR, merge outcome)
//   - Phase: Last completed step, used to label failures and scope rollback
//   - StepError: Error returned by Run, wrapping the failing step's cause
//
// Steps, in order:
//   - validate: repository, host auth, on trunk, pending changes
//   - name: hotfix-<UTC timestamp> branch name
//   - message: generator or fallback template, then operator edit
//   - branch, commit, push: checkout -b, add -A + commit, push -u
//   - create-pr: title truncated to 70 characters, templated body
//   - merge: delayed auto-merge, manual browser fallback on failure
//   - cleanup: checkout trunk, pull, delete the local branch
//
// Validation, naming, and message failures return without touching the
// repository. Any later failure checks out the original branch and
// force-deletes the hotfix branch before Run returns.
//
// Example usage:
//
//	orch, err := workflow.NewOrchestrator(workflow.Deps{
//	    Git:      gitCtx,
//	    Provider: provider,
//	    Prompter: console.NewLinePrompter(os.Stdin, os.Stdout),
//	}, workflow.Options{Trunk: "main"})
//	state, err := orch.Run(ctx)
package workflow
