package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/randalmurphal/hotfix/git"
	"github.com/randalmurphal/hotfix/message"
)

// validate checks, in order: inside a repository, authenticated with the
// host, on trunk, and something to commit. It changes nothing.
//
// Updates: state.OriginalBranch
func (o *Orchestrator) validate(ctx context.Context, s State) (State, error) {
	o.printer.Step("Validating environment")

	ok, err := o.git.IsRepository(ctx)
	if err != nil {
		return s, err
	}
	if !ok {
		return s, ErrNotARepository
	}

	if err := o.provider.CheckAuth(ctx); err != nil {
		return s, fmt.Errorf("%w: %w", ErrNotAuthenticated, err)
	}

	branch, err := o.git.CurrentBranch(ctx)
	if err != nil {
		return s, err
	}
	if branch != o.opts.Trunk {
		return s, &WrongBranchError{Actual: branch, Expected: o.opts.Trunk}
	}

	dirty, err := o.git.HasChanges(ctx)
	if err != nil {
		return s, err
	}
	if !dirty {
		return s, ErrNoChanges
	}

	s.OriginalBranch = branch
	s.Phase = PhaseValidated
	return s, nil
}

// name picks the hotfix branch name from the run clock.
//
// Updates: state.BranchName
func (o *Orchestrator) name(_ context.Context, s State) (State, error) {
	s.BranchName = git.HotfixBranchName(o.opts.Now())
	s.Phase = PhaseNamed
	o.printer.Detail("Branch: %s", s.BranchName)
	return s, nil
}

// resolveMessage asks the generator for a message, falls back to the
// template, and lets the operator edit the result.
//
// Updates: state.CommitMessage
func (o *Orchestrator) resolveMessage(ctx context.Context, s State) (State, error) {
	o.printer.Step("Preparing commit message")

	suggested, err := o.messages.Suggest(ctx, o.vars(s))
	if err != nil {
		return s, err
	}

	final, err := o.prompter.Edit(ctx, suggested)
	if err != nil {
		return s, fmt.Errorf("edit commit message: %w", err)
	}
	if strings.TrimSpace(final) == "" {
		return s, message.ErrEmptyMessage
	}

	s.CommitMessage = final
	s.Phase = PhaseMessageResolved
	return s, nil
}

// createBranch creates and switches to the hotfix branch.
func (o *Orchestrator) createBranch(ctx context.Context, s State) (State, error) {
	o.printer.Step("Creating branch %s", s.BranchName)
	if err := o.git.CheckoutNew(ctx, s.BranchName); err != nil {
		return s, err
	}
	s.Phase = PhaseBranchCreated
	return s, nil
}

// commit stages everything and commits with the resolved message.
func (o *Orchestrator) commit(ctx context.Context, s State) (State, error) {
	o.printer.Step("Committing changes")
	if err := o.git.CommitAll(ctx, s.CommitMessage); err != nil {
		return s, err
	}
	s.Phase = PhaseCommitted
	return s, nil
}

// push publishes the branch and sets its upstream.
func (o *Orchestrator) push(ctx context.Context, s State) (State, error) {
	o.printer.Step("Pushing %s to %s", s.BranchName, o.opts.Remote)
	if err := o.git.Push(ctx, o.opts.Remote, s.BranchName, true); err != nil {
		return s, err
	}
	s.Phase = PhasePushed
	return s, nil
}

// cleanup returns the workspace to an up-to-date trunk. Checkout and pull
// failures fail the step; deleting the local branch is best effort.
func (o *Orchestrator) cleanup(ctx context.Context, s State) (State, error) {
	o.printer.Step("Returning to %s", o.opts.Trunk)

	if err := o.git.Checkout(ctx, o.opts.Trunk); err != nil {
		return s, err
	}
	if err := o.git.Pull(ctx, o.opts.Remote, o.opts.Trunk); err != nil {
		return s, err
	}

	exists, err := o.git.BranchExists(ctx, s.BranchName)
	switch {
	case err != nil:
		o.logger.Warn("could not check local branch", "branch", s.BranchName, "error", err)
	case !exists:
		o.logger.Info("local branch already deleted", "branch", s.BranchName)
	default:
		if err := o.git.DeleteBranch(ctx, s.BranchName, true); err != nil {
			o.logger.Warn("failed to delete local branch", "branch", s.BranchName, "error", err)
			o.printer.Warn("Could not delete local branch %s", s.BranchName)
		}
	}

	s.Phase = PhaseCleanedUp
	return s, nil
}

// vars returns template variables for the run.
func (o *Orchestrator) vars(s State) message.Vars {
	vars := message.VarsAt(o.opts.Now())
	vars.Branch = s.BranchName
	vars.RunID = s.RunID
	vars.Message = s.CommitMessage
	return vars
}
