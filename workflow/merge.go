package workflow

import (
	"context"
	"fmt"

	"github.com/randalmurphal/hotfix/notify"
	"github.com/randalmurphal/hotfix/pr"
)

// mergeOptions requests a merge commit, branch deletion, and auto-merge.
var mergeOptions = pr.MergeOptions{
	Method:       pr.MergeMethodMerge,
	DeleteBranch: true,
	Auto:         true,
}

// merge waits for the configured delay and merges the pull request. A
// failed merge is not fatal: the operator gets the PR in a browser and the
// run continues once they press Enter.
//
// Updates: state.Merge
func (o *Orchestrator) merge(ctx context.Context, s State) (State, error) {
	if o.opts.MergeDelay > 0 {
		o.printer.Step("Waiting %s before merging", o.opts.MergeDelay)
		if err := o.opts.Sleep(ctx, o.opts.MergeDelay); err != nil {
			return s, err
		}
	}

	o.printer.Step("Merging pull request")
	err := o.provider.MergePR(ctx, s.BranchName, mergeOptions)
	if err == nil {
		s.Merge = MergedAutomatically
		s.Phase = PhaseMerged
		o.printer.Success("Pull request merged")
		return s, nil
	}

	if ctx.Err() != nil {
		return s, err
	}

	outcome, err := o.manualMerge(ctx, s, err)
	if err != nil {
		return s, err
	}
	s.Merge = outcome
	s.Phase = PhaseMerged
	return s, nil
}

// manualMerge opens the pull request and blocks until the operator confirms.
// Only a failed wait is an error.
func (o *Orchestrator) manualMerge(ctx context.Context, s State, cause error) (MergeOutcome, error) {
	o.logger.Warn("automatic merge failed, falling back to manual merge",
		"run_id", s.RunID, "branch", s.BranchName, "error", cause)
	o.printer.Warn("Automatic merge failed: %v", cause)
	o.notify(ctx, s, notify.Event{
		Type:     notify.EventMergeFallback,
		Severity: notify.SeverityWarning,
		Message:  fmt.Sprintf("Automatic merge failed, waiting for manual merge: %v", cause),
	})

	if err := o.provider.ViewPR(ctx, s.BranchName); err != nil {
		o.logger.Warn("failed to open pull request in browser", "branch", s.BranchName, "error", err)
		if s.PR != nil {
			o.printer.Info("Open %s to merge manually", s.PR.URL)
		}
	}

	if err := o.prompter.WaitForEnter(ctx, "Merge the pull request manually, then press Enter to continue..."); err != nil {
		return MergePending, fmt.Errorf("manual merge: %w", err)
	}
	return MergedManually, nil
}
