package workflow

import (
	"context"

	"github.com/randalmurphal/hotfix/notify"
)

// rollback restores the original branch and force-deletes the hotfix branch.
// It runs on a context detached from ctx so an interrupted run still gets
// cleaned up, bounded by RollbackTimeout. Failures are logged and notified.
func (o *Orchestrator) rollback(ctx context.Context, s State) {
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.opts.RollbackTimeout)
	defer cancel()

	o.printer.Warn("Rolling back")
	o.logger.Info("rolling back", "run_id", s.RunID, "original_branch", s.OriginalBranch, "branch", s.BranchName)

	rbErr := &RollbackError{Branch: s.BranchName}

	if s.OriginalBranch != "" {
		if err := o.git.Checkout(rctx, s.OriginalBranch); err != nil {
			o.logger.Error("rollback checkout failed", "branch", s.OriginalBranch, "error", err)
			rbErr.Errs = append(rbErr.Errs, err)
		}
	}

	if s.BranchName != "" {
		if err := o.git.DeleteBranch(rctx, s.BranchName, true); err != nil {
			o.logger.Debug("rollback branch delete failed", "branch", s.BranchName, "error", err)
		}
	}

	if len(rbErr.Errs) == 0 {
		o.printer.Info("Restored %s", s.OriginalBranch)
		return
	}

	o.printer.Fail("Rollback incomplete: %v", rbErr)
	o.notify(rctx, s, notify.Event{
		Type:     notify.EventRollbackFailed,
		Severity: notify.SeverityError,
		Message:  rbErr.Error(),
	})
}
