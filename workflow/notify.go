package workflow

import (
	"context"

	"github.com/randalmurphal/hotfix/notify"
)

// notify fills in the run fields of event and sends it. Notification
// failures never affect the run.
func (o *Orchestrator) notify(ctx context.Context, s State, event notify.Event) {
	event.RunID = s.RunID
	event.Branch = s.BranchName
	event.Timestamp = o.opts.Now()
	event.Metadata = buildMetadata(s)

	if err := o.notifier.Notify(context.WithoutCancel(ctx), event); err != nil {
		o.logger.Debug("notification failed", "event", string(event.Type), "error", err)
	}
}

// buildMetadata builds notification metadata from state.
func buildMetadata(s State) map[string]any {
	meta := map[string]any{
		"phase": s.Phase.String(),
	}
	if s.OriginalBranch != "" {
		meta["trunk"] = s.OriginalBranch
	}
	if s.PR != nil {
		meta["pr_url"] = s.PR.URL
		if s.PR.Number != 0 {
			meta["pr_number"] = s.PR.Number
		}
	}
	if s.Merge != MergePending {
		meta["merge"] = s.Merge.String()
	}
	return meta
}
