package workflow

import (
	"context"
	"fmt"

	"github.com/randalmurphal/hotfix/message"
	"github.com/randalmurphal/hotfix/notify"
	"github.com/randalmurphal/hotfix/pr"
)

// createPR opens the pull request from the hotfix branch into trunk.
//
// Prerequisites: branch pushed
// Updates: state.PR
func (o *Orchestrator) createPR(ctx context.Context, s State) (State, error) {
	o.printer.Step("Creating pull request")

	opts, err := o.buildPROptions(s)
	if err != nil {
		return s, err
	}

	created, err := o.provider.CreatePR(ctx, opts)
	if err != nil {
		return s, err
	}

	s.PR = created
	s.Phase = PhasePRCreated
	o.printer.Success("Pull request created: %s", created)
	o.notify(ctx, s, notify.Event{
		Type:     notify.EventPRCreated,
		Severity: notify.SeverityInfo,
		Message:  "Pull request created: " + created.URL,
	})
	return s, nil
}

// buildPROptions derives the title from the commit message and renders the
// body template.
func (o *Orchestrator) buildPROptions(s State) (pr.Options, error) {
	body, err := o.templates.Render(message.TemplatePRBody, o.vars(s))
	if err != nil {
		return pr.Options{}, fmt.Errorf("pull request body: %w", err)
	}

	return pr.NewBuilder(s.CommitMessage).
		WithBody(body).
		WithBase(o.opts.Trunk).
		WithHead(s.BranchName).
		Build(), nil
}
