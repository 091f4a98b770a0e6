package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/randalmurphal/flowgraph/pkg/flowgraph"

	"github.com/randalmurphal/hotfix/console"
	"github.com/randalmurphal/hotfix/git"
	"github.com/randalmurphal/hotfix/message"
	"github.com/randalmurphal/hotfix/notify"
	"github.com/randalmurphal/hotfix/pr"
)

// Step names, in pipeline order.
const (
	StepValidate = "validate"
	StepName     = "name"
	StepMessage  = "message"
	StepBranch   = "branch"
	StepCommit   = "commit"
	StepPush     = "push"
	StepCreatePR = "create-pr"
	StepMerge    = "merge"
	StepCleanup  = "cleanup"
)

// Defaults applied by NewOrchestrator.
const (
	DefaultTrunk           = "main"
	DefaultMergeDelay      = 2 * time.Second
	DefaultRollbackTimeout = 30 * time.Second
)

// Deps are the collaborators a run talks to.
type Deps struct {
	Git       *git.Context      // Required
	Provider  pr.Provider       // Required
	Messages  *message.Resolver // Nil uses the embedded fallback only
	Templates *message.Loader   // PR body templates; nil uses the embedded set
	Prompter  console.Prompter  // Required
	Printer   *console.Printer  // Nil discards progress output
	Notifier  notify.Notifier   // Nil disables notifications
	Logger    *slog.Logger      // Nil uses slog.Default()
}

// Options tune a run.
type Options struct {
	Trunk           string        // Branch the run must start on (default "main")
	Remote          string        // Push/pull remote (default: the git context's remote)
	MergeDelay      time.Duration // Wait between PR creation and merge; negative disables
	RollbackTimeout time.Duration // Upper bound on rollback after a failure

	Now   func() time.Time
	Sleep func(ctx context.Context, d time.Duration) error
}

// Orchestrator runs the fixed hotfix pipeline:
//
//	validate -> name -> message -> branch -> commit -> push -> create-pr -> merge -> cleanup
//
// A failure in branch or any later step triggers one rollback.
type Orchestrator struct {
	git       *git.Context
	provider  pr.Provider
	messages  *message.Resolver
	templates *message.Loader
	prompter  console.Prompter
	printer   *console.Printer
	notifier  notify.Notifier
	logger    *slog.Logger
	opts      Options

	run func(ctx context.Context, s State) (State, error)

	// Per-run tracking. Run is not safe for concurrent use.
	last    State
	failure *StepError
}

// NewOrchestrator validates deps and compiles the pipeline.
func NewOrchestrator(deps Deps, opts Options) (*Orchestrator, error) {
	if deps.Git == nil {
		return nil, errors.New("workflow: git context is required")
	}
	if deps.Provider == nil {
		return nil, errors.New("workflow: pr provider is required")
	}
	if deps.Prompter == nil {
		return nil, errors.New("workflow: prompter is required")
	}

	if opts.Trunk == "" {
		opts.Trunk = DefaultTrunk
	}
	if opts.Remote == "" {
		opts.Remote = deps.Git.Remote()
	}
	if opts.MergeDelay == 0 {
		opts.MergeDelay = DefaultMergeDelay
	}
	if opts.RollbackTimeout <= 0 {
		opts.RollbackTimeout = DefaultRollbackTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Sleep == nil {
		opts.Sleep = sleepContext
	}

	o := &Orchestrator{
		git:       deps.Git,
		provider:  deps.Provider,
		messages:  deps.Messages,
		templates: deps.Templates,
		prompter:  deps.Prompter,
		printer:   deps.Printer,
		notifier:  deps.Notifier,
		logger:    deps.Logger,
		opts:      opts,
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.templates == nil {
		o.templates = message.NewLoader()
	}
	if o.messages == nil {
		o.messages = &message.Resolver{Templates: o.templates, Logger: o.logger}
	}
	if o.printer == nil {
		o.printer = console.Discard()
	}
	if o.notifier == nil {
		o.notifier = notify.NopNotifier{}
	}

	run, err := o.compile()
	if err != nil {
		return nil, fmt.Errorf("workflow: compile pipeline: %w", err)
	}
	o.run = run
	return o, nil
}

// stepFunc is one pipeline step. It returns the state unchanged on error.
type stepFunc func(ctx context.Context, s State) (State, error)

// compile assembles the linear pipeline graph once.
func (o *Orchestrator) compile() (func(context.Context, State) (State, error), error) {
	steps := []struct {
		name string
		fn   stepFunc
	}{
		{StepValidate, o.validate},
		{StepName, o.name},
		{StepMessage, o.resolveMessage},
		{StepBranch, o.createBranch},
		{StepCommit, o.commit},
		{StepPush, o.push},
		{StepCreatePR, o.createPR},
		{StepMerge, o.merge},
		{StepCleanup, o.cleanup},
	}

	graph := flowgraph.NewGraph[State]()
	for i, step := range steps {
		graph = graph.AddNode(step.name, o.node(step.name, step.fn))
		if i > 0 {
			graph = graph.AddEdge(steps[i-1].name, step.name)
		}
	}
	graph = graph.AddEdge(steps[len(steps)-1].name, flowgraph.END).
		SetEntry(steps[0].name)

	compiled, err := graph.Compile()
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context, s State) (State, error) {
		return compiled.Run(flowgraph.NewContext(ctx), s)
	}, nil
}

// node adapts a step to the graph and records the state it leaves behind,
// so Run can roll back from wherever the pipeline stopped.
func (o *Orchestrator) node(name string, fn stepFunc) flowgraph.NodeFunc[State] {
	return func(ctx flowgraph.Context, s State) (State, error) {
		o.logger.Debug("step started", "step", name, "run_id", s.RunID)

		next, err := fn(ctx, s)
		o.last = next
		if err != nil {
			o.failure = &StepError{Step: name, Phase: next.Phase, Err: err}
			return next, o.failure
		}

		o.logger.Debug("step completed", "step", name, "run_id", next.RunID, "phase", next.Phase.String())
		return next, nil
	}
}

// Run executes one hotfix. The returned state is never nil. On failure the
// error is a *StepError wrapping the cause; rollback has already run when
// the failure happened after validation and message resolution.
func (o *Orchestrator) Run(ctx context.Context) (*State, error) {
	start := NewState(o.opts.Now())
	o.last = start
	o.failure = nil

	o.logger.Info("hotfix run started", "run_id", start.RunID, "trunk", o.opts.Trunk, "provider", o.provider.Name())
	o.notify(ctx, start, notify.Event{
		Type:     notify.EventRunStarted,
		Severity: notify.SeverityInfo,
		Message:  "Hotfix run started",
	})

	result, err := o.run(ctx, start)
	if err == nil {
		result.Phase = PhaseDone
		o.printer.Success("Hotfix complete: %s", result.BranchName)
		o.logger.Info("hotfix run completed", "run_id", result.RunID, "branch", result.BranchName, "merge", result.Merge.String())
		o.notify(ctx, result, notify.Event{
			Type:     notify.EventRunCompleted,
			Severity: notify.SeverityInfo,
			Message:  "Hotfix merged: " + result.BranchName,
		})
		return &result, nil
	}

	final := o.last
	stepErr := o.failure
	if stepErr == nil {
		stepErr = &StepError{Step: "run", Phase: final.Phase, Err: err}
	}
	stepErr.Branch = final.BranchName
	stepErr.Remote = o.opts.Remote

	o.logger.Error("hotfix step failed", "run_id", final.RunID, "step", stepErr.Step, "phase", final.Phase.String(), "error", stepErr.Err)

	if final.Phase.mutating() {
		o.rollback(ctx, final)
	}

	o.notify(ctx, final, notify.Event{
		Type:     notify.EventRunFailed,
		Step:     stepErr.Step,
		Severity: notify.SeverityError,
		Message:  stepErr.Error(),
	})
	return &final, stepErr
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
