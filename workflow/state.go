package workflow

import (
	"fmt"
	"time"

	nanoid "github.com/matoous/go-nanoid/v2"

	"github.com/randalmurphal/hotfix/pr"
)

// =============================================================================
// Phase
// =============================================================================

// Phase is the last step a run completed. It only moves forward.
type Phase int

// Phases in pipeline order.
const (
	PhaseInit Phase = iota
	PhaseValidated
	PhaseNamed
	PhaseMessageResolved
	PhaseBranchCreated
	PhaseCommitted
	PhasePushed
	PhasePRCreated
	PhaseMerged
	PhaseCleanedUp
	PhaseDone
)

var phaseNames = [...]string{
	PhaseInit:            "init",
	PhaseValidated:       "validated",
	PhaseNamed:           "named",
	PhaseMessageResolved: "message-resolved",
	PhaseBranchCreated:   "branch-created",
	PhaseCommitted:       "committed",
	PhasePushed:          "pushed",
	PhasePRCreated:       "pr-created",
	PhaseMerged:          "merged",
	PhaseCleanedUp:       "cleaned-up",
	PhaseDone:            "done",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

// mutating reports whether a failure at this phase leaves repository
// changes behind that rollback must undo.
func (p Phase) mutating() bool {
	return p >= PhaseMessageResolved && p < PhaseDone
}

// =============================================================================
// Merge Outcome
// =============================================================================

// MergeOutcome records how the pull request was merged.
type MergeOutcome int

const (
	MergePending MergeOutcome = iota
	MergedAutomatically
	MergedManually
)

func (m MergeOutcome) String() string {
	switch m {
	case MergedAutomatically:
		return "automatic"
	case MergedManually:
		return "manual"
	default:
		return "pending"
	}
}

// =============================================================================
// State
// =============================================================================

// State is the data a single hotfix run accumulates. It lives only for the
// duration of Run and is never persisted.
type State struct {
	RunID          string
	OriginalBranch string
	BranchName     string
	CommitMessage  string
	PR             *pr.PullRequest
	Merge          MergeOutcome
	Phase          Phase
	StartedAt      time.Time
}

// NewState creates the state for a run starting at now.
func NewState(now time.Time) State {
	return State{
		RunID:     generateRunID(),
		StartedAt: now,
	}
}

// generateRunID returns a short random ID, used only to correlate logs and
// notifications.
func generateRunID() string {
	id, err := nanoid.Generate("0123456789abcdefghijklmnopqrstuvwxyz", 10)
	if err != nil {
		return fmt.Sprintf("%x", time.Now().UnixNano())
	}
	return id
}

// Summary returns a one-line description of the run.
func (s State) Summary() string {
	switch {
	case s.PR != nil:
		return fmt.Sprintf("Run %s [%s]: %s -> %s (merge: %s)", s.RunID, s.Phase, s.BranchName, s.PR, s.Merge)
	case s.BranchName != "":
		return fmt.Sprintf("Run %s [%s]: %s", s.RunID, s.Phase, s.BranchName)
	default:
		return fmt.Sprintf("Run %s [%s]", s.RunID, s.Phase)
	}
}
