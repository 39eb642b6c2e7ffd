package deploy

import (
	"context"
	"fmt"
)

// PhaseFunc executes one pipeline phase against the run context. A returned
// error stops the pipeline at that phase.
type PhaseFunc func(ctx context.Context, run *Run) error

// Phase is one named, ordered step of the deployment pipeline. Phases are
// plain values so ordering and rollback eligibility can be tested without
// touching any phase body.
type Phase struct {
	Name string
	Run  PhaseFunc
}

// rollbackEligibleFrom is the 1-based index of the first phase whose failure
// triggers rollback. Failures before deploy-services have nothing to unwind.
const rollbackEligibleFrom = 3

// RollbackEligible reports whether a failure at the given 1-based phase index
// triggers rollback.
func RollbackEligible(failedIndex int) bool {
	return failedIndex >= rollbackEligibleFrom
}

// PhaseError wraps a phase failure with its name and 1-based index.
type PhaseError struct {
	Index int
	Name  string
	Err   error
}

// Error formats the failure with its position in the pipeline.
func (e *PhaseError) Error() string {
	return fmt.Sprintf("phase %d (%s) failed: %v", e.Index, e.Name, e.Err)
}

// Unwrap exposes the underlying phase error.
func (e *PhaseError) Unwrap() error { return e.Err }

// ExecutePipeline runs the phases strictly in order, advancing the run's
// progress counters as it goes. The first failing phase freezes run.Phase at
// the point of failure and is returned as a PhaseError; no phase is retried
// at this level.
func ExecutePipeline(ctx context.Context, run *Run, phases []Phase) error {
	run.TotalSteps = len(phases)

	for i, phase := range phases {
		run.CurrentStep = i + 1
		run.Phase = phase.Name
		run.Info("Phase %d/%d: %s", run.CurrentStep, run.TotalSteps, phase.Name)

		if err := phase.Run(ctx, run); err != nil {
			return &PhaseError{Index: i + 1, Name: phase.Name, Err: err}
		}
	}
	return nil
}
