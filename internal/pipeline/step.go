// Package pipeline provides the sequential step runner used by the processor
// tool. A run executes a fixed list of steps in order, tracking per-step
// status and timing; the first failure aborts the run and marks the remaining
// steps skipped. There are no retries and no parallel execution: every step
// consumes the output of the one before it.
package pipeline

import (
	"context"
	"time"
)

// Step is a single unit of work in a processor run.
type Step interface {
	// ID returns the stable identifier for this step, used in logs and
	// run state.
	ID() string

	// Name returns the human-readable name for this step.
	Name() string

	// Validate checks whether the step can execute against the current
	// run state.
	Validate(state *State) error

	// Execute runs the step, reading and writing the shared run state.
	Execute(ctx context.Context, state *State) error
}

// StepStatus represents the current status of a step.
type StepStatus string

const (
	StepStatusPending   StepStatus = "pending"
	StepStatusActive    StepStatus = "active"
	StepStatusCompleted StepStatus = "completed"
	StepStatusFailed    StepStatus = "failed"
	StepStatusSkipped   StepStatus = "skipped"
)

// StepState is the runtime state of one step within a run. The runner is
// strictly sequential, so step state needs no locking.
type StepState struct {
	ID        string
	Name      string
	Status    StepStatus
	StartTime *time.Time
	EndTime   *time.Time
	Message   string
	Err       error
}

// NewStepState creates a pending step state.
func NewStepState(id, name string) *StepState {
	return &StepState{
		ID:     id,
		Name:   name,
		Status: StepStatusPending,
	}
}

// Start marks the step active and records the start time.
func (s *StepState) Start() {
	now := time.Now()
	s.StartTime = &now
	s.Status = StepStatusActive
}

// Complete marks the step completed and records the end time.
func (s *StepState) Complete() {
	now := time.Now()
	s.EndTime = &now
	s.Status = StepStatusCompleted
}

// Fail marks the step failed with the given error.
func (s *StepState) Fail(err error) {
	now := time.Now()
	s.EndTime = &now
	s.Status = StepStatusFailed
	s.Err = err
}

// Skip marks the step skipped with the given reason.
func (s *StepState) Skip(reason string) {
	now := time.Now()
	s.EndTime = &now
	s.Status = StepStatusSkipped
	s.Message = reason
}

// Duration returns how long the step ran. Steps that never started report
// zero; active steps report elapsed time so far.
func (s *StepState) Duration() time.Duration {
	if s.StartTime == nil {
		return 0
	}
	if s.EndTime != nil {
		return s.EndTime.Sub(*s.StartTime)
	}
	return time.Since(*s.StartTime)
}
