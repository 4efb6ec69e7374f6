package pipeline

import (
	"context"
	"fmt"
	"log/slog"
)

// Runner executes steps sequentially with fail-fast semantics.
type Runner struct {
	logger *slog.Logger
}

// NewRunner creates a step runner.
func NewRunner(logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{logger: logger}
}

// Run executes the steps in order against a fresh run state. The first
// validation or execution failure stops the run, marks the remaining steps
// skipped, and returns a StepError naming the failed step. The returned
// state is always populated, so callers can report per-step outcomes even
// for failed runs.
func (r *Runner) Run(ctx context.Context, runID string, steps []Step) (*State, error) {
	state := NewState(runID)
	for _, step := range steps {
		state.addStep(NewStepState(step.ID(), step.Name()))
	}

	r.logger.InfoContext(ctx, "run_started",
		slog.String("run_id", runID),
		slog.Int("step_count", len(steps)))

	for i, step := range steps {
		ss := state.Step(step.ID())

		select {
		case <-ctx.Done():
			r.logger.WarnContext(ctx, "run_cancelled",
				slog.String("run_id", runID),
				slog.String("step", step.ID()))
			r.skipFrom(state, steps, i, "run cancelled")
			state.Finish()
			return state, NewCancellationError(step.ID(), ctx.Err())
		default:
		}

		r.logger.InfoContext(ctx, "step_started",
			slog.String("run_id", runID),
			slog.String("step", step.ID()),
			slog.String("name", step.Name()),
			slog.Int("step_number", i+1),
			slog.Int("total_steps", len(steps)))

		if err := step.Validate(state); err != nil {
			vErr := NewValidationError(step.ID(), err)
			ss.Fail(vErr)
			r.logger.ErrorContext(ctx, "step_validation_failed",
				slog.String("run_id", runID),
				slog.String("step", step.ID()),
				slog.String("error", err.Error()))
			r.skipFrom(state, steps, i+1, fmt.Sprintf("step %s failed", step.ID()))
			state.Finish()
			return state, vErr
		}

		ss.Start()
		if err := step.Execute(ctx, state); err != nil {
			eErr := NewExecutionError(step.ID(), err)
			ss.Fail(eErr)
			r.logger.ErrorContext(ctx, "step_failed",
				slog.String("run_id", runID),
				slog.String("step", step.ID()),
				slog.Duration("duration", ss.Duration()),
				slog.String("error", err.Error()))
			r.skipFrom(state, steps, i+1, fmt.Sprintf("step %s failed", step.ID()))
			state.Finish()
			return state, eErr
		}
		ss.Complete()

		r.logger.InfoContext(ctx, "step_completed",
			slog.String("run_id", runID),
			slog.String("step", step.ID()),
			slog.Duration("duration", ss.Duration()))
	}

	state.Finish()
	r.logger.InfoContext(ctx, "run_completed",
		slog.String("run_id", runID),
		slog.Duration("duration", state.Duration()))
	return state, nil
}

// skipFrom marks every still-pending step at or after index from as skipped.
func (r *Runner) skipFrom(state *State, steps []Step, from int, reason string) {
	if from >= len(steps) {
		return
	}
	for _, step := range steps[from:] {
		ss := state.Step(step.ID())
		if ss != nil && ss.Status == StepStatusPending {
			ss.Skip(reason)
		}
	}
}
