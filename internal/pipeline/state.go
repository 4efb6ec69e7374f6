package pipeline

import "time"

// State is the shared state of one processor run: per-step runtime states in
// execution order plus a context map steps use to pass data forward. It is
// owned by a single Runner goroutine.
type State struct {
	RunID     string
	StartTime time.Time
	EndTime   *time.Time

	steps   map[string]*StepState
	order   []string
	context map[string]interface{}
}

// NewState creates an empty run state.
func NewState(runID string) *State {
	return &State{
		RunID:     runID,
		StartTime: time.Now(),
		steps:     make(map[string]*StepState),
		context:   make(map[string]interface{}),
	}
}

// addStep registers a step state. Duplicate IDs keep the first registration.
func (s *State) addStep(ss *StepState) {
	if _, exists := s.steps[ss.ID]; exists {
		return
	}
	s.steps[ss.ID] = ss
	s.order = append(s.order, ss.ID)
}

// Step returns the state of a specific step, or nil if unknown.
func (s *State) Step(id string) *StepState {
	return s.steps[id]
}

// Steps returns every step state in execution order.
func (s *State) Steps() []*StepState {
	out := make([]*StepState, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.steps[id])
	}
	return out
}

// GetContext retrieves a value from the run context.
func (s *State) GetContext(key string) (interface{}, bool) {
	val, ok := s.context[key]
	return val, ok
}

// SetContext sets a value in the run context.
func (s *State) SetContext(key string, value interface{}) {
	s.context[key] = value
}

// Finish records the run end time.
func (s *State) Finish() {
	now := time.Now()
	s.EndTime = &now
}

// Duration returns how long the run has taken so far, or its total duration
// once finished.
func (s *State) Duration() time.Duration {
	if s.EndTime != nil {
		return s.EndTime.Sub(s.StartTime)
	}
	return time.Since(s.StartTime)
}

// HasFailures reports whether any step failed.
func (s *State) HasFailures() bool {
	for _, ss := range s.steps {
		if ss.Status == StepStatusFailed {
			return true
		}
	}
	return false
}
