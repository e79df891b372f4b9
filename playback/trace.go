// Package playback drives deterministic navigation over a precomputed
// execution trace: manual stepping, variable-speed autoplay, and the
// pure projection of the active step into a renderable frame.
package playback

import "github.com/justcode-dev/justcode/model"

// TraceStore holds the immutable ordered step sequence of one run. It is
// created wholesale when a visualize request succeeds and replaced
// wholesale on the next one; it is never mutated in place.
type TraceStore struct {
	steps []model.ExecutionStep
}

// NewTraceStore copies steps so later mutation of the caller's slice
// cannot reorder or rewrite the trace.
func NewTraceStore(steps []model.ExecutionStep) *TraceStore {
	if len(steps) == 0 {
		return &TraceStore{}
	}
	out := make([]model.ExecutionStep, len(steps))
	copy(out, steps)
	return &TraceStore{steps: out}
}

// Len reports the number of steps; an empty trace is valid.
func (t *TraceStore) Len() int {
	if t == nil {
		return 0
	}
	return len(t.steps)
}

// Step returns the step at index i, or ok=false when out of range.
func (t *TraceStore) Step(i int) (model.ExecutionStep, bool) {
	if t == nil || i < 0 || i >= len(t.steps) {
		return model.ExecutionStep{}, false
	}
	return t.steps[i], true
}

// Steps returns a copy of the full sequence in authoritative order.
func (t *TraceStore) Steps() []model.ExecutionStep {
	if t == nil || len(t.steps) == 0 {
		return nil
	}
	out := make([]model.ExecutionStep, len(t.steps))
	copy(out, t.steps)
	return out
}
