package core

import "maps"

// RunState is the mutable, per-invocation execution scope of the agent loop.
// It owns the conversation History exclusively for the duration of one run,
// tracks the step budget, and carries a scratch map for hook-to-hook
// communication. It is created at the start of Invoke and discarded at the
// end; nothing in it outlives the run.
//
// Separate runs get separate RunStates, so concurrent invocations against a
// shared read-only tool registry need no cross-run synchronization.
type RunState struct {
	RunID    string
	History  *History
	Steps    int // completed model/tool cycles
	MaxSteps int // 0 means unlimited
	Scratch  map[string]any
}

// NewRunState creates a run scope seeded with the caller's initial user
// message. maxSteps caps the number of model/tool cycles; 0 disables the cap.
func NewRunState(userText string, maxSteps int) *RunState {
	h := NewHistory()
	_, _ = h.Append(NewUserMessage(userText)) // user turns cannot violate ordering

	return &RunState{
		RunID:    NewID(),
		History:  h,
		MaxSteps: maxSteps,
		Scratch:  map[string]any{},
	}
}

// NextStep consumes one step from the budget, returning false once the
// configured maximum is reached. A false return ends the run with the
// step-limit outcome rather than looping indefinitely.
func (s *RunState) NextStep() bool {
	if s.MaxSteps > 0 && s.Steps >= s.MaxSteps {
		return false
	}
	s.Steps++
	return true
}

// ApplyScratch merges the given pairs into the scratch map, later writers
// overwriting earlier ones for the same key.
func (s *RunState) ApplyScratch(delta map[string]any) {
	maps.Copy(s.Scratch, delta)
}

// ScratchValue returns the scratch entry for a key.
func (s *RunState) ScratchValue(k string) (any, bool) {
	v, ok := s.Scratch[k]
	return v, ok
}
