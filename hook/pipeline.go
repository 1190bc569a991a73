package hook

import (
	"context"
	"maps"
	"runtime/debug"

	"github.com/hupe1980/agentloop/core"
	"github.com/hupe1980/agentloop/logging"
)

// Pipeline holds the ordered hook registrations for one agent. Registration
// order is dispatch order within each phase.
//
// The pipeline is not safe for concurrent registration, but once built it may
// serve concurrent runs: all per-run state lives in the RunState it is handed.
type Pipeline struct {
	hooks  []Hook
	logger logging.Logger
}

// NewPipeline creates a pipeline with the given hooks in registration order.
func NewPipeline(logger logging.Logger, hooks ...Hook) *Pipeline {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &Pipeline{hooks: hooks, logger: logger}
}

// Register appends a hook; order of registration defines execution order.
func (p *Pipeline) Register(h Hook) { p.hooks = append(p.hooks, h) }

// Len returns the number of registered hooks across both phases.
func (p *Pipeline) Len() int { return len(p.hooks) }

// RunBefore invokes every before-hook in registration order against the
// current run state. See run for failure semantics.
func (p *Pipeline) RunBefore(ctx context.Context, state *core.RunState) {
	p.run(ctx, PhaseBefore, state)
}

// RunAfter invokes every after-hook in registration order, after the model
// responded and before tool dispatch.
func (p *Pipeline) RunAfter(ctx context.Context, state *core.RunState) {
	p.run(ctx, PhaseAfter, state)
}

// run dispatches one phase. Each hook's patch is applied to the scratch map
// immediately, so later hooks observe earlier annotations. A hook error or
// panic is logged and treated as "no patch"; a malfunctioning observer must
// never abort the agent.
func (p *Pipeline) run(ctx context.Context, phase Phase, state *core.RunState) {
	for _, h := range p.hooks {
		if h.Phase() != phase {
			continue
		}

		patch, err := p.execute(ctx, h, phase, state)
		if err != nil {
			p.logger.Error("hook.error", "phase", string(phase), "run", state.RunID, "error", err.Error())
			continue
		}

		if len(patch) > 0 {
			state.ApplyScratch(patch)
		}
	}
}

// execute runs a single hook with panic recovery.
func (p *Pipeline) execute(ctx context.Context, h Hook, phase Phase, state *core.RunState) (patch Patch, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			p.logger.Error("hook.panic", "phase", string(phase), "run", state.RunID, "recover", rec, "stack", string(debug.Stack()))
			patch, err = nil, nil // recovered panic counts as "no patch"
		}
	}()

	hookCtx := &Context{
		Phase:   phase,
		RunID:   state.RunID,
		Step:    state.Steps,
		History: state.History.View(),
		Scratch: maps.Clone(state.Scratch),
	}

	return h.Execute(ctx, hookCtx)
}
