// Package hook implements the pre-call and post-call interception points of
// the agent loop. Hooks are ordered observers invoked around every model
// invocation; they may inspect run state and annotate the scratch map through
// returned patches, but they never own control flow: a failing hook is logged
// and skipped, and the loop continues.
package hook

import (
	"context"

	"github.com/hupe1980/agentloop/core"
)

// Phase identifies the lifecycle point a hook is attached to.
type Phase string

const (
	// PhaseBefore hooks run before each model invocation.
	PhaseBefore Phase = "before"
	// PhaseAfter hooks run after the model responds and before tool dispatch.
	PhaseAfter Phase = "after"
)

// Patch is a scratch-map delta returned by a hook. Patches apply in hook
// order; later patches overwrite earlier ones for the same key. A nil patch
// means "no annotation". There is deliberately no way to replace run state
// wholesale: hooks compose by merging.
type Patch map[string]any

// Context is the read view of run state handed to each hook invocation.
//
// History and Scratch are snapshots; mutating them has no effect on the run.
// Annotations must flow through the returned Patch.
type Context struct {
	// Phase indicates which lifecycle point triggered this execution, so a
	// shared handler can behave differently per phase.
	Phase Phase

	// RunID identifies the current run.
	RunID string

	// Step is the current model/tool cycle, starting at 1.
	Step int

	// History holds all messages appended so far, in order.
	History []core.Message

	// Scratch is a snapshot of the run's hook scratch map.
	Scratch map[string]any
}

// LastMessage returns the most recent history entry, or ok=false when the
// snapshot is empty.
func (c *Context) LastMessage() (core.Message, bool) {
	if len(c.History) == 0 {
		return nil, false
	}
	return c.History[len(c.History)-1], true
}

// Hook defines an observer attached to one phase of the loop.
//
// Implementations should be fast (they execute inline on the loop's single
// thread) and must tolerate being called once per step for the whole run.
// Returned errors are logged and treated as "no patch"; they never abort the
// run.
type Hook interface {
	// Phase returns the lifecycle point this hook handles.
	Phase() Phase

	// Execute inspects the run state and optionally returns a scratch patch.
	Execute(ctx context.Context, hookCtx *Context) (Patch, error)
}

// FunctionHook wraps a plain function as a Hook. It is the common way to
// declare logging or metrics observers without a dedicated type.
//
// Example:
//
//	counter := hook.NewFunctionHook(hook.PhaseBefore,
//	    func(_ context.Context, hc *hook.Context) (hook.Patch, error) {
//	        n, _ := hc.Scratch["model_calls"].(int)
//	        return hook.Patch{"model_calls": n + 1}, nil
//	    })
type FunctionHook struct {
	phase Phase
	fn    func(ctx context.Context, hookCtx *Context) (Patch, error)
}

// NewFunctionHook creates a function-based hook for the given phase.
func NewFunctionHook(
	phase Phase,
	fn func(ctx context.Context, hookCtx *Context) (Patch, error),
) *FunctionHook {
	return &FunctionHook{phase: phase, fn: fn}
}

// Phase returns the lifecycle point this hook handles.
func (h *FunctionHook) Phase() Phase { return h.phase }

// Execute calls the wrapped function.
func (h *FunctionHook) Execute(ctx context.Context, hookCtx *Context) (Patch, error) {
	return h.fn(ctx, hookCtx)
}
