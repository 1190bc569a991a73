package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hupe1980/agentloop/core"
	"github.com/hupe1980/agentloop/hook"
	"github.com/hupe1980/agentloop/logging"
	"github.com/hupe1980/agentloop/model"
	"github.com/hupe1980/agentloop/tool"
)

// Outcome classifies how a run ended.
type Outcome string

const (
	// OutcomeAnswered means the model produced a plain-text turn with no tool
	// calls, which is the loop's termination signal.
	OutcomeAnswered Outcome = "answered"

	// OutcomeStepLimitExceeded means the step budget ran out before the model
	// answered. The history up to that point is still returned.
	OutcomeStepLimitExceeded Outcome = "step_limit_exceeded"
)

// Result is the terminal product of one run.
type Result struct {
	Outcome     Outcome
	FinalAnswer string // empty unless Outcome is OutcomeAnswered
	History     []core.Message
	Steps       int
}

// ToolTrace extracts the tool-result turns from the run history in execution
// order, which is handy for debugging and for examples that print what the
// agent did.
func (r *Result) ToolTrace() []core.ToolResult {
	var trace []core.ToolResult
	for _, msg := range r.History {
		if tr, ok := msg.(core.ToolResult); ok {
			trace = append(trace, tr)
		}
	}
	return trace
}

// Options configures an Agent.
type Options struct {
	// Instruction is the system prompt, static or dynamic (default none).
	Instruction Instruction

	// MaxSteps caps model/tool cycles per run; 0 disables the cap.
	MaxSteps int

	// Hooks observe the loop before and after each model call.
	Hooks []hook.Hook

	// Logger receives loop diagnostics (defaults to NoOp).
	Logger logging.Logger
}

// Agent drives the tool-calling loop against a model and a tool registry.
// It is immutable after construction; all per-run state lives in the RunState
// created by Invoke, so a single Agent may serve concurrent runs.
type Agent struct {
	name     string
	llm      model.Model
	registry *tool.Registry
	pipeline *hook.Pipeline
	opts     Options
}

// New creates an agent around a model and a tool registry.
// Defaults: 10 steps, no instruction, no hooks.
func New(name string, llm model.Model, registry *tool.Registry, optFns ...func(o *Options)) *Agent {
	opts := Options{
		MaxSteps: 10,
		Logger:   logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	if registry == nil {
		registry = tool.NewRegistry()
	}

	return &Agent{
		name:     name,
		llm:      llm,
		registry: registry,
		pipeline: hook.NewPipeline(opts.Logger, opts.Hooks...),
		opts:     opts,
	}
}

// Name returns the agent's name.
func (a *Agent) Name() string { return a.name }

// Invoke runs the loop for one user message and returns the terminal result.
//
// Each cycle: before-hooks, one model call, after-hooks, then either
// termination (plain-text answer) or sequential tool dispatch in the order the
// model requested. Tool failures are reported back to the model as failed
// tool-result turns and the run continues; model failures are fatal and
// surface as the returned error with a nil Result.
func (a *Agent) Invoke(ctx context.Context, userText string) (*Result, error) {
	state := core.NewRunState(userText, a.opts.MaxSteps)

	a.opts.Logger.Info("run.start", "agent", a.name, "run", state.RunID, "max_steps", state.MaxSteps)

	for {
		if !state.NextStep() {
			a.opts.Logger.Warn("run.step_limit", "agent", a.name, "run", state.RunID, "steps", state.Steps)
			return a.finish(state, OutcomeStepLimitExceeded, ""), nil
		}

		a.pipeline.RunBefore(ctx, state)

		assistant, err := a.callModel(ctx, state)
		if err != nil {
			a.opts.Logger.Error("run.model_error", "agent", a.name, "run", state.RunID, "step", state.Steps, "error", err.Error())
			return nil, fmt.Errorf("model invocation failed on step %d: %w", state.Steps, err)
		}

		if _, err := state.History.Append(assistant); err != nil {
			return nil, fmt.Errorf("append assistant turn: %w", err)
		}

		a.pipeline.RunAfter(ctx, state)

		if !assistant.HasToolCalls() {
			a.opts.Logger.Info("run.answered", "agent", a.name, "run", state.RunID, "steps", state.Steps)
			return a.finish(state, OutcomeAnswered, assistant.Content), nil
		}

		if err := a.dispatchTools(ctx, state, assistant.ToolCalls); err != nil {
			return nil, err
		}
	}
}

// finish snapshots the run into a Result.
func (a *Agent) finish(state *core.RunState, outcome Outcome, answer string) *Result {
	return &Result{
		Outcome:     outcome,
		FinalAnswer: answer,
		History:     state.History.View(),
		Steps:       state.Steps,
	}
}

// callModel resolves instructions, assembles the request and performs a single
// model invocation. Tool call IDs missing from the provider response are
// backfilled so history ordering checks always have a call id to match on.
func (a *Agent) callModel(ctx context.Context, state *core.RunState) (core.AssistantMessage, error) {
	instructions, err := a.opts.Instruction.Resolve(state)
	if err != nil {
		return core.AssistantMessage{}, fmt.Errorf("resolve instructions: %w", err)
	}

	req := model.Request{
		Instructions: instructions,
		Messages:     state.History.View(),
		Tools:        a.toolDefinitions(),
	}

	start := time.Now()
	assistant, err := a.llm.Invoke(ctx, req)
	dur := time.Since(start)

	if err != nil {
		return core.AssistantMessage{}, err
	}

	a.opts.Logger.Debug("run.model_call", "agent", a.name, "run", state.RunID, "step", state.Steps,
		"duration_ms", dur.Milliseconds(), "tool_calls", len(assistant.ToolCalls))

	calls := assistant.ToolCalls
	for i, c := range calls {
		if c.ID == "" {
			calls[i].ID = core.NewID()
		}
	}

	return assistant, nil
}

// toolDefinitions converts the registry contents to the schema format models
// expect, in registration order.
func (a *Agent) toolDefinitions() []model.ToolDefinition {
	tools := a.registry.Tools()
	if len(tools) == 0 {
		return nil
	}

	defs := make([]model.ToolDefinition, len(tools))
	for i, t := range tools {
		defs[i] = model.ToolDefinition{
			Type: "function",
			Function: model.FunctionDefinition{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters:  t.Parameters(),
			},
		}
	}
	return defs
}

// dispatchTools executes the assistant's tool calls sequentially in request
// order, appending one tool-result turn per call. A failing tool becomes a
// failed result the model can react to on the next cycle; only history
// corruption is fatal.
func (a *Agent) dispatchTools(ctx context.Context, state *core.RunState, calls []core.ToolCall) error {
	for _, call := range calls {
		content, err := a.registry.Invoke(ctx, call.Name, call.Arguments)

		var result core.ToolResult
		if err != nil {
			result = core.NewToolErrorResult(call.ID, call.Name, failurePayload(call.Name, err))
		} else {
			result = core.NewToolResult(call.ID, call.Name, content)
		}

		if _, err := state.History.Append(result); err != nil {
			return fmt.Errorf("append tool result for %q: %w", call.Name, err)
		}
	}

	return nil
}

// failurePayload encodes a tool failure as the structured content of a failed
// tool-result turn, so the model sees what went wrong and can recover.
func failurePayload(name string, err error) string {
	payload := map[string]string{
		"tool":  name,
		"error": err.Error(),
		"code":  failureCode(err),
	}

	data, merr := json.Marshal(payload)
	if merr != nil {
		return fmt.Sprintf("tool %s failed: %v", name, err)
	}
	return string(data)
}

// failureCode maps registry errors to stable machine-readable codes.
func failureCode(err error) string {
	var unknown *tool.UnknownToolError
	var invalid *tool.ArgumentValidationError
	var exec *tool.ExecutionError

	switch {
	case errors.As(err, &unknown):
		return "unknown_tool"
	case errors.As(err, &invalid):
		return "invalid_arguments"
	case errors.As(err, &exec):
		return "execution_error"
	default:
		return "tool_error"
	}
}
