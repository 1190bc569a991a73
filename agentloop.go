// Package agentloop provides a high-level façade over the agent loop and its
// supporting abstractions (tools, hooks, model adapters & logging) enabling
// rapid construction of single-agent tool-calling assistants. Most
// applications interact with this package by:
//  1. Registering tools in a Registry (function tools or custom implementations)
//  2. Creating an Agent via New() with a model adapter and optional hooks
//  3. Invoking the agent synchronously and inspecting the Result
//
// The façade delegates the loop mechanics to the agent package while keeping
// setup and usage ergonomics concise. Defaults are safe for local development
// and testing; production deployments typically supply a structured logger and
// a real provider adapter from model/openai or model/anthropic.
package agentloop

import (
	"context"

	"github.com/hupe1980/agentloop/agent"
	"github.com/hupe1980/agentloop/core"
	"github.com/hupe1980/agentloop/hook"
	"github.com/hupe1980/agentloop/logging"
	"github.com/hupe1980/agentloop/model"
	"github.com/hupe1980/agentloop/tool"
)

// Re-exported types so simple applications only import this package.
type (
	// Agent drives the tool-calling loop. See the agent package for details.
	Agent = agent.Agent

	// Options configures an Agent created through New.
	Options = agent.Options

	// Result is the terminal product of one run.
	Result = agent.Result

	// Outcome classifies how a run ended.
	Outcome = agent.Outcome

	// Instruction is the agent's system prompt, static or dynamic.
	Instruction = agent.Instruction

	// Registry maps tool names to callables with declared argument schemas.
	Registry = tool.Registry

	// Tool is the callable contract registered into a Registry.
	Tool = tool.Tool

	// Hook observes the loop around each model invocation.
	Hook = hook.Hook

	// Model is the provider contract consumed by the loop.
	Model = model.Model

	// Logger is the structured logging contract used across packages.
	Logger = logging.Logger
)

// Outcome values, re-exported for call sites that only import agentloop.
const (
	OutcomeAnswered          = agent.OutcomeAnswered
	OutcomeStepLimitExceeded = agent.OutcomeStepLimitExceeded
)

// New creates an agent around a model and a tool registry.
func New(name string, llm model.Model, registry *tool.Registry, optFns ...func(o *Options)) *Agent {
	return agent.New(name, llm, registry, optFns...)
}

// Run is a one-shot convenience: build an agent and invoke it once for the
// given user text.
func Run(ctx context.Context, name string, llm model.Model, registry *tool.Registry, userText string, optFns ...func(o *Options)) (*Result, error) {
	return agent.New(name, llm, registry, optFns...).Invoke(ctx, userText)
}

// NewRegistry creates an empty tool registry.
func NewRegistry(optFns ...func(o *tool.RegistryOptions)) *Registry {
	return tool.NewRegistry(optFns...)
}

// NewFunctionTool wraps a handler function with an explicit JSON Schema.
func NewFunctionTool(
	name, description string,
	parameters map[string]any,
	fn func(ctx context.Context, args map[string]any) (any, error),
) *tool.FunctionTool {
	return tool.NewFunctionTool(name, description, parameters, fn)
}

// NewFunctionHook creates a function-based hook for the given phase.
func NewFunctionHook(
	phase hook.Phase,
	fn func(ctx context.Context, hookCtx *hook.Context) (hook.Patch, error),
) *hook.FunctionHook {
	return hook.NewFunctionHook(phase, fn)
}

// NewUserMessage creates a user turn, exported for tests and custom models.
func NewUserMessage(text string) core.UserMessage {
	return core.NewUserMessage(text)
}
