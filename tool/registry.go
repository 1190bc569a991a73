package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/hupe1980/agentloop/internal/util"
	"github.com/hupe1980/agentloop/logging"
)

// RegistryOptions configures a Registry.
type RegistryOptions struct {
	// Logger receives per-invocation diagnostics (defaults to NoOp).
	Logger logging.Logger
}

// Registry maps tool names to callables with declared argument schemas. It
// validates and executes invocations on behalf of the agent loop.
//
// Registration order is preserved so the tool schemas handed to the model are
// deterministic. After registration completes, the registry is read-only and
// safe for concurrent use by independent runs.
type Registry struct {
	tools  map[string]Tool
	order  []string
	logger logging.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(optFns ...func(o *RegistryOptions)) *Registry {
	opts := RegistryOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Registry{
		tools:  map[string]Tool{},
		logger: opts.Logger,
	}
}

// Register adds a tool, failing with *DuplicateToolError if the name is taken.
func (r *Registry) Register(t Tool) error {
	if _, exists := r.tools[t.Name()]; exists {
		return &DuplicateToolError{Name: t.Name()}
	}

	r.tools[t.Name()] = t
	r.order = append(r.order, t.Name())

	return nil
}

// MustRegister is a setup-time convenience that panics on duplicate names.
func (r *Registry) MustRegister(tools ...Tool) {
	for _, t := range tools {
		if err := r.Register(t); err != nil {
			panic(err)
		}
	}
}

// Get retrieves a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Tools returns all registered tools in registration order.
func (r *Registry) Tools() []Tool {
	tools := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		tools = append(tools, r.tools[name])
	}
	return tools
}

// Len returns the number of registered tools.
func (r *Registry) Len() int { return len(r.order) }

// Invoke validates arguments against the named tool's schema and executes it,
// returning the result normalized to plain text.
//
// Error semantics:
//
//	*UnknownToolError          -> no such tool
//	*ArgumentValidationError   -> args not a JSON object, or schema mismatch
//	*ExecutionError            -> handler returned an error or panicked
//
// The registry performs no logging side effects beyond diagnostics; whatever
// the handler itself does (external lookups etc.) is its own concern.
func (r *Registry) Invoke(ctx context.Context, name, args string) (string, error) {
	t, ok := r.tools[name]
	if !ok {
		r.logger.Warn("tool.invoke.unknown", "tool", name)
		return "", &UnknownToolError{Name: name}
	}

	argMap := map[string]any{}
	if args != "" {
		if err := json.Unmarshal([]byte(args), &argMap); err != nil {
			r.logger.Warn("tool.invoke.bad_arguments", "tool", name, "error", err.Error())
			return "", &ArgumentValidationError{Tool: name, Err: fmt.Errorf("arguments are not a JSON object: %w", err)}
		}
	}

	if err := util.ValidateParameters(argMap, t.Parameters()); err != nil {
		r.logger.Warn("tool.invoke.validation_failed", "tool", name, "error", err.Error())
		return "", &ArgumentValidationError{Tool: name, Err: err}
	}

	start := time.Now()
	result, err := r.call(ctx, t, argMap)
	dur := time.Since(start)

	if err != nil {
		r.logger.Error("tool.invoke.error", "tool", name, "duration_ms", dur.Milliseconds(), "error", err.Error())
		return "", &ExecutionError{Tool: name, Err: err}
	}

	text, err := normalizeResult(result)
	if err != nil {
		r.logger.Error("tool.invoke.encode_error", "tool", name, "error", err.Error())
		return "", &ExecutionError{Tool: name, Err: err}
	}

	r.logger.Info("tool.invoke.success", "tool", name, "duration_ms", dur.Milliseconds())

	return text, nil
}

// call runs the handler with panic recovery so a misbehaving tool cannot take
// down the loop.
func (r *Registry) call(ctx context.Context, t Tool, args map[string]any) (result any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("tool.invoke.panic", "tool", t.Name(), "recover", rec, "stack", string(debug.Stack()))
			err = fmt.Errorf("panic in tool handler: %v", rec)
		}
	}()

	return t.Call(ctx, args)
}

// normalizeResult folds a handler return value into the plain text carried by
// tool-result turns. Strings pass through; everything else is JSON encoded.
func normalizeResult(result any) (string, error) {
	switch v := result.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("result not serializable: %w", err)
		}
		return string(data), nil
	}
}
