// Package tool implements the function / tool calling subsystem that lets the
// agent loop invoke structured capabilities (APIs, computations, lookups) with
// schema validated arguments and a consistent error taxonomy.
package tool

import (
	"context"
	"fmt"

	"github.com/hupe1980/agentloop/internal/util"
)

// Tool defines a named, schema-described callable the model may request.
//
// Tools are registered with a Registry and exposed to the model through their
// name, description and parameter schema. The registry validates arguments
// against the schema before Call is invoked, so implementations can trust the
// declared types.
//
// Tool implementations should:
//   - Provide clear, descriptive names (snake_case recommended)
//   - Define a proper JSON schema for parameters
//   - Be safe for concurrent use; a registry may serve multiple runs at once
type Tool interface {
	// Name returns the unique identifier for this tool.
	Name() string

	// Description returns a human-readable description of what this tool does.
	// It is provided to the model to help it decide when to use the tool.
	Description() string

	// Parameters returns a JSON schema describing the expected arguments.
	Parameters() map[string]any

	// Call executes the tool with already-validated arguments. The returned
	// value is normalized to text by the registry (strings pass through,
	// anything else is JSON encoded).
	Call(ctx context.Context, args map[string]any) (any, error)
}

// ValidationError re-exports the schema validation error detail type.
type ValidationError = util.ValidationError

// DuplicateToolError reports a second registration under an existing name.
// It indicates a misconfigured registry and is never produced at run time.
type DuplicateToolError struct {
	Name string
}

func (e *DuplicateToolError) Error() string {
	return fmt.Sprintf("tool %q already registered", e.Name)
}

// UnknownToolError reports an invocation of an unregistered tool name.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool %q", e.Name)
}

// ArgumentValidationError reports arguments that do not satisfy the declared
// schema (missing required parameter, wrong type, enum mismatch, or arguments
// that are not a JSON object at all).
type ArgumentValidationError struct {
	Tool string
	Err  error
}

func (e *ArgumentValidationError) Error() string {
	return fmt.Sprintf("invalid arguments for tool %q: %v", e.Tool, e.Err)
}

// Unwrap exposes the underlying validation detail.
func (e *ArgumentValidationError) Unwrap() error { return e.Err }

// ExecutionError wraps a failure raised by the tool handler itself.
type ExecutionError struct {
	Tool string
	Err  error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("tool %q failed: %v", e.Tool, e.Err)
}

// Unwrap exposes the handler failure.
func (e *ExecutionError) Unwrap() error { return e.Err }
