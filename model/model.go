package model

import (
	"context"
	"fmt"

	"github.com/hupe1980/agentloop/core"
)

// ToolDefinition declaratively exposes a callable function to the model.
type ToolDefinition struct {
	Type     string             `json:"type"` // "function"
	Function FunctionDefinition `json:"function"`
}

// FunctionDefinition describes an individual function (tool) exposed to the
// model. Parameters is a JSON Schema object (draft agnostic, minimal subset
// expected).
type FunctionDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"` // JSON Schema
}

// Request captures the normalized model input produced by the agent loop.
type Request struct {
	Instructions string           `json:"instructions"` // System prompt for the model
	Messages     []core.Message   `json:"messages"`     // Conversation history in append order
	Tools        []ToolDefinition `json:"tools,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"` // "openai", "anthropic", "mock", etc.
	SupportsTools bool   `json:"supports_tools"`
}

// Model is the interface required by the agent loop to drive generation.
//
// Invoke is a single synchronous request: given the history and tool schemas
// it returns the model's next assistant turn, with tool-call intent encoded as
// zero or more ToolCall entries separable from free-text content. Timeouts are
// the adapter's concern (via ctx); the loop issues no retries.
type Model interface {
	Invoke(ctx context.Context, req Request) (core.AssistantMessage, error)

	// Info returns information about the model implementation.
	Info() Info
}

// MockModel is a lightweight in-memory Model useful for tests & examples.
// Responses can be scripted in order (Enqueue/EnqueueError) or keyed on the
// last message text (AddResponse); unscripted inputs get an echo reply.
type MockModel struct {
	info      Info
	responses map[string]string
	script    []scriptEntry
}

type scriptEntry struct {
	msg core.AssistantMessage
	err error
}

// NewMockModel constructs a MockModel with basic tool support enabled.
func NewMockModel(name string) *MockModel {
	return &MockModel{
		info: Info{
			Name:          name,
			Provider:      "mock",
			SupportsTools: true,
		},
		responses: make(map[string]string),
	}
}

// AddResponse registers a deterministic canned completion for an input text.
func (m *MockModel) AddResponse(input, response string) { m.responses[input] = response }

// Enqueue scripts the next assistant turn, consumed in FIFO order before any
// keyed responses are considered.
func (m *MockModel) Enqueue(msg core.AssistantMessage) {
	m.script = append(m.script, scriptEntry{msg: msg})
}

// EnqueueError scripts a failure for the next invocation.
func (m *MockModel) EnqueueError(err error) {
	m.script = append(m.script, scriptEntry{err: err})
}

// Invoke implements Model.
func (m *MockModel) Invoke(ctx context.Context, req Request) (core.AssistantMessage, error) {
	if err := ctx.Err(); err != nil {
		return core.AssistantMessage{}, &TransportError{Provider: "mock", Err: err}
	}

	if len(m.script) > 0 {
		entry := m.script[0]
		m.script = m.script[1:]
		return entry.msg, entry.err
	}

	if len(req.Messages) == 0 {
		return core.AssistantMessage{}, &MalformedResponseError{Provider: "mock", Detail: "no messages provided"}
	}

	last := req.Messages[len(req.Messages)-1]
	if text, ok := m.responses[last.Text()]; ok {
		return core.NewAssistantMessage(text), nil
	}

	return core.NewAssistantMessage(fmt.Sprintf("Mock response to: %s", last.Text())), nil
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }
