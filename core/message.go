package core

import "github.com/google/uuid"

// Role identifies the conversational origin of a message.
type Role string

const (
	// RoleUser marks a caller-authored turn.
	RoleUser Role = "user"
	// RoleAssistant marks a model-authored turn.
	RoleAssistant Role = "assistant"
	// RoleTool marks a tool-result turn answering an assistant tool call.
	RoleTool Role = "tool"
)

// Message is one turn in a conversation history. Concrete message types
// implement the unexported isMessage marker enabling a closed set, so
// consumers can type-switch exhaustively over {UserMessage, AssistantMessage,
// ToolResult} without attribute-presence checks.
//
// Messages are immutable once appended; the sequence index is assigned by
// History.Append and is zero until then.
type Message interface {
	isMessage()

	// Role returns the conversational role of the turn.
	Role() Role

	// Text returns the plain-text content of the turn. It may be empty for
	// assistant turns that carry only tool calls.
	Text() string

	// Seq returns the monotonic position assigned at append time.
	Seq() int

	// withSeq returns a copy carrying the given sequence index. Unexported so
	// only History can assign positions.
	withSeq(n int) Message
}

// ToolCall describes a tool invocation requested by the model.
type ToolCall struct {
	ID        string `json:"id"`                  // Unique within a run; backfilled by the loop if the provider omits it
	Name      string `json:"name"`                // Registered tool name
	Arguments string `json:"arguments,omitempty"` // Serialized argument payload (JSON object)
}

// UserMessage is a caller-authored text turn.
type UserMessage struct {
	Content string

	seq int
}

// NewUserMessage creates a user turn with the given text.
func NewUserMessage(text string) UserMessage { return UserMessage{Content: text} }

func (UserMessage) isMessage() {}

// Role implements Message.
func (m UserMessage) Role() Role { return RoleUser }

// Text implements Message.
func (m UserMessage) Text() string { return m.Content }

// Seq implements Message.
func (m UserMessage) Seq() int { return m.seq }

func (m UserMessage) withSeq(n int) Message { m.seq = n; return m }

// AssistantMessage is a model-authored turn: free text, zero or more tool
// call requests, or both.
type AssistantMessage struct {
	Content   string
	ToolCalls []ToolCall

	seq int
}

// NewAssistantMessage creates an assistant turn with text and optional tool calls.
func NewAssistantMessage(text string, calls ...ToolCall) AssistantMessage {
	return AssistantMessage{Content: text, ToolCalls: calls}
}

func (AssistantMessage) isMessage() {}

// Role implements Message.
func (m AssistantMessage) Role() Role { return RoleAssistant }

// Text implements Message.
func (m AssistantMessage) Text() string { return m.Content }

// Seq implements Message.
func (m AssistantMessage) Seq() int { return m.seq }

func (m AssistantMessage) withSeq(n int) Message { m.seq = n; return m }

// HasToolCalls reports whether the turn requests any tool invocations.
func (m AssistantMessage) HasToolCalls() bool { return len(m.ToolCalls) > 0 }

// ToolResult answers exactly one ToolCall from the preceding assistant turn.
// Content is always plain text; failed invocations carry a structured failure
// description with IsError set.
type ToolResult struct {
	CallID  string // Back-reference to the answered ToolCall
	Name    string // Tool name, for trace rendering
	Content string
	IsError bool

	seq int
}

// NewToolResult creates a successful tool-result turn.
func NewToolResult(callID, name, content string) ToolResult {
	return ToolResult{CallID: callID, Name: name, Content: content}
}

// NewToolErrorResult creates a failed tool-result turn. The failure text is
// reported back to the model as the tool's answer; it never aborts the run.
func NewToolErrorResult(callID, name, content string) ToolResult {
	return ToolResult{CallID: callID, Name: name, Content: content, IsError: true}
}

func (ToolResult) isMessage() {}

// Role implements Message.
func (m ToolResult) Role() Role { return RoleTool }

// Text implements Message.
func (m ToolResult) Text() string { return m.Content }

// Seq implements Message.
func (m ToolResult) Seq() int { return m.seq }

func (m ToolResult) withSeq(n int) Message { m.seq = n; return m }

// NewID generates a unique identifier for runs and backfilled tool-call ids.
func NewID() string { return uuid.NewString() }
