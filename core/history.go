package core

import "fmt"

// OrderViolationError reports an attempt to append a ToolResult that does not
// answer an outstanding tool call from the most recent assistant turn. It
// indicates a loop or registry bug, not a runtime condition, and fails the run.
type OrderViolationError struct {
	CallID string // Referenced call id
	Reason string
}

func (e *OrderViolationError) Error() string {
	return fmt.Sprintf("history order violation for call %q: %s", e.CallID, e.Reason)
}

// History is the append-only, strictly ordered log of conversation turns for
// one run. It is owned exclusively by that run's RunState, so no internal
// locking is needed.
//
// Contract:
//   - Append assigns the sequence index and never mutates earlier entries
//   - A ToolResult must answer an outstanding (unanswered) call from the most
//     recent assistant turn, at most once per call id
//   - View returns a defensive copy so hooks and model clients cannot mutate
//     the log
type History struct {
	messages []Message
}

// NewHistory creates an empty history.
func NewHistory() *History { return &History{} }

// Append validates and appends a message, returning the stored copy with its
// assigned sequence index. ToolResult appends that break the ordering
// invariant fail with *OrderViolationError.
func (h *History) Append(msg Message) (Message, error) {
	if tr, ok := msg.(ToolResult); ok {
		if err := h.checkToolResult(tr); err != nil {
			return nil, err
		}
	}

	msg = msg.withSeq(len(h.messages))
	h.messages = append(h.messages, msg)

	return msg, nil
}

// View returns all messages in append order as a defensive copy.
func (h *History) View() []Message {
	view := make([]Message, len(h.messages))
	copy(view, h.messages)
	return view
}

// Len returns the number of appended messages.
func (h *History) Len() int { return len(h.messages) }

// LastMessage returns the most recent entry, or ok=false for an empty history.
func (h *History) LastMessage() (Message, bool) {
	if len(h.messages) == 0 {
		return nil, false
	}
	return h.messages[len(h.messages)-1], true
}

// checkToolResult enforces the one-answer-per-call invariant against the most
// recent assistant turn.
func (h *History) checkToolResult(tr ToolResult) error {
	if tr.CallID == "" {
		return &OrderViolationError{CallID: tr.CallID, Reason: "tool result carries no call id"}
	}

	// Walk back to the most recent assistant turn, collecting results appended
	// after it along the way.
	answered := map[string]bool{}
	calls, found := h.lastAssistantCalls(answered)

	if !found {
		return &OrderViolationError{CallID: tr.CallID, Reason: "no preceding assistant turn"}
	}
	if answered[tr.CallID] {
		return &OrderViolationError{CallID: tr.CallID, Reason: "call already answered"}
	}
	for _, c := range calls {
		if c.ID == tr.CallID {
			return nil
		}
	}

	return &OrderViolationError{CallID: tr.CallID, Reason: "call not requested by the most recent assistant turn"}
}

// OutstandingCalls returns the tool calls from the most recent assistant turn
// that have not been answered yet, in emission order.
func (h *History) OutstandingCalls() []ToolCall {
	answered := map[string]bool{}
	calls, _ := h.lastAssistantCalls(answered)

	var open []ToolCall
	for _, c := range calls {
		if !answered[c.ID] {
			open = append(open, c)
		}
	}

	return open
}

// lastAssistantCalls walks the tail of the log, recording tool results into
// answered until the most recent assistant turn is reached. It returns that
// turn's calls and whether an assistant turn exists at all.
func (h *History) lastAssistantCalls(answered map[string]bool) ([]ToolCall, bool) {
	for i := len(h.messages) - 1; i >= 0; i-- {
		switch m := h.messages[i].(type) {
		case ToolResult:
			answered[m.CallID] = true
		case AssistantMessage:
			return m.ToolCalls, true
		}
	}
	return nil, false
}
