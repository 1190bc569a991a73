package model

import "fmt"

// TransportError reports a network or API failure while invoking the model.
// It is fatal to the current run; retry policy belongs to the caller or the
// underlying SDK, never to the agent loop.
type TransportError struct {
	Provider string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s transport error: %v", e.Provider, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *TransportError) Unwrap() error { return e.Err }

// RateLimitError reports the provider rejecting the request for quota
// reasons. Fatal to the current run, like TransportError.
type RateLimitError struct {
	Provider string
	Err      error
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s rate limited: %v", e.Provider, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *RateLimitError) Unwrap() error { return e.Err }

// MalformedResponseError reports a structurally unusable model response (no
// choices, or a tool call without a name). A tool call naming an unregistered
// tool is NOT malformed; the loop reports that back to the model as a failed
// tool result and continues.
type MalformedResponseError struct {
	Provider string
	Detail   string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("%s returned malformed response: %s", e.Provider, e.Detail)
}
