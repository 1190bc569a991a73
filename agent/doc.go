// Package agent implements the tool-calling loop: a single agent that
// alternates model invocations and tool executions against an append-only
// history until the model answers in plain text or the step budget runs out.
//
// One Invoke call is one run. Runs are single-threaded; the agent itself is
// immutable after construction and may serve concurrent runs, each with its
// own RunState.
package agent
