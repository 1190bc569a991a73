// Package core defines the shared data model of the agent loop: the closed
// Message variant set (user, assistant, tool result), the append-only
// conversation History with its ordering invariants, and the per-run RunState
// that scopes counters and hook scratch data to a single invocation.
//
// Everything in this package is deliberately free of model-provider and
// transport concerns; those live in the model and tool packages.
package core
