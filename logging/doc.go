// Package logging provides a tiny abstraction over slog so the loop, tool
// registry and hook pipeline can depend on a minimal interface (Logger) while
// callers plug in any structured logger. It also offers a richer LoopLogger
// with contextual helpers (component, run id) and domain specific helpers for
// model and tool calls.
package logging
