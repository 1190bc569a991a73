// Package model defines the Model Invocation Client contract consumed by the
// agent loop: a synchronous, tool-aware chat completion call plus the error
// taxonomy the loop relies on (transport, rate limit, malformed response).
// Vendor adapters live in the subpackages model/openai and model/anthropic;
// MockModel provides deterministic behavior for tests and examples.
package model
