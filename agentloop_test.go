package agentloop_test

import (
	"context"
	"testing"

	"github.com/hupe1980/agentloop"
	"github.com/hupe1980/agentloop/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunOneShot(t *testing.T) {
	llm := model.NewMockModel("mock")
	llm.AddResponse("ping", "pong")

	registry := agentloop.NewRegistry()
	registry.MustRegister(agentloop.NewFunctionTool("noop", "Does nothing",
		map[string]any{"type": "object"},
		func(_ context.Context, _ map[string]any) (any, error) { return "done", nil }))

	result, err := agentloop.Run(context.Background(), "assistant", llm, registry, "ping")
	require.NoError(t, err)

	assert.Equal(t, agentloop.OutcomeAnswered, result.Outcome)
	assert.Equal(t, "pong", result.FinalAnswer)
}
