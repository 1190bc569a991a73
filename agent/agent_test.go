package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/hupe1980/agentloop/core"
	"github.com/hupe1980/agentloop/hook"
	"github.com/hupe1980/agentloop/model"
	"github.com/hupe1980/agentloop/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) *tool.Registry {
	t.Helper()

	r := tool.NewRegistry()
	r.MustRegister(
		tool.NewFunctionTool("get_weather", "Get the current weather for a city",
			map[string]any{
				"type": "object",
				"properties": map[string]any{
					"city": map[string]any{"type": "string"},
				},
				"required": []string{"city"},
			},
			func(_ context.Context, args map[string]any) (any, error) {
				return fmt.Sprintf("Sunny in %v", args["city"]), nil
			}),
		tool.NewFunctionTool("add_numbers", "Calculate the sum of two numbers",
			map[string]any{
				"type": "object",
				"properties": map[string]any{
					"a": map[string]any{"type": "number"},
					"b": map[string]any{"type": "number"},
				},
				"required": []string{"a", "b"},
			},
			func(_ context.Context, args map[string]any) (any, error) {
				a, _ := args["a"].(float64)
				b, _ := args["b"].(float64)
				return a + b, nil
			}),
		tool.NewFunctionTool("broken", "Always fails",
			map[string]any{"type": "object"},
			func(_ context.Context, _ map[string]any) (any, error) {
				return nil, errors.New("backend down")
			}),
	)

	return r
}

func TestInvokeAnswersWithoutTools(t *testing.T) {
	llm := model.NewMockModel("mock")
	llm.AddResponse("hello", "hi there")

	a := New("assistant", llm, newTestRegistry(t))

	result, err := a.Invoke(context.Background(), "hello")
	require.NoError(t, err)

	assert.Equal(t, OutcomeAnswered, result.Outcome)
	assert.Equal(t, "hi there", result.FinalAnswer)
	assert.Equal(t, 1, result.Steps)

	require.Len(t, result.History, 2)
	assert.Equal(t, core.RoleUser, result.History[0].Role())
	assert.Equal(t, core.RoleAssistant, result.History[1].Role())
	assert.Empty(t, result.ToolTrace())
}

func TestInvokeSingleToolCycle(t *testing.T) {
	llm := model.NewMockModel("mock")
	llm.Enqueue(core.NewAssistantMessage("",
		core.ToolCall{ID: "c1", Name: "get_weather", Arguments: `{"city": "Berlin"}`}))
	llm.Enqueue(core.NewAssistantMessage("It is sunny in Berlin."))

	a := New("assistant", llm, newTestRegistry(t))

	result, err := a.Invoke(context.Background(), "weather in berlin?")
	require.NoError(t, err)

	assert.Equal(t, OutcomeAnswered, result.Outcome)
	assert.Equal(t, "It is sunny in Berlin.", result.FinalAnswer)
	assert.Equal(t, 2, result.Steps)

	// user, assistant(call), tool result, assistant(answer)
	require.Len(t, result.History, 4)
	assert.Equal(t, core.RoleTool, result.History[2].Role())

	trace := result.ToolTrace()
	require.Len(t, trace, 1)
	assert.Equal(t, "c1", trace[0].CallID)
	assert.Equal(t, "Sunny in Berlin", trace[0].Content)
	assert.False(t, trace[0].IsError)
}

func TestInvokeExecutesToolCallsInRequestOrder(t *testing.T) {
	llm := model.NewMockModel("mock")
	llm.Enqueue(core.NewAssistantMessage("",
		core.ToolCall{ID: "c1", Name: "get_weather", Arguments: `{"city": "Berlin"}`},
		core.ToolCall{ID: "c2", Name: "add_numbers", Arguments: `{"a": 3, "b": 4}`},
	))
	llm.Enqueue(core.NewAssistantMessage("Sunny, and the sum is 7."))

	a := New("assistant", llm, newTestRegistry(t))

	result, err := a.Invoke(context.Background(), "weather and sum?")
	require.NoError(t, err)

	assert.Equal(t, OutcomeAnswered, result.Outcome)
	assert.Contains(t, result.FinalAnswer, "7")

	trace := result.ToolTrace()
	require.Len(t, trace, 2)
	assert.Equal(t, "get_weather", trace[0].Name)
	assert.Equal(t, "add_numbers", trace[1].Name)
	assert.Equal(t, "7", trace[1].Content)

	// results sit between the two assistant turns, in request order
	assert.Less(t, trace[0].Seq(), trace[1].Seq())
}

func TestInvokeStepLimitExceeded(t *testing.T) {
	llm := model.NewMockModel("mock")
	for i := 0; i < 5; i++ {
		llm.Enqueue(core.NewAssistantMessage("",
			core.ToolCall{ID: fmt.Sprintf("c%d", i), Name: "get_weather", Arguments: `{"city": "Berlin"}`}))
	}

	a := New("assistant", llm, newTestRegistry(t), func(o *Options) {
		o.MaxSteps = 3
	})

	result, err := a.Invoke(context.Background(), "loop forever")
	require.NoError(t, err)

	assert.Equal(t, OutcomeStepLimitExceeded, result.Outcome)
	assert.Empty(t, result.FinalAnswer)
	assert.Equal(t, 3, result.Steps)
	assert.Len(t, result.ToolTrace(), 3)
}

func TestInvokeToolFailureContinuesRun(t *testing.T) {
	llm := model.NewMockModel("mock")
	llm.Enqueue(core.NewAssistantMessage("",
		core.ToolCall{ID: "c1", Name: "broken", Arguments: `{}`}))
	llm.Enqueue(core.NewAssistantMessage("The backend seems to be down."))

	a := New("assistant", llm, newTestRegistry(t))

	result, err := a.Invoke(context.Background(), "try the broken tool")
	require.NoError(t, err)

	assert.Equal(t, OutcomeAnswered, result.Outcome)

	trace := result.ToolTrace()
	require.Len(t, trace, 1)
	assert.True(t, trace[0].IsError)

	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(trace[0].Content), &payload))
	assert.Equal(t, "broken", payload["tool"])
	assert.Equal(t, "execution_error", payload["code"])
	assert.Contains(t, payload["error"], "backend down")
}

func TestInvokeUnknownToolReportedAsFailure(t *testing.T) {
	llm := model.NewMockModel("mock")
	llm.Enqueue(core.NewAssistantMessage("",
		core.ToolCall{ID: "c1", Name: "no_such_tool", Arguments: `{}`}))
	llm.Enqueue(core.NewAssistantMessage("That tool does not exist."))

	a := New("assistant", llm, newTestRegistry(t))

	result, err := a.Invoke(context.Background(), "use a missing tool")
	require.NoError(t, err)

	trace := result.ToolTrace()
	require.Len(t, trace, 1)
	require.True(t, trace[0].IsError)

	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(trace[0].Content), &payload))
	assert.Equal(t, "unknown_tool", payload["code"])
}

func TestInvokeInvalidArgumentsReportedAsFailure(t *testing.T) {
	llm := model.NewMockModel("mock")
	llm.Enqueue(core.NewAssistantMessage("",
		core.ToolCall{ID: "c1", Name: "get_weather", Arguments: `{"city": 42}`}))
	llm.Enqueue(core.NewAssistantMessage("Let me correct that."))

	a := New("assistant", llm, newTestRegistry(t))

	result, err := a.Invoke(context.Background(), "bad args")
	require.NoError(t, err)

	trace := result.ToolTrace()
	require.Len(t, trace, 1)

	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(trace[0].Content), &payload))
	assert.Equal(t, "invalid_arguments", payload["code"])
}

func TestInvokeModelErrorIsFatal(t *testing.T) {
	llm := model.NewMockModel("mock")
	llm.EnqueueError(&model.TransportError{Provider: "mock", Err: errors.New("connection reset")})

	a := New("assistant", llm, newTestRegistry(t))

	result, err := a.Invoke(context.Background(), "hello")
	require.Error(t, err)
	assert.Nil(t, result)

	var te *model.TransportError
	assert.ErrorAs(t, err, &te)
}

func TestInvokeBackfillsMissingCallIDs(t *testing.T) {
	llm := model.NewMockModel("mock")
	llm.Enqueue(core.NewAssistantMessage("",
		core.ToolCall{Name: "get_weather", Arguments: `{"city": "Berlin"}`})) // no ID
	llm.Enqueue(core.NewAssistantMessage("done"))

	a := New("assistant", llm, newTestRegistry(t))

	result, err := a.Invoke(context.Background(), "weather?")
	require.NoError(t, err)

	trace := result.ToolTrace()
	require.Len(t, trace, 1)
	assert.NotEmpty(t, trace[0].CallID)
}

func TestInvokeHooksObserveEveryStep(t *testing.T) {
	llm := model.NewMockModel("mock")
	llm.Enqueue(core.NewAssistantMessage("",
		core.ToolCall{ID: "c1", Name: "get_weather", Arguments: `{"city": "Berlin"}`}))
	llm.Enqueue(core.NewAssistantMessage("done"))

	var beforeSteps, afterSteps []int

	a := New("assistant", llm, newTestRegistry(t), func(o *Options) {
		o.Hooks = []hook.Hook{
			hook.NewFunctionHook(hook.PhaseBefore, func(_ context.Context, hc *hook.Context) (hook.Patch, error) {
				beforeSteps = append(beforeSteps, hc.Step)
				n, _ := hc.Scratch["model_calls"].(int)
				return hook.Patch{"model_calls": n + 1}, nil
			}),
			hook.NewFunctionHook(hook.PhaseAfter, func(_ context.Context, hc *hook.Context) (hook.Patch, error) {
				afterSteps = append(afterSteps, hc.Step)
				// after-hooks see the assistant turn that was just appended
				last, ok := hc.LastMessage()
				require.True(t, ok)
				assert.Equal(t, core.RoleAssistant, last.Role())
				return nil, nil
			}),
		}
	})

	result, err := a.Invoke(context.Background(), "weather?")
	require.NoError(t, err)

	assert.Equal(t, OutcomeAnswered, result.Outcome)
	assert.Equal(t, []int{1, 2}, beforeSteps)
	assert.Equal(t, []int{1, 2}, afterSteps)
}

func TestInvokeFailingHookDoesNotAffectOutcome(t *testing.T) {
	llm := model.NewMockModel("mock")
	llm.AddResponse("hello", "hi there")

	a := New("assistant", llm, newTestRegistry(t), func(o *Options) {
		o.Hooks = []hook.Hook{
			hook.NewFunctionHook(hook.PhaseBefore, func(_ context.Context, _ *hook.Context) (hook.Patch, error) {
				return nil, errors.New("observer failed")
			}),
			hook.NewFunctionHook(hook.PhaseAfter, func(_ context.Context, _ *hook.Context) (hook.Patch, error) {
				panic("observer panicked")
			}),
		}
	})

	result, err := a.Invoke(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, OutcomeAnswered, result.Outcome)
	assert.Equal(t, "hi there", result.FinalAnswer)
}

func TestInvokeDynamicInstructionResolvedEachStep(t *testing.T) {
	llm := model.NewMockModel("mock")
	llm.Enqueue(core.NewAssistantMessage("",
		core.ToolCall{ID: "c1", Name: "get_weather", Arguments: `{"city": "Berlin"}`}))
	llm.Enqueue(core.NewAssistantMessage("done"))

	resolved := 0

	a := New("assistant", llm, newTestRegistry(t), func(o *Options) {
		o.Instruction = NewInstructionFromFunc(func(_ *core.RunState) (string, error) {
			resolved++
			return "Be concise.", nil
		})
	})

	_, err := a.Invoke(context.Background(), "weather?")
	require.NoError(t, err)

	// one resolve per model call
	assert.Equal(t, 2, resolved)
}

func TestInvokeConcurrentRunsAreIsolated(t *testing.T) {
	llm := model.NewMockModel("mock")
	llm.AddResponse("ping", "pong")

	a := New("assistant", llm, newTestRegistry(t))

	done := make(chan *Result, 2)
	for i := 0; i < 2; i++ {
		go func() {
			result, err := a.Invoke(context.Background(), "ping")
			assert.NoError(t, err)
			done <- result
		}()
	}

	first, second := <-done, <-done
	assert.Equal(t, OutcomeAnswered, first.Outcome)
	assert.Equal(t, OutcomeAnswered, second.Outcome)
	assert.NotSame(t, first, second)
}

func TestAgentName(t *testing.T) {
	a := New("assistant", model.NewMockModel("mock"), nil)
	assert.Equal(t, "assistant", a.Name())
}
