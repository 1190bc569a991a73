// Package openai provides an implementation of model.Model using the OpenAI
// Chat Completions API (including function/tool calling). It adapts the
// loop's message variants into the SDK's message format and back, and works
// against any OpenAI-compatible endpoint (e.g. OpenRouter) via WithBaseURL.
package openai

import (
	"context"
	"errors"
	"net/http"

	"github.com/hupe1980/agentloop/core"
	"github.com/hupe1980/agentloop/model"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Options configure the OpenAI model adapter. Fields mirror a subset of Chat
// Completion parameters intentionally kept minimal; extend via functional
// options without breaking callers.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
	APIKey              string
	BaseURL             string // For OpenAI-compatible endpoints; empty uses the default
}

// Model wraps the OpenAI Chat Completions API behind the generic model.Model interface.
type Model struct {
	client *openai.Client
	opts   Options
}

// NewModel creates a new OpenAI model using the official client.
func NewModel(optFns ...func(o *Options)) *Model {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(opts.BaseURL))
	}

	client := openai.NewClient(clientOpts...)

	return &Model{client: &client, opts: opts}
}

// NewModelFromClient creates a new OpenAI model from an existing client.
func NewModelFromClient(client *openai.Client, optFns ...func(o *Options)) *Model {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Model{client: client, opts: opts}
}

func defaultOptions() Options {
	return Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.7,
		MaxCompletionTokens: 4096,
	}
}

// Invoke implements model.Model with a single non-streaming completion call.
func (m *Model) Invoke(ctx context.Context, req model.Request) (core.AssistantMessage, error) {
	params := m.buildParams(req)

	resp, err := m.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return core.AssistantMessage{}, mapAPIError(err)
	}

	if len(resp.Choices) == 0 {
		return core.AssistantMessage{}, &model.MalformedResponseError{Provider: "openai", Detail: "no choices returned"}
	}

	choice := resp.Choices[0]

	calls := make([]core.ToolCall, 0, len(choice.Message.ToolCalls))
	for _, tc := range choice.Message.ToolCalls {
		if tc.Function.Name == "" {
			return core.AssistantMessage{}, &model.MalformedResponseError{Provider: "openai", Detail: "tool call without function name"}
		}
		calls = append(calls, core.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}

	return core.NewAssistantMessage(choice.Message.Content, calls...), nil
}

// buildParams assembles the request including messages and tool definitions.
func (m *Model) buildParams(req model.Request) openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{
		Messages:            buildMessages(req),
		Model:               m.opts.Model,
		Temperature:         openai.Float(m.opts.Temperature),
		MaxCompletionTokens: openai.Int(m.opts.MaxCompletionTokens),
	}

	if len(req.Tools) == 0 {
		return params
	}

	tools := make([]openai.ChatCompletionToolParam, len(req.Tools))
	for i, tdef := range req.Tools {
		tools[i] = openai.ChatCompletionToolParam{
			Type: "function",
			Function: openai.FunctionDefinitionParam{
				Name:        tdef.Function.Name,
				Description: openai.String(tdef.Function.Description),
				Parameters:  tdef.Function.Parameters,
			},
		}
	}
	params.Tools = tools

	return params
}

// buildMessages converts the ordered history into OpenAI chat messages. The
// history invariant guarantees tool results directly follow the assistant
// turn that requested them, so no reordering is needed.
func buildMessages(req model.Request) []openai.ChatCompletionMessageParamUnion {
	var messages []openai.ChatCompletionMessageParamUnion

	if req.Instructions != "" {
		messages = append(messages, openai.SystemMessage(req.Instructions))
	}

	for _, msg := range req.Messages {
		switch m := msg.(type) {
		case core.UserMessage:
			messages = append(messages, openai.UserMessage(m.Content))
		case core.AssistantMessage:
			if !m.HasToolCalls() {
				messages = append(messages, openai.AssistantMessage(m.Content))
				continue
			}
			messages = append(messages, openai.ChatCompletionMessageParamUnion{
				OfAssistant: &openai.ChatCompletionAssistantMessageParam{
					Role:      "assistant",
					ToolCalls: buildToolCalls(m.ToolCalls),
				},
			})
		case core.ToolResult:
			messages = append(messages, openai.ToolMessage(m.Content, m.CallID))
		}
	}

	return messages
}

// buildToolCalls converts assistant tool calls to the SDK's parameter shape.
func buildToolCalls(calls []core.ToolCall) []openai.ChatCompletionMessageToolCallParam {
	toolCalls := make([]openai.ChatCompletionMessageToolCallParam, len(calls))
	for i, c := range calls {
		toolCalls[i] = openai.ChatCompletionMessageToolCallParam{
			ID:   c.ID,
			Type: "function",
			Function: openai.ChatCompletionMessageToolCallFunctionParam{
				Name:      c.Name,
				Arguments: c.Arguments,
			},
		}
	}
	return toolCalls
}

// mapAPIError folds SDK failures into the loop's error taxonomy.
func mapAPIError(err error) error {
	var apierr *openai.Error
	if errors.As(err, &apierr) && apierr.StatusCode == http.StatusTooManyRequests {
		return &model.RateLimitError{Provider: "openai", Err: err}
	}
	return &model.TransportError{Provider: "openai", Err: err}
}

// Info returns metadata describing this OpenAI model implementation.
func (m *Model) Info() model.Info {
	return model.Info{
		Name:          m.opts.Model,
		Provider:      "openai",
		SupportsTools: true,
	}
}
