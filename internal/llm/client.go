package llm

import (
	"context"
	"encoding/json"

	"github.com/openai/openai-go/v3"
)

// ToolCall is one function invocation requested by the model. Arguments
// hold the raw JSON object the model produced and are decoded by the tool
// registry, not here.
type ToolCall struct {
	ID        string
	Name      string
	Arguments json.RawMessage
}

// Response is the first choice of a chat completion.
type Response struct {
	Content      string
	ToolCalls    []ToolCall
	FinishReason string
}

// Request carries the conversation so far and the tool catalog offered to
// the model for the next turn.
type Request struct {
	Model      string
	Messages   []openai.ChatCompletionMessageParamUnion
	Tools      []openai.ChatCompletionToolUnionParam
	ToolChoice openai.ChatCompletionToolChoiceOptionUnionParam
}

// Client sends one chat turn to a chat-completions compatible backend.
type Client interface {
	Create(ctx context.Context, req Request) (Response, error)
}

// ClientFunc adapts a plain function to Client.
type ClientFunc func(ctx context.Context, req Request) (Response, error)

func (f ClientFunc) Create(ctx context.Context, req Request) (Response, error) {
	return f(ctx, req)
}
