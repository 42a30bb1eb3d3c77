package llm

import (
	"context"
	"encoding/json"
	"fmt"

	retryablehttp "github.com/hashicorp/go-retryablehttp"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"
	"github.com/openai/openai-go/v3/shared"
)

// OpenAIClient implements Client against any OpenAI-compatible endpoint.
type OpenAIClient struct {
	client openai.Client
}

// NewOpenAIClient constructs a client. Transient HTTP failures are retried
// by the transport, so the SDK's own retries are disabled.
func NewOpenAIClient(apiKey, baseURL string, retries int) *OpenAIClient {
	httpClient := retryablehttp.NewClient()
	httpClient.RetryMax = retries
	httpClient.Logger = nil

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(httpClient.StandardClient()),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAIClient{client: openai.NewClient(opts...)}
}

func (c *OpenAIClient) Create(ctx context.Context, req Request) (Response, error) {
	params := openai.ChatCompletionNewParams{
		Model:       shared.ChatModel(req.Model),
		Messages:    req.Messages,
		Tools:       req.Tools,
		ToolChoice:  req.ToolChoice,
		Temperature: param.NewOpt(0.2),
	}
	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return Response{}, err
	}
	return parseChatCompletion(resp)
}

func parseChatCompletion(resp *openai.ChatCompletion) (Response, error) {
	if resp == nil || len(resp.Choices) == 0 {
		return Response{}, fmt.Errorf("empty response")
	}
	choice := resp.Choices[0]
	msg := choice.Message
	response := Response{Content: msg.Content, FinishReason: string(choice.FinishReason)}
	for _, toolCall := range msg.ToolCalls {
		if toolCall.Type != "function" {
			continue
		}
		fn := toolCall.AsFunction()
		response.ToolCalls = append(response.ToolCalls, ToolCall{
			ID:        fn.ID,
			Name:      fn.Function.Name,
			Arguments: json.RawMessage(fn.Function.Arguments),
		})
	}
	return response, nil
}
