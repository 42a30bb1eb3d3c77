package llm

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/openai/openai-go/v3"
)

func TestParseChatCompletionToolCalls(t *testing.T) {
	raw := `{
		"id": "chatcmpl-1",
		"object": "chat.completion",
		"created": 1,
		"model": "gpt-4o",
		"choices": [{
			"index": 0,
			"finish_reason": "tool_calls",
			"message": {
				"role": "assistant",
				"content": "Writing the file.",
				"tool_calls": [{
					"id": "call_1",
					"type": "function",
					"function": {"name": "write_file", "arguments": "{\"filename\":\"a.txt\",\"content\":\"x\"}"}
				}]
			}
		}]
	}`
	var completion openai.ChatCompletion
	if err := json.Unmarshal([]byte(raw), &completion); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}
	resp, err := parseChatCompletion(&completion)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Content != "Writing the file." {
		t.Fatalf("unexpected content %q", resp.Content)
	}
	if len(resp.ToolCalls) != 1 || resp.ToolCalls[0].Name != "write_file" || resp.ToolCalls[0].ID != "call_1" {
		t.Fatalf("unexpected tool calls %+v", resp.ToolCalls)
	}
	if resp.FinishReason != "tool_calls" {
		t.Fatalf("unexpected finish reason %q", resp.FinishReason)
	}
}

func TestParseChatCompletionEmpty(t *testing.T) {
	if _, err := parseChatCompletion(&openai.ChatCompletion{}); err == nil {
		t.Fatalf("expected error for empty choices")
	}
}

func TestScriptedClientExhausts(t *testing.T) {
	client := NewScriptedClient(Response{Content: "one"})
	first, _ := client.Create(context.Background(), Request{})
	second, _ := client.Create(context.Background(), Request{})
	if first.Content != "one" || len(second.ToolCalls) != 0 || second.Content == "" {
		t.Fatalf("unexpected responses %+v %+v", first, second)
	}
	if len(client.Requests) != 2 {
		t.Fatalf("expected requests recorded")
	}
}
