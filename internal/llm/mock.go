package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MockClient replays a fixed script of responses for tests and demos.
type MockClient struct {
	mu       sync.Mutex
	script   []Response
	calls    int
	Requests []Request
}

// NewMockClient returns a mock that lists files, writes a greeting and
// finishes the project.
func NewMockClient() *MockClient {
	return NewScriptedClient(
		Response{Content: "Looking at the project first.", ToolCalls: []ToolCall{Call("call_1", "list_files", map[string]string{"list": "list"})}},
		Response{ToolCalls: []ToolCall{Call("call_2", "write_file", map[string]string{"filename": "hello.txt", "content": "Hello from autopilot"})}},
		Response{ToolCalls: []ToolCall{Call("call_3", "project_finished", map[string]string{"finished": "finished"})}},
	)
}

// NewScriptedClient returns a mock replaying responses in order. Once the
// script is exhausted it answers with plain text and no tool calls.
func NewScriptedClient(responses ...Response) *MockClient {
	return &MockClient{script: responses}
}

func (m *MockClient) Create(ctx context.Context, req Request) (Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests = append(m.Requests, req)
	if m.calls >= len(m.script) {
		m.calls++
		return Response{Content: "Nothing left to do."}, nil
	}
	resp := m.script[m.calls]
	m.calls++
	return resp, nil
}

// Call builds a tool call for scripted responses.
func Call(id, name string, args map[string]string) ToolCall {
	raw, err := json.Marshal(args)
	if err != nil {
		panic(fmt.Sprintf("mock args: %v", err))
	}
	return ToolCall{ID: id, Name: name, Arguments: raw}
}
