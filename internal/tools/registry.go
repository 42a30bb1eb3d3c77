package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"autopilot/internal/events"
	"autopilot/internal/util"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/packages/param"
	"github.com/openai/openai-go/v3/shared"
	"go.uber.org/zap"
)

const previewLines = 12

var errPanic = errors.New("tool panicked")

// Registry stores available tools in catalog order.
type Registry struct {
	order  []Tool
	tools  map[string]Tool
	logger *zap.Logger
	sink   events.Sink
}

// NewRegistry builds a registry from tools. Later tools with a duplicate
// name replace earlier ones in place.
func NewRegistry(logger *zap.Logger, items ...Tool) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	reg := &Registry{tools: map[string]Tool{}, logger: logger}
	for _, item := range items {
		if _, ok := reg.tools[item.Name()]; ok {
			for i, existing := range reg.order {
				if existing.Name() == item.Name() {
					reg.order[i] = item
				}
			}
		} else {
			reg.order = append(reg.order, item)
		}
		reg.tools[item.Name()] = item
	}
	return reg
}

// SetSink routes dispatch events to sink.
func (r *Registry) SetSink(sink events.Sink) {
	r.sink = sink
}

// Get returns a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	tool, ok := r.tools[name]
	return tool, ok
}

// Names returns sorted tool names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Catalog returns the tool descriptors in registration order.
func (r *Registry) Catalog() []Descriptor {
	out := make([]Descriptor, 0, len(r.order))
	for _, tool := range r.order {
		out = append(out, Describe(tool))
	}
	return out
}

// OpenAITools converts the catalog to OpenAI function tool params.
func (r *Registry) OpenAITools() []openai.ChatCompletionToolUnionParam {
	defs := make([]openai.ChatCompletionToolUnionParam, 0, len(r.order))
	for _, desc := range r.Catalog() {
		defs = append(defs, openai.ChatCompletionToolUnionParam{
			OfFunction: &openai.ChatCompletionFunctionToolParam{
				Function: shared.FunctionDefinitionParam{
					Name:        desc.Name,
					Description: param.NewOpt(desc.Description),
					Parameters:  desc.Parameters,
					Strict:      param.NewOpt(true),
				},
			},
		})
	}
	return defs
}

// DispatchJSON decodes a JSON object of arguments and dispatches it.
// Non-string values are passed on as their JSON text.
func (r *Registry) DispatchJSON(ctx context.Context, name string, raw json.RawMessage) string {
	args, err := stringArgs(raw)
	if err != nil {
		r.logger.Warn("invalid tool arguments", zap.String("tool", name), zap.Error(err))
		msg := fmt.Sprintf("ERROR: Invalid arguments for %s", name)
		r.emitFailed(name, nil, msg, 0)
		return msg
	}
	return r.Dispatch(ctx, name, args)
}

// Dispatch runs the named tool and always returns a string for the model.
func (r *Registry) Dispatch(ctx context.Context, name string, args Args) string {
	tool, ok := r.tools[name]
	if !ok {
		r.logger.Warn("unknown tool", zap.String("tool", name))
		msg := fmt.Sprintf("ERROR: Unknown tool %q", name)
		r.emitFailed(name, args, msg, 0)
		return msg
	}
	for _, p := range tool.Params() {
		if _, ok := args[p.Name]; !ok {
			msg := fmt.Sprintf("ERROR: Missing required argument %q for %s", p.Name, name)
			r.emitFailed(name, args, msg, 0)
			return msg
		}
	}

	start := time.Now()
	r.emit(events.ToolCallStarted, events.ToolCallStartedPayload{ToolName: name, Input: args, StartedAt: start})
	r.logger.Debug("tool call", zap.String("tool", name))

	out, err := r.execute(ctx, tool, args)
	duration := time.Since(start)
	if err != nil {
		var failure *Failure
		switch {
		case errors.As(err, &failure):
			r.logger.Warn("tool failed", zap.String("tool", name), zap.NamedError("cause", failure.Cause))
			out = failure.Message
		case errors.Is(err, errPanic):
			r.logger.Error("tool panicked", zap.String("tool", name), zap.Error(err))
			out = fmt.Sprintf("ERROR: %s failed unexpectedly", name)
		default:
			r.logger.Warn("tool error", zap.String("tool", name), zap.Error(err))
			out = fmt.Sprintf("ERROR: %s failed: %v", name, err)
		}
		r.emitFailed(name, args, out, duration)
		return out
	}
	r.emitFinished(events.ToolCallFinished, "success", name, args, out, duration)
	return out
}

func (r *Registry) execute(ctx context.Context, tool Tool, args Args) (out string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %v", errPanic, rec)
		}
	}()
	return tool.Execute(ctx, args)
}

func (r *Registry) emitFailed(name string, args Args, out string, duration time.Duration) {
	r.emitFinished(events.ToolCallFailed, "error", name, args, out, duration)
}

func (r *Registry) emitFinished(kind events.Type, status, name string, args Args, out string, duration time.Duration) {
	preview := util.Preview(out, previewLines, 2000)
	lineCount := 0
	if out != "" {
		lineCount = strings.Count(out, "\n") + 1
	}
	r.emit(kind, events.ToolCallFinishedPayload{
		ToolName:   name,
		Status:     status,
		Input:      args,
		Output:     out,
		Preview:    preview,
		LineCount:  lineCount,
		ByteCount:  len(out),
		Truncated:  preview != out,
		DurationMs: duration.Milliseconds(),
	})
}

func (r *Registry) emit(kind events.Type, payload any) {
	if r.sink == nil {
		return
	}
	r.sink.Emit(events.Event{Type: kind, Timestamp: time.Now(), Payload: payload})
}

func stringArgs(raw json.RawMessage) (Args, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return Args{}, nil
	}
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var data map[string]any
	if err := decoder.Decode(&data); err != nil {
		return nil, err
	}
	args := make(Args, len(data))
	for key, value := range data {
		switch v := value.(type) {
		case string:
			args[key] = v
		case nil:
			args[key] = ""
		case json.Number:
			args[key] = v.String()
		default:
			encoded, err := json.Marshal(v)
			if err != nil {
				return nil, err
			}
			args[key] = string(encoded)
		}
	}
	return args, nil
}
