package agent

import (
	"context"
	"errors"
	"strings"
	"time"

	"autopilot/internal/config"
	"autopilot/internal/console"
	"autopilot/internal/events"
	"autopilot/internal/llm"
	"autopilot/internal/project"
	"autopilot/internal/tools"
	"autopilot/internal/version"
	"autopilot/internal/workspace"

	"github.com/google/uuid"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/packages/param"
	"github.com/openai/openai-go/v3/shared/constant"
	"go.uber.org/zap"
)

// Run statuses.
const (
	StatusFinished = "finished"
	StatusStopped  = "stopped"
	StatusPartial  = "partial"
	StatusFailure  = "failure"
)

const followUpQuestion = "Any further instructions? Leave empty to stop."

// ErrMaxSteps is returned when the step budget runs out before the model
// signals completion.
var ErrMaxSteps = errors.New("max steps reached")

// RunResult summarizes a run.
type RunResult struct {
	RunID       string           `json:"run_id"`
	StartedAt   time.Time        `json:"timestamp_start"`
	FinishedAt  time.Time        `json:"timestamp_end"`
	ProjectRoot string           `json:"project_root"`
	Goal        string           `json:"goal"`
	Model       string           `json:"model"`
	StepsUsed   int              `json:"steps_used"`
	Status      string           `json:"status"`
	ToolCalls   []ToolCallRecord `json:"tool_calls"`
}

// ToolCallRecord records tool call history.
type ToolCallRecord struct {
	ToolName   string            `json:"tool_name"`
	Input      map[string]string `json:"input"`
	Output     string            `json:"output"`
	Status     string            `json:"status"`
	DurationMs int64             `json:"duration_ms"`
}

// Agent runs the orchestration loop.
type Agent struct {
	client llm.Client
	tools  *tools.Registry
	gate   console.Interactor
	sink   events.Sink
	logger *zap.Logger
	cfg    config.Config
	ws     *workspace.Workspace
}

// NewAgent constructs an Agent. The registry's event sink is replaced so
// that tool calls are recorded in the run result before reaching sink.
func NewAgent(client llm.Client, registry *tools.Registry, gate console.Interactor, sink events.Sink, logger *zap.Logger, cfg config.Config, ws *workspace.Workspace) *Agent {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Agent{client: client, tools: registry, gate: gate, sink: sink, logger: logger, cfg: cfg, ws: ws}
}

// Run drives the model until it finishes the project, the operator stops
// it, or the step budget is spent.
func (a *Agent) Run(ctx context.Context, goal string) (RunResult, error) {
	started := time.Now()
	runID := uuid.NewString()
	result := RunResult{
		RunID:       runID,
		StartedAt:   started,
		ProjectRoot: a.ws.Root(),
		Goal:        goal,
		Model:       a.cfg.Model,
		Status:      StatusFailure,
	}

	emit := func(kind events.Type, payload any) {
		if a.sink != nil {
			a.sink.Emit(events.Event{Type: kind, Timestamp: time.Now(), Payload: payload})
		}
	}
	a.tools.SetSink(events.SinkFunc(func(event events.Event) {
		if payload, ok := event.Payload.(events.ToolCallFinishedPayload); ok {
			result.ToolCalls = append(result.ToolCalls, ToolCallRecord{
				ToolName:   payload.ToolName,
				Input:      payload.Input,
				Output:     payload.Output,
				Status:     payload.Status,
				DurationMs: payload.DurationMs,
			})
		}
		if a.sink != nil {
			a.sink.Emit(event)
		}
	}))
	defer a.tools.SetSink(a.sink)

	finish := func(status string, steps int) {
		result.Status = status
		result.StepsUsed = steps
		result.FinishedAt = time.Now()
		emit(events.RunFinished, events.RunFinishedPayload{Status: status, StepsUsed: steps, FinishedAt: result.FinishedAt})
	}

	emit(events.RunStarted, events.RunStartedPayload{
		Version:     version.Version,
		ProjectRoot: result.ProjectRoot,
		Model:       a.cfg.Model,
		RunID:       runID,
		StartedAt:   started,
	})

	listing := a.tools.Dispatch(ctx, "list_files", tools.Args{"list": "list"})
	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(systemPrompt()),
		openai.DeveloperMessage(developerPrompt(a.tools.Names())),
		openai.DeveloperMessage(listing),
	}
	if summary := project.Summarize(a.ws, project.DefaultMaxBytes); !summary.Empty() {
		messages = append(messages, openai.DeveloperMessage(summary.String()))
	}
	messages = append(messages, openai.UserMessage(goal))

	toolsDefs := a.tools.OpenAITools()
	toolChoice := openai.ChatCompletionToolChoiceOptionUnionParam{}
	if len(toolsDefs) > 0 {
		toolChoice = openai.ChatCompletionToolChoiceOptionUnionParam{OfAuto: param.NewOpt("auto")}
	}

	steps := 0
	for steps < a.cfg.MaxSteps {
		if err := ctx.Err(); err != nil {
			emit(events.RunError, events.RunErrorPayload{Message: err.Error()})
			finish(StatusStopped, steps)
			return result, err
		}
		steps++
		response, err := a.client.Create(ctx, llm.Request{Model: a.cfg.Model, Messages: messages, Tools: toolsDefs, ToolChoice: toolChoice})
		if err != nil {
			a.logger.Error("model request failed", zap.Error(err))
			emit(events.RunError, events.RunErrorPayload{Message: err.Error()})
			finish(StatusFailure, steps)
			return result, err
		}
		a.logger.Debug("model turn",
			zap.Int("step", steps),
			zap.String("finish_reason", response.FinishReason),
			zap.Int("tool_calls", len(response.ToolCalls)))

		content := strings.TrimSpace(response.Content)
		if content != "" {
			emit(events.AssistantMessage, events.AssistantMessagePayload{Content: content})
		}

		if len(response.ToolCalls) == 0 {
			messages = append(messages, openai.AssistantMessage(response.Content))
			answer, err := a.followUp()
			if err != nil || strings.TrimSpace(answer) == "" {
				if err != nil && !errors.Is(err, console.ErrClosed) {
					a.logger.Warn("follow-up prompt failed", zap.Error(err))
				}
				finish(StatusStopped, steps)
				return result, nil
			}
			messages = append(messages, openai.UserMessage(answer))
			continue
		}

		messages = append(messages, assistantToolCalls(response))
		finished := false
		for _, call := range response.ToolCalls {
			out := a.tools.DispatchJSON(ctx, call.Name, call.Arguments)
			messages = append(messages, openai.ToolMessage(out, call.ID))
			if out == tools.FinishedSignal {
				finished = true
			}
		}
		if finished {
			finish(StatusFinished, steps)
			return result, nil
		}
	}

	a.logger.Warn("max steps reached", zap.Int("max_steps", a.cfg.MaxSteps))
	emit(events.RunError, events.RunErrorPayload{Message: ErrMaxSteps.Error()})
	finish(StatusPartial, steps)
	return result, ErrMaxSteps
}

// followUp asks the operator how to continue after the model stopped
// calling tools.
func (a *Agent) followUp() (string, error) {
	if a.gate == nil {
		return "", console.ErrClosed
	}
	return a.gate.Ask(followUpQuestion)
}

func assistantToolCalls(response llm.Response) openai.ChatCompletionMessageParamUnion {
	toolCallParams := make([]openai.ChatCompletionMessageToolCallUnionParam, 0, len(response.ToolCalls))
	for _, call := range response.ToolCalls {
		arguments := string(call.Arguments)
		if strings.TrimSpace(arguments) == "" {
			arguments = "{}"
		}
		toolCallParams = append(toolCallParams, openai.ChatCompletionMessageToolCallUnionParam{
			OfFunction: &openai.ChatCompletionMessageFunctionToolCallParam{
				ID: call.ID,
				Function: openai.ChatCompletionMessageFunctionToolCallFunctionParam{
					Name:      call.Name,
					Arguments: arguments,
				},
				Type: constant.Function("function"),
			},
		})
	}
	assistant := openai.ChatCompletionAssistantMessageParam{ToolCalls: toolCallParams}
	if response.Content != "" {
		assistant.Content = openai.ChatCompletionAssistantMessageParamContentUnion{OfString: param.NewOpt(response.Content)}
	}
	return openai.ChatCompletionMessageParamUnion{OfAssistant: &assistant}
}
