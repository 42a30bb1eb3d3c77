package events

import "time"

// Type represents an emitted event type.
type Type string

const (
	RunStarted       Type = "RunStarted"
	AssistantMessage Type = "AssistantMessage"
	ToolCallStarted  Type = "ToolCallStarted"
	ToolCallFinished Type = "ToolCallFinished"
	ToolCallFailed   Type = "ToolCallFailed"
	RunFinished      Type = "RunFinished"
	RunError         Type = "RunError"
)

// Event is the common envelope for renderer events.
type Event struct {
	Type      Type      `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// Sink consumes events.
type Sink interface {
	Emit(Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event)

func (f SinkFunc) Emit(e Event) { f(e) }

// Fanout forwards every event to each non-nil sink in order.
func Fanout(sinks ...Sink) Sink {
	var live []Sink
	for _, s := range sinks {
		if s != nil {
			live = append(live, s)
		}
	}
	return SinkFunc(func(e Event) {
		for _, s := range live {
			s.Emit(e)
		}
	})
}

// RunStartedPayload is emitted at the beginning of a run.
type RunStartedPayload struct {
	Version     string    `json:"version"`
	ProjectRoot string    `json:"project_root"`
	Model       string    `json:"model"`
	RunID       string    `json:"run_id"`
	StartedAt   time.Time `json:"started_at"`
}

// AssistantMessagePayload carries text the model produced alongside or
// instead of tool calls.
type AssistantMessagePayload struct {
	Content string `json:"content"`
}

// ToolCallStartedPayload marks tool call start.
type ToolCallStartedPayload struct {
	ToolName  string            `json:"tool_name"`
	Input     map[string]string `json:"input"`
	StartedAt time.Time         `json:"started_at"`
}

// ToolCallFinishedPayload marks tool call end.
type ToolCallFinishedPayload struct {
	ToolName   string            `json:"tool_name"`
	Status     string            `json:"status"`
	Input      map[string]string `json:"input"`
	Output     string            `json:"output"`
	Preview    string            `json:"preview"`
	LineCount  int               `json:"line_count"`
	ByteCount  int               `json:"byte_count"`
	Truncated  bool              `json:"truncated"`
	DurationMs int64             `json:"duration_ms"`
}

// RunFinishedPayload closes the run.
type RunFinishedPayload struct {
	Status     string    `json:"status"`
	StepsUsed  int       `json:"steps_used"`
	FinishedAt time.Time `json:"finished_at"`
}

// RunErrorPayload records a run error.
type RunErrorPayload struct {
	Message string `json:"message"`
}
