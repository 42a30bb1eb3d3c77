package audit

import (
	"context"
	"encoding/json"

	"autopilot/internal/events"

	"go.uber.org/zap"
)

// Recorder writes finished and failed tool calls to a Store.
type Recorder struct {
	store  *Store
	runID  string
	logger *zap.Logger
}

// NewRecorder returns a sink recording tool calls under runID.
func NewRecorder(store *Store, runID string, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{store: store, runID: runID, logger: logger}
}

// Emit implements events.Sink. A RunStarted event switches the run id.
func (r *Recorder) Emit(event events.Event) {
	switch payload := event.Payload.(type) {
	case events.RunStartedPayload:
		r.runID = payload.RunID
	case events.ToolCallFinishedPayload:
		args := []byte("{}")
		if len(payload.Input) > 0 {
			if encoded, err := json.Marshal(payload.Input); err == nil {
				args = encoded
			}
		}
		entry := Entry{
			RunID:      r.runID,
			Tool:       payload.ToolName,
			Args:       string(args),
			Result:     payload.Output,
			DurationMs: payload.DurationMs,
			CreatedAt:  event.Timestamp,
		}
		if err := r.store.Record(context.Background(), entry); err != nil {
			r.logger.Warn("failed to record tool call", zap.String("tool", payload.ToolName), zap.Error(err))
		}
	}
}
