package render

import "autopilot/internal/events"

// Renderer emits events to an output target.
type Renderer interface {
	events.Sink
	Close() error
}
