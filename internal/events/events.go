// Package events publishes diagram lifecycle events.
package events

import "time"

// Event names.
const (
	Generated = "diagram.generated"
	Rendered  = "diagram.rendered"
	Failed    = "diagram.render_failed"
)

// Event represents a diagram lifecycle event.
// Minimal and stable: name + session key and optional fields via key/values.
type Event struct {
	Name      string         `json:"name"`
	SessionID string         `json:"session_id"`
	Time      time.Time      `json:"time"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// Publisher receives events. Implementations should be lightweight and
// non-blocking; Publish must not panic.
type Publisher interface {
	Publish(Event)
}

// Noop is the default; it drops events.
type Noop struct{}

func (Noop) Publish(Event) {}
