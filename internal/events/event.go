package events

import "time"

// Event is the envelope every topic carries.
type Event struct {
	Type       string         `json:"type"`
	OccurredAt time.Time      `json:"occurredAt"`
	Data       map[string]any `json:"data"`
}

func New(eventType string, data map[string]any) Event {
	return Event{Type: eventType, OccurredAt: time.Now().UTC(), Data: data}
}
