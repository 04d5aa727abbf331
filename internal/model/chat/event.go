package chat

import "time"

// EventType names a conversation change pushed to subscribers.
type EventType string

const (
	EventMessage EventType = "message"
	EventTyping  EventType = "typing"
	EventCanvas  EventType = "canvas"
	EventError   EventType = "error"
	EventClosed  EventType = "closed"
)

// Event is published on every state change of a session.
type Event struct {
	Type      EventType `json:"type"`
	SessionID string    `json:"sessionId"`
	Message   *Message  `json:"message,omitempty"`
	Typing    bool      `json:"typing,omitempty"`
	Canvas    *Canvas   `json:"canvas,omitempty"`
	Error     string    `json:"error,omitempty"`
	Time      time.Time `json:"time"`
}
