package domain

import "time"

// EventKind names the creations the core announces to the real-time layer.
type EventKind string

const (
	EventNewThread       EventKind = "newThread"
	EventNewAnswer       EventKind = "newAnswer"
	EventNewNotification EventKind = "newNotification"
)

// Event is a one-shot push to subscribers. Delivery is at-most-once from the
// core's point of view; the transport owns reliability.
type Event struct {
	Id        string    `json:"id"`
	Kind      EventKind `json:"kind"`
	Payload   any       `json:"payload"`
	CreatedAt time.Time `json:"created_at"`
}

// Notification is the payload for EventNewNotification: someone answered
// directly to a user's message.
type Notification struct {
	Recipient UserId   `json:"recipient"`
	Thread    ThreadId `json:"thread"`
	Answer    AnswerId `json:"answer"`
	Author    UserId   `json:"author"`
}
