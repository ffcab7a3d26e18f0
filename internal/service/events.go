package service

import "github.com/google/uuid"

// Session event types pushed to connected clients.
const (
	EventSceneChanged     = "scene_changed"
	EventDialogAdvanced   = "dialog_advanced"
	EventSubDialogOpened  = "subdialog_opened"
	EventChoiceSelected   = "choice_selected"
	EventQuizSubmitted    = "quiz_submitted"
	EventSubDialogClosed  = "subdialog_closed"
	EventSessionEnded     = "session_ended"
	EventDisplayUpdated   = "display_updated"
	EventInteractionInert = "interaction_inert"
)

// SessionEvent is a notification about one play session, delivered to
// whoever is watching it (the WebSocket hub in practice).
type SessionEvent struct {
	SessionID uuid.UUID   `json:"sessionId"`
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
}

// EventPublisher delivers session events. Implementations must not block
// the caller; dropping events for slow consumers is acceptable.
type EventPublisher interface {
	PublishSessionEvent(event SessionEvent)
}

// NopEventPublisher discards all events.
type NopEventPublisher struct{}

func (NopEventPublisher) PublishSessionEvent(SessionEvent) {}
