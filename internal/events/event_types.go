package events

import (
	"time"

	"github.com/Dcomputer22/trackdesk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated  EventType = "ticket_created"
	EventTicketUpdated  EventType = "ticket_updated"
	EventTicketDeleted  EventType = "ticket_deleted"
	EventSessionStarted EventType = "session_started"
	EventSessionEnded   EventType = "session_ended"
)

// Event represents a domain event emitted after a successful mutation.
// Presentation surfaces subscribe to drive success toasts and to refresh
// derived views such as the dashboard stats.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	TicketID string              `json:"ticket_id"`
	Title    string              `json:"title"`
	Status   domain.TicketStatus `json:"status"`
}

// TicketUpdatedPayload payload.
type TicketUpdatedPayload struct {
	TicketID  string              `json:"ticket_id"`
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// TicketDeletedPayload payload.
type TicketDeletedPayload struct {
	TicketID string `json:"ticket_id"`
}

// SessionStartedPayload payload.
type SessionStartedPayload struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// SessionEndedPayload payload.
type SessionEndedPayload struct {
	UserID string `json:"user_id"`
}
