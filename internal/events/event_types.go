package events

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated          EventType = "ticket_created"
	EventTicketStatusChanged    EventType = "ticket_status_changed"
	EventTicketAssigned         EventType = "ticket_assigned"
	EventTicketCommentAdded     EventType = "ticket_comment_added"
	EventPasswordResetRequested EventType = "password_reset_requested"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id,omitempty"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Title          string `json:"title"`
	RequesterID    string `json:"requester_id"`
	RequesterEmail string `json:"requester_email"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	RequesterID   string  `json:"requester_id"`
	OldStatusID   *string `json:"old_status_id,omitempty"`
	NewStatusID   string  `json:"new_status_id"`
	NewStatusName string  `json:"new_status_name"`
	Comment       string  `json:"comment,omitempty"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	TechnicianID     string `json:"technician_id"`
	TechnicianUserID string `json:"technician_user_id"`
	Title            string `json:"title"`
}

// TicketCommentAddedPayload payload.
type TicketCommentAddedPayload struct {
	CommentID   string      `json:"comment_id"`
	AuthorID    string      `json:"author_id"`
	AuthorName  string      `json:"author_name"`
	AuthorRole  domain.Role `json:"author_role"`
	RequesterID string      `json:"requester_id"`
	TextPreview string      `json:"text_preview"`
}

// PasswordResetRequestedPayload payload.
type PasswordResetRequestedPayload struct {
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
}
