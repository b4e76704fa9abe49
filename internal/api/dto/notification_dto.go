package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// NotificationResponse response.
type NotificationResponse struct {
	ID       string                  `json:"id"`
	TicketID *string                 `json:"ticket_id,omitempty"`
	Type     domain.NotificationType `json:"type"`
	Title    string                  `json:"title"`
	Message  string                  `json:"message"`
	Channel  string                  `json:"channel"`
	Read     bool                    `json:"read"`
	SentAt   time.Time               `json:"sent_at"`
}

// UnreadCountResponse response.
type UnreadCountResponse struct {
	Unread int `json:"unread"`
}

// NewNotificationResponse maps a domain notification.
func NewNotificationResponse(notification *domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:       notification.ID,
		TicketID: notification.TicketID,
		Type:     notification.Type,
		Title:    notification.Title,
		Message:  notification.Message,
		Channel:  notification.Channel,
		Read:     notification.Read,
		SentAt:   notification.SentAt,
	}
}
