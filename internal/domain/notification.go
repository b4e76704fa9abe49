package domain

import "time"

// NotificationType tags what a notification is about.
type NotificationType string

const (
	NotificationTicketCreated  NotificationType = "creation"
	NotificationTicketAssigned NotificationType = "assignment"
	NotificationStatusChanged  NotificationType = "status_change"
	NotificationCommentAdded   NotificationType = "comment"
	NotificationPasswordReset  NotificationType = "password_reset"
)

// DefaultNotificationChannel is used when no channel is specified.
const DefaultNotificationChannel = "portal"

// Notification is a portal message for a single recipient. Its read/delete
// lifecycle is owned entirely by that recipient.
type Notification struct {
	ID          string
	RecipientID string
	TicketID    *string
	Type        NotificationType
	Title       string
	Message     string
	Channel     string
	Read        bool
	SentAt      time.Time
}
