package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

const unreadCacheKeyPrefix = "notif:unread:"

// NotificationService turns domain events into per-user portal
// notifications and owns the recipient-side inbox lifecycle. Handler
// failures are logged and absorbed; a lost notification never fails the
// mutation that triggered it.
type NotificationService struct {
	dispatcher    events.Dispatcher
	notifications repository.NotificationRepository
	users         repository.UserRepository
	technicians   repository.TechnicianRepository
	assignments   repository.AssignmentRepository
	cache         *redis.Client
	logger        *zap.Logger
	cfg           config.NotificationConfig
}

// NotificationDependencies bundles collaborators for the service.
type NotificationDependencies struct {
	Dispatcher       events.Dispatcher
	NotificationRepo repository.NotificationRepository
	UserRepo         repository.UserRepository
	TechnicianRepo   repository.TechnicianRepository
	AssignmentRepo   repository.AssignmentRepository
	Cache            *redis.Client
	Logger           *zap.Logger
	Config           config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(deps NotificationDependencies) *NotificationService {
	return &NotificationService{
		dispatcher:    deps.Dispatcher,
		notifications: deps.NotificationRepo,
		users:         deps.UserRepo,
		technicians:   deps.TechnicianRepo,
		assignments:   deps.AssignmentRepo,
		cache:         deps.Cache,
		logger:        deps.Logger,
		cfg:           deps.Config,
	}
}

// RegisterHandlers subscribes to the domain events that fan out to users.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	n.dispatcher.Subscribe(events.EventTicketStatusChanged, n.handleTicketStatusChanged)
	n.dispatcher.Subscribe(events.EventTicketAssigned, n.handleTicketAssigned)
	n.dispatcher.Subscribe(events.EventTicketCommentAdded, n.handleTicketCommentAdded)
	n.dispatcher.Subscribe(events.EventPasswordResetRequested, n.handlePasswordResetRequested)
}

// New tickets are announced to every administrator.
func (n *NotificationService) handleTicketCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketCreatedPayload)
	if !ok {
		return nil
	}
	n.notifyAdmins(ctx, &event.TicketID, domain.NotificationTicketCreated,
		"New ticket",
		fmt.Sprintf("Ticket %q was opened by %s.", payload.Title, payload.RequesterEmail))
	return nil
}

// Status changes always go to the requester, even when the new status
// equals the old one.
func (n *NotificationService) handleTicketStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketStatusChangedPayload)
	if !ok {
		return nil
	}
	message := "Your ticket was updated."
	if payload.NewStatusName != "" {
		message = fmt.Sprintf("Your ticket moved to %q.", payload.NewStatusName)
	}
	n.persist(ctx, &domain.Notification{
		RecipientID: payload.RequesterID,
		TicketID:    &event.TicketID,
		Type:        domain.NotificationStatusChanged,
		Title:       "Ticket updated",
		Message:     message,
		Channel:     n.channel(),
	})
	return nil
}

func (n *NotificationService) handleTicketAssigned(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketAssignedPayload)
	if !ok {
		return nil
	}
	n.persist(ctx, &domain.Notification{
		RecipientID: payload.TechnicianUserID,
		TicketID:    &event.TicketID,
		Type:        domain.NotificationTicketAssigned,
		Title:       "Ticket assigned to you",
		Message:     fmt.Sprintf("You were assigned ticket %q.", payload.Title),
		Channel:     n.channel(),
	})
	return nil
}

// Comments notify the other party: the requester when staff commented,
// the active assignee when the requester commented. The author is never
// notified.
func (n *NotificationService) handleTicketCommentAdded(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketCommentAddedPayload)
	if !ok {
		return nil
	}

	recipientID := payload.RequesterID
	if payload.AuthorRole == domain.RoleRequester {
		assignment, err := n.assignments.GetActiveByTicket(ctx, event.TicketID)
		if err != nil {
			n.logger.Warn("comment notification skipped, no active assignee",
				zap.String("ticket_id", event.TicketID), zap.Error(err))
			return nil
		}
		technician, err := n.technicians.GetByID(ctx, assignment.TechnicianID)
		if err != nil {
			n.logger.Warn("comment notification skipped, technician lookup failed",
				zap.String("ticket_id", event.TicketID), zap.Error(err))
			return nil
		}
		recipientID = technician.UserID
	}
	if recipientID == payload.AuthorID {
		return nil
	}

	n.persist(ctx, &domain.Notification{
		RecipientID: recipientID,
		TicketID:    &event.TicketID,
		Type:        domain.NotificationCommentAdded,
		Title:       "New comment",
		Message:     fmt.Sprintf("%s commented: %s", payload.AuthorName, payload.TextPreview),
		Channel:     n.channel(),
	})
	return nil
}

// Password reset requests are routed to every administrator for manual
// handling.
func (n *NotificationService) handlePasswordResetRequested(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.PasswordResetRequestedPayload)
	if !ok {
		return nil
	}
	n.notifyAdmins(ctx, nil, domain.NotificationPasswordReset,
		"Password reset requested",
		fmt.Sprintf("%s (%s) requested a password reset.", payload.UserName, payload.UserEmail))
	return nil
}

// ListForRecipient returns the recipient's inbox, newest first.
func (n *NotificationService) ListForRecipient(ctx context.Context, recipientID string, limit, offset int) ([]domain.Notification, error) {
	list, err := n.notifications.ListByRecipient(ctx, recipientID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// MarkRead marks a single notification read.
func (n *NotificationService) MarkRead(ctx context.Context, recipientID, notificationID string) error {
	if err := n.notifications.MarkRead(ctx, notificationID, recipientID); err != nil {
		return apperrors.MapError(err)
	}
	n.invalidateUnread(ctx, recipientID)
	return nil
}

// MarkAllRead marks every unread notification of the recipient read.
func (n *NotificationService) MarkAllRead(ctx context.Context, recipientID string) error {
	if err := n.notifications.MarkAllRead(ctx, recipientID); err != nil {
		return apperrors.MapError(err)
	}
	n.invalidateUnread(ctx, recipientID)
	return nil
}

// DeleteAll clears the recipient's inbox.
func (n *NotificationService) DeleteAll(ctx context.Context, recipientID string) error {
	if err := n.notifications.DeleteAllByRecipient(ctx, recipientID); err != nil {
		return apperrors.MapError(err)
	}
	n.invalidateUnread(ctx, recipientID)
	return nil
}

// UnreadCount returns the unread badge count, served from Redis when a
// fresh value is cached.
func (n *NotificationService) UnreadCount(ctx context.Context, recipientID string) (int, error) {
	key := unreadCacheKey(recipientID)
	if n.cache != nil {
		if cached, err := n.cache.Get(ctx, key).Result(); err == nil {
			if count, convErr := strconv.Atoi(cached); convErr == nil {
				return count, nil
			}
		}
	}

	count, err := n.notifications.CountUnread(ctx, recipientID)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	if n.cache != nil {
		if err := n.cache.Set(ctx, key, strconv.Itoa(count), n.cfg.UnreadCacheTTL).Err(); err != nil {
			n.logger.Debug("unread cache write failed", zap.Error(err))
		}
	}
	return count, nil
}

func (n *NotificationService) notifyAdmins(ctx context.Context, ticketID *string, kind domain.NotificationType, title, message string) {
	admins, err := n.users.ListByRole(ctx, domain.RoleAdmin)
	if err != nil {
		n.logger.Error("admin fan-out failed", zap.Error(err))
		return
	}
	for _, admin := range admins {
		n.persist(ctx, &domain.Notification{
			RecipientID: admin.ID,
			TicketID:    ticketID,
			Type:        kind,
			Title:       title,
			Message:     message,
			Channel:     n.channel(),
		})
	}
}

func (n *NotificationService) persist(ctx context.Context, notification *domain.Notification) {
	if err := n.notifications.Create(ctx, notification); err != nil {
		n.logger.Error("notification write failed",
			zap.String("recipient_id", notification.RecipientID),
			zap.String("type", string(notification.Type)),
			zap.Error(err))
		return
	}
	n.invalidateUnread(ctx, notification.RecipientID)
}

func (n *NotificationService) invalidateUnread(ctx context.Context, recipientID string) {
	if n.cache == nil {
		return
	}
	if err := n.cache.Del(ctx, unreadCacheKey(recipientID)).Err(); err != nil {
		n.logger.Debug("unread cache invalidation failed", zap.Error(err))
	}
}

func (n *NotificationService) channel() string {
	if n.cfg.Channel != "" {
		return n.cfg.Channel
	}
	return domain.DefaultNotificationChannel
}

func unreadCacheKey(recipientID string) string {
	return unreadCacheKeyPrefix + recipientID
}
