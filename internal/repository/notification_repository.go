package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// NotificationRepository persists the per-user portal inbox.
type NotificationRepository interface {
	Create(ctx context.Context, notification *domain.Notification) error
	ListByRecipient(ctx context.Context, recipientID string, limit, offset int) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id, recipientID string) error
	MarkAllRead(ctx context.Context, recipientID string) error
	DeleteAllByRecipient(ctx context.Context, recipientID string) error
	CountUnread(ctx context.Context, recipientID string) (int, error)
}

type notificationRepository struct {
	db Querier
}

// NewNotificationRepository instantiates the repository.
func NewNotificationRepository(db Querier) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	const query = `
        INSERT INTO notifications (recipient_id, ticket_id, kind, title, message, channel, read_flag)
        VALUES ($1,$2,$3,$4,$5,$6,FALSE)
        RETURNING id, sent_at`
	return querierFrom(ctx, r.db).QueryRow(ctx, query,
		notification.RecipientID,
		notification.TicketID,
		notification.Type,
		notification.Title,
		notification.Message,
		notification.Channel,
	).Scan(&notification.ID, &notification.SentAt)
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientID string, limit, offset int) ([]domain.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT id, recipient_id, ticket_id, kind, title, message, channel, read_flag, sent_at
        FROM notifications WHERE recipient_id=$1
        ORDER BY sent_at DESC LIMIT $2 OFFSET $3`
	rows, err := querierFrom(ctx, r.db).Query(ctx, query, recipientID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Notification
	for rows.Next() {
		var notification domain.Notification
		if err := rows.Scan(
			&notification.ID,
			&notification.RecipientID,
			&notification.TicketID,
			&notification.Type,
			&notification.Title,
			&notification.Message,
			&notification.Channel,
			&notification.Read,
			&notification.SentAt,
		); err != nil {
			return nil, err
		}
		result = append(result, notification)
	}
	return result, rows.Err()
}

// MarkRead is scoped by recipient so a user can only touch their own rows.
func (r *notificationRepository) MarkRead(ctx context.Context, id, recipientID string) error {
	const query = `UPDATE notifications SET read_flag=TRUE WHERE id=$1 AND recipient_id=$2`
	cmd, err := querierFrom(ctx, r.db).Exec(ctx, query, id, recipientID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, recipientID string) error {
	const query = `UPDATE notifications SET read_flag=TRUE WHERE recipient_id=$1 AND NOT read_flag`
	_, err := querierFrom(ctx, r.db).Exec(ctx, query, recipientID)
	return err
}

func (r *notificationRepository) DeleteAllByRecipient(ctx context.Context, recipientID string) error {
	const query = `DELETE FROM notifications WHERE recipient_id=$1`
	_, err := querierFrom(ctx, r.db).Exec(ctx, query, recipientID)
	return err
}

func (r *notificationRepository) CountUnread(ctx context.Context, recipientID string) (int, error) {
	const query = `SELECT COUNT(*) FROM notifications WHERE recipient_id=$1 AND NOT read_flag`
	var count int
	if err := querierFrom(ctx, r.db).QueryRow(ctx, query, recipientID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
