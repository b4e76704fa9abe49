package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// RatingRepository persists satisfaction ratings. The ratings table
// carries a unique constraint on ticket_id, so a ticket holds at most
// one rating and concurrent writers race on the insert.
type RatingRepository interface {
	Create(ctx context.Context, rating *domain.Rating) error
	GetByTicket(ctx context.Context, ticketID string) (*domain.Rating, error)
}

type ratingRepository struct {
	db Querier
}

// NewRatingRepository instantiates the repository.
func NewRatingRepository(db Querier) RatingRepository {
	return &ratingRepository{db: db}
}

func (r *ratingRepository) Create(ctx context.Context, rating *domain.Rating) error {
	const query = `
        INSERT INTO ratings (ticket_id, author_id, score, resolved, comment)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return querierFrom(ctx, r.db).QueryRow(ctx, query,
		rating.TicketID,
		rating.AuthorID,
		rating.Score,
		rating.Resolved,
		rating.Comment,
	).Scan(&rating.ID, &rating.CreatedAt)
}

func (r *ratingRepository) GetByTicket(ctx context.Context, ticketID string) (*domain.Rating, error) {
	const query = `
        SELECT id, ticket_id, author_id, score, resolved, comment, created_at
        FROM ratings WHERE ticket_id=$1`
	var rating domain.Rating
	if err := querierFrom(ctx, r.db).QueryRow(ctx, query, ticketID).Scan(
		&rating.ID,
		&rating.TicketID,
		&rating.AuthorID,
		&rating.Score,
		&rating.Resolved,
		&rating.Comment,
		&rating.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &rating, nil
}

// IsUniqueViolation reports whether err is a Postgres unique constraint
// violation (SQLSTATE 23505).
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
