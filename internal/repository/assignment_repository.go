package repository

import (
	"context"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// TechnicianWorkload splits a technician's actively assigned tickets by
// status finality.
type TechnicianWorkload struct {
	TechnicianID    string
	OpenTickets     int
	ResolvedTickets int
}

// AssignmentRepository persists the ticket-to-technician link. A ticket
// holds at most one active assignment; Upsert replaces the previous one
// in place rather than stacking rows.
type AssignmentRepository interface {
	Upsert(ctx context.Context, assignment *domain.Assignment) error
	GetActiveByTicket(ctx context.Context, ticketID string) (*domain.Assignment, error)
	ListActiveByTechnician(ctx context.Context, technicianID string) ([]domain.Assignment, error)
	Deactivate(ctx context.Context, ticketID string) error
	WorkloadByTechnician(ctx context.Context) ([]TechnicianWorkload, error)
}

type assignmentRepository struct {
	db Querier
}

// NewAssignmentRepository instantiates the repository.
func NewAssignmentRepository(db Querier) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) Upsert(ctx context.Context, assignment *domain.Assignment) error {
	// Relies on the partial unique index on assignments(ticket_id) WHERE active.
	const query = `
        INSERT INTO assignments (ticket_id, technician_id, active)
        VALUES ($1,$2,TRUE)
        ON CONFLICT (ticket_id) WHERE active
        DO UPDATE SET technician_id = EXCLUDED.technician_id, assigned_at = NOW()
        RETURNING id, active, assigned_at`
	return querierFrom(ctx, r.db).QueryRow(ctx, query,
		assignment.TicketID,
		assignment.TechnicianID,
	).Scan(&assignment.ID, &assignment.Active, &assignment.AssignedAt)
}

func (r *assignmentRepository) GetActiveByTicket(ctx context.Context, ticketID string) (*domain.Assignment, error) {
	const query = `
        SELECT id, ticket_id, technician_id, active, assigned_at
        FROM assignments WHERE ticket_id=$1 AND active`
	var assignment domain.Assignment
	if err := querierFrom(ctx, r.db).QueryRow(ctx, query, ticketID).Scan(
		&assignment.ID,
		&assignment.TicketID,
		&assignment.TechnicianID,
		&assignment.Active,
		&assignment.AssignedAt,
	); err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepository) ListActiveByTechnician(ctx context.Context, technicianID string) ([]domain.Assignment, error) {
	const query = `
        SELECT id, ticket_id, technician_id, active, assigned_at
        FROM assignments WHERE technician_id=$1 AND active ORDER BY assigned_at DESC`
	rows, err := querierFrom(ctx, r.db).Query(ctx, query, technicianID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Assignment
	for rows.Next() {
		var assignment domain.Assignment
		if err := rows.Scan(
			&assignment.ID,
			&assignment.TicketID,
			&assignment.TechnicianID,
			&assignment.Active,
			&assignment.AssignedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, assignment)
	}
	return result, rows.Err()
}

func (r *assignmentRepository) Deactivate(ctx context.Context, ticketID string) error {
	const query = `UPDATE assignments SET active=FALSE WHERE ticket_id=$1 AND active`
	_, err := querierFrom(ctx, r.db).Exec(ctx, query, ticketID)
	return err
}

func (r *assignmentRepository) WorkloadByTechnician(ctx context.Context) ([]TechnicianWorkload, error) {
	const query = `
        SELECT a.technician_id,
               COUNT(*) FILTER (WHERE NOT s.is_final),
               COUNT(*) FILTER (WHERE s.is_final)
        FROM assignments a
        JOIN tickets t ON t.id = a.ticket_id
        JOIN statuses s ON s.id = t.status_id
        WHERE a.active
        GROUP BY a.technician_id
        ORDER BY COUNT(*) FILTER (WHERE NOT s.is_final) DESC`
	rows, err := querierFrom(ctx, r.db).Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []TechnicianWorkload
	for rows.Next() {
		var load TechnicianWorkload
		if err := rows.Scan(&load.TechnicianID, &load.OpenTickets, &load.ResolvedTickets); err != nil {
			return nil, err
		}
		result = append(result, load)
	}
	return result, rows.Err()
}
