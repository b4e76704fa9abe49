package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// AssignmentService maintains the one-active-assignment-per-ticket
// invariant and serves the technician workload dashboard.
type AssignmentService struct {
	assignments repository.AssignmentRepository
	technicians repository.TechnicianRepository
	tickets     repository.TicketRepository
}

// NewAssignmentService builds the service.
func NewAssignmentService(assignments repository.AssignmentRepository, technicians repository.TechnicianRepository, tickets repository.TicketRepository) *AssignmentService {
	return &AssignmentService{assignments: assignments, technicians: technicians, tickets: tickets}
}

// Assign links the technician to the ticket, replacing any previous
// active assignment in place. Reassigning the same technician is a no-op
// rather than an error.
func (s *AssignmentService) Assign(ctx context.Context, ticketID, technicianID string) (*domain.Assignment, error) {
	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("ticket", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if _, err := s.technicians.GetByID(ctx, technicianID); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("technician", nil)
		}
		return nil, apperrors.MapError(err)
	}

	assignment := &domain.Assignment{TicketID: ticketID, TechnicianID: technicianID}
	if err := s.assignments.Upsert(ctx, assignment); err != nil {
		return nil, apperrors.MapError(err)
	}
	return assignment, nil
}

// ActiveAssignment returns the ticket's active assignment, or nil when
// the ticket is unassigned.
func (s *AssignmentService) ActiveAssignment(ctx context.Context, ticketID string) (*domain.Assignment, error) {
	assignment, err := s.assignments.GetActiveByTicket(ctx, ticketID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, apperrors.MapError(err)
	}
	return assignment, nil
}

// WorkloadByTechnician reports open ticket counts per technician.
func (s *AssignmentService) WorkloadByTechnician(ctx context.Context) ([]repository.TechnicianWorkload, error) {
	workload, err := s.assignments.WorkloadByTechnician(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return workload, nil
}
