package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

func newAssignmentFixture(t *testing.T) (*AssignmentService, *ticketFixture) {
	t.Helper()
	f := newTicketFixture(t)
	return NewAssignmentService(f.assignments, f.technicians, f.tickets), f
}

func TestAssignValidatesTicketAndTechnician(t *testing.T) {
	svc, f := newAssignmentFixture(t)
	ctx := context.Background()
	ticket := f.createTicket(t)

	_, err := svc.Assign(ctx, "ticket-404", f.tech.ID)
	require.True(t, apperrors.IsNotFound(err))

	_, err = svc.Assign(ctx, ticket.ID, "tech-404")
	require.True(t, apperrors.IsNotFound(err))

	assignment, err := svc.Assign(ctx, ticket.ID, f.tech.ID)
	require.NoError(t, err)
	require.True(t, assignment.Active)
	require.Equal(t, f.tech.ID, assignment.TechnicianID)
}

func TestAssignReplacesActiveAssignmentInPlace(t *testing.T) {
	svc, f := newAssignmentFixture(t)
	ctx := context.Background()
	ticket := f.createTicket(t)

	first, err := svc.Assign(ctx, ticket.ID, f.tech.ID)
	require.NoError(t, err)

	other, err := f.technicians.EnsureForUser(ctx, "user-tech-2")
	require.NoError(t, err)

	second, err := svc.Assign(ctx, ticket.ID, other.ID)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, other.ID, second.TechnicianID)

	active, err := svc.ActiveAssignment(ctx, ticket.ID)
	require.NoError(t, err)
	require.Equal(t, other.ID, active.TechnicianID)
}

func TestActiveAssignmentNilWhenUnassigned(t *testing.T) {
	svc, f := newAssignmentFixture(t)
	ticket := f.createTicket(t)

	active, err := svc.ActiveAssignment(context.Background(), ticket.ID)
	require.NoError(t, err)
	require.Nil(t, active)
}

func TestWorkloadSplitsOpenAndResolved(t *testing.T) {
	svc, f := newAssignmentFixture(t)
	ctx := context.Background()

	open := f.createTicket(t)
	_, err := svc.Assign(ctx, open.ID, f.tech.ID)
	require.NoError(t, err)

	done := f.createTicket(t)
	_, err = svc.Assign(ctx, done.ID, f.tech.ID)
	require.NoError(t, err)
	_, err = f.svc.Update(ctx, f.adminActor(), done.ID, TicketUpdateInput{StatusID: strPtr("status-resolved")})
	require.NoError(t, err)

	workload, err := svc.WorkloadByTechnician(ctx)
	require.NoError(t, err)
	require.Len(t, workload, 1)
	require.Equal(t, f.tech.ID, workload[0].TechnicianID)
	require.Equal(t, 1, workload[0].OpenTickets)
	require.Equal(t, 1, workload[0].ResolvedTickets)
}

func TestTechnicianWorkloadVisibleToAdminReport(t *testing.T) {
	_, f := newAssignmentFixture(t)

	// Deactivation removes the ticket from the technician's queue.
	ticket := f.createTicket(t)
	require.NoError(t, f.assignments.Upsert(context.Background(), &domain.Assignment{
		TicketID: ticket.ID, TechnicianID: f.tech.ID,
	}))
	require.NoError(t, f.assignments.Deactivate(context.Background(), ticket.ID))

	workload, err := f.assignments.WorkloadByTechnician(context.Background())
	require.NoError(t, err)
	require.Empty(t, workload)
}
