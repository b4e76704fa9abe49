package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

type stubReportRepo struct {
	sla        repository.SLAStats
	oldestOpen *time.Time
}

func (s *stubReportRepo) CountByStatus(context.Context) ([]repository.GroupCount, error) {
	return []repository.GroupCount{{Label: "Open", Count: 3}, {Label: "Resolved", Count: 5}}, nil
}

func (s *stubReportRepo) CountByPriority(context.Context) ([]repository.GroupCount, error) {
	return []repository.GroupCount{{Label: "High", Count: 2}}, nil
}

func (s *stubReportRepo) CountByArea(context.Context) ([]repository.GroupCount, error) {
	return []repository.GroupCount{{Label: "IT", Count: 8}}, nil
}

func (s *stubReportRepo) Backlog(context.Context) (*repository.BacklogStats, error) {
	return &repository.BacklogStats{OpenTickets: 3, OldestOpen: s.oldestOpen}, nil
}

func (s *stubReportRepo) Throughput(context.Context, time.Time, time.Time) (*repository.ThroughputStats, error) {
	return &repository.ThroughputStats{Created: 10, Closed: 7}, nil
}

func (s *stubReportRepo) SLACompliance(context.Context) (*repository.SLAStats, error) {
	stats := s.sla
	return &stats, nil
}

func (s *stubReportRepo) Resolution(context.Context) (*repository.ResolutionStats, error) {
	return &repository.ResolutionStats{ClosedTickets: 5, AvgHours: 12.5}, nil
}

func (s *stubReportRepo) Satisfaction(context.Context) (*repository.SatisfactionStats, error) {
	return &repository.SatisfactionStats{Ratings: 4, AverageScore: 4.25, ResolvedPct: 75}, nil
}

func TestOverviewAdminOnly(t *testing.T) {
	svc := NewReportService(&stubReportRepo{}, newFakeAssignmentService(newMemAssignmentRepo()))
	requester := &domain.User{ID: "req-1", Role: domain.RoleRequester}

	_, err := svc.Overview(context.Background(), requester, time.Time{}, time.Time{})
	require.True(t, apperrors.IsPermissionDenied(err))
}

func TestOverviewAssemblesDashboard(t *testing.T) {
	oldest := time.Now().Add(-48 * time.Hour)
	reports := &stubReportRepo{sla: repository.SLAStats{Met: 3, Total: 4}, oldestOpen: &oldest}
	assignments := newMemAssignmentRepo()
	require.NoError(t, assignments.Upsert(context.Background(), &domain.Assignment{
		TicketID: "ticket-1", TechnicianID: "tech-1",
	}))

	svc := NewReportService(reports, newFakeAssignmentService(assignments))
	admin := &domain.User{ID: "admin-1", Role: domain.RoleAdmin}

	overview, err := svc.Overview(context.Background(), admin, time.Time{}, time.Time{})
	require.NoError(t, err)

	require.Len(t, overview.ByStatus, 2)
	require.Equal(t, 3, overview.Backlog.OpenTickets)
	require.InDelta(t, 48*time.Hour, overview.BacklogAgeMax, float64(time.Minute))
	require.Equal(t, 10, overview.Throughput.Created)
	require.NotNil(t, overview.SLAPct)
	require.InDelta(t, 75.0, *overview.SLAPct, 0.001)
	require.Equal(t, 5, overview.Resolution.ClosedTickets)
	require.Equal(t, 4, overview.Satisfaction.Ratings)
	require.Len(t, overview.Workload, 1)
}

func TestOverviewSLAPctNilWithoutQualifyingTickets(t *testing.T) {
	svc := NewReportService(&stubReportRepo{}, newFakeAssignmentService(newMemAssignmentRepo()))
	admin := &domain.User{ID: "admin-1", Role: domain.RoleAdmin}

	overview, err := svc.Overview(context.Background(), admin, time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Nil(t, overview.SLAPct)
	require.Zero(t, overview.BacklogAgeMax)
}
