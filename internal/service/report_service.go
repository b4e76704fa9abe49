package service

import (
	"context"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// ReportService computes the operational dashboard figures. Read-only.
type ReportService struct {
	reports     repository.ReportRepository
	assignments *AssignmentService
}

// NewReportService builds the service.
func NewReportService(reports repository.ReportRepository, assignments *AssignmentService) *ReportService {
	return &ReportService{reports: reports, assignments: assignments}
}

// Overview is the aggregate dashboard payload.
type Overview struct {
	ByStatus   []repository.GroupCount
	ByPriority []repository.GroupCount
	ByArea     []repository.GroupCount

	Backlog       repository.BacklogStats
	BacklogAgeMax time.Duration

	Throughput repository.ThroughputStats

	// SLAPct is the share of closed SLA-bearing tickets that met their
	// deadline. Tickets without a resolution objective are excluded
	// from the denominator. Nil when nothing qualifies.
	SLAPct *float64

	Resolution repository.ResolutionStats

	Satisfaction repository.SatisfactionStats

	Workload []repository.TechnicianWorkload
}

// Overview assembles the full dashboard for administrators.
func (s *ReportService) Overview(ctx context.Context, actor *domain.User, from, to time.Time) (*Overview, error) {
	if !actor.Role.Can(domain.CapViewReports) {
		return nil, apperrors.NewPermissionDenied("only administrators may view reports")
	}
	if to.IsZero() {
		to = time.Now()
	}
	if from.IsZero() {
		from = to.AddDate(0, -1, 0)
	}

	var (
		overview Overview
		err      error
	)
	if overview.ByStatus, err = s.reports.CountByStatus(ctx); err != nil {
		return nil, apperrors.MapError(err)
	}
	if overview.ByPriority, err = s.reports.CountByPriority(ctx); err != nil {
		return nil, apperrors.MapError(err)
	}
	if overview.ByArea, err = s.reports.CountByArea(ctx); err != nil {
		return nil, apperrors.MapError(err)
	}

	backlog, err := s.reports.Backlog(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	overview.Backlog = *backlog
	if backlog.OldestOpen != nil {
		overview.BacklogAgeMax = time.Since(*backlog.OldestOpen)
	}

	throughput, err := s.reports.Throughput(ctx, from, to)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	overview.Throughput = *throughput

	slaStats, err := s.reports.SLACompliance(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if slaStats.Total > 0 {
		pct := 100.0 * float64(slaStats.Met) / float64(slaStats.Total)
		overview.SLAPct = &pct
	}

	resolution, err := s.reports.Resolution(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	overview.Resolution = *resolution

	satisfaction, err := s.reports.Satisfaction(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	overview.Satisfaction = *satisfaction

	if overview.Workload, err = s.assignments.WorkloadByTechnician(ctx); err != nil {
		return nil, apperrors.MapError(err)
	}
	return &overview, nil
}
