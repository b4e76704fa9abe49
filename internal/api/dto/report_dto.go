package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/service"
)

// GroupCountResponse is one bucket of a distribution report.
type GroupCountResponse struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// WorkloadResponse reports per-technician assignment counts split by
// status finality.
type WorkloadResponse struct {
	TechnicianID    string `json:"technician_id"`
	OpenTickets     int    `json:"open_tickets"`
	ResolvedTickets int    `json:"resolved_tickets"`
}

// ReportOverviewResponse is the dashboard payload.
type ReportOverviewResponse struct {
	ByStatus   []GroupCountResponse `json:"by_status"`
	ByPriority []GroupCountResponse `json:"by_priority"`
	ByArea     []GroupCountResponse `json:"by_area"`

	OpenTickets     int        `json:"open_tickets"`
	OldestOpen      *time.Time `json:"oldest_open,omitempty"`
	BacklogAgeHours float64    `json:"backlog_age_hours"`

	CreatedInWindow int `json:"created_in_window"`
	ClosedInWindow  int `json:"closed_in_window"`

	SLAPct *float64 `json:"sla_pct,omitempty"`

	ClosedTickets      int     `json:"closed_tickets"`
	AvgResolutionHours float64 `json:"avg_resolution_hours"`

	Ratings     int     `json:"ratings"`
	AvgScore    float64 `json:"avg_score"`
	ResolvedPct float64 `json:"resolved_pct"`

	Workload []WorkloadResponse `json:"workload"`
}

// NewReportOverview maps the service aggregate.
func NewReportOverview(overview *service.Overview) ReportOverviewResponse {
	resp := ReportOverviewResponse{
		ByStatus:           groupCounts(overview.ByStatus),
		ByPriority:         groupCounts(overview.ByPriority),
		ByArea:             groupCounts(overview.ByArea),
		OpenTickets:        overview.Backlog.OpenTickets,
		OldestOpen:         overview.Backlog.OldestOpen,
		BacklogAgeHours:    overview.BacklogAgeMax.Hours(),
		CreatedInWindow:    overview.Throughput.Created,
		ClosedInWindow:     overview.Throughput.Closed,
		SLAPct:             overview.SLAPct,
		ClosedTickets:      overview.Resolution.ClosedTickets,
		AvgResolutionHours: overview.Resolution.AvgHours,
		Ratings:            overview.Satisfaction.Ratings,
		AvgScore:           overview.Satisfaction.AverageScore,
		ResolvedPct:        overview.Satisfaction.ResolvedPct,
		Workload:           make([]WorkloadResponse, 0, len(overview.Workload)),
	}
	for _, load := range overview.Workload {
		resp.Workload = append(resp.Workload, WorkloadResponse{
			TechnicianID:    load.TechnicianID,
			OpenTickets:     load.OpenTickets,
			ResolvedTickets: load.ResolvedTickets,
		})
	}
	return resp
}

func groupCounts(groups []repository.GroupCount) []GroupCountResponse {
	resp := make([]GroupCountResponse, 0, len(groups))
	for _, group := range groups {
		resp = append(resp, GroupCountResponse{Label: group.Label, Count: group.Count})
	}
	return resp
}
