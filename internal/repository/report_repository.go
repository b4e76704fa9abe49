package repository

import (
	"context"
	"time"
)

// GroupCount is a labelled bucket size used by the distribution reports.
type GroupCount struct {
	Label string
	Count int
}

// BacklogStats describes the open ticket queue.
type BacklogStats struct {
	OpenTickets int
	OldestOpen  *time.Time
}

// ThroughputStats compares intake against completion over a window.
type ThroughputStats struct {
	Created int
	Closed  int
}

// SLAStats covers closed tickets that had a resolution objective.
// Tickets without one never enter the denominator.
type SLAStats struct {
	Met   int
	Total int
}

// ResolutionStats aggregates time-to-close over closed tickets.
type ResolutionStats struct {
	ClosedTickets int
	AvgHours      float64
}

// SatisfactionStats aggregates submitted ratings.
type SatisfactionStats struct {
	Ratings      int
	AverageScore float64
	ResolvedPct  float64
}

// ReportRepository runs the read-only aggregate queries behind the
// operational reports.
type ReportRepository interface {
	CountByStatus(ctx context.Context) ([]GroupCount, error)
	CountByPriority(ctx context.Context) ([]GroupCount, error)
	CountByArea(ctx context.Context) ([]GroupCount, error)
	Backlog(ctx context.Context) (*BacklogStats, error)
	Throughput(ctx context.Context, from, to time.Time) (*ThroughputStats, error)
	SLACompliance(ctx context.Context) (*SLAStats, error)
	Resolution(ctx context.Context) (*ResolutionStats, error)
	Satisfaction(ctx context.Context) (*SatisfactionStats, error)
}

type reportRepository struct {
	db Querier
}

// NewReportRepository instantiates the repository.
func NewReportRepository(db Querier) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) CountByStatus(ctx context.Context) ([]GroupCount, error) {
	const query = `
        SELECT s.name, COUNT(t.id)
        FROM statuses s
        LEFT JOIN tickets t ON t.status_id = s.id
        GROUP BY s.name ORDER BY COUNT(t.id) DESC`
	return r.groupCounts(ctx, query)
}

func (r *reportRepository) CountByPriority(ctx context.Context) ([]GroupCount, error) {
	const query = `
        SELECT COALESCE(p.name, 'unset'), COUNT(t.id)
        FROM tickets t
        LEFT JOIN priorities p ON p.id = t.priority_id
        GROUP BY p.name ORDER BY COUNT(t.id) DESC`
	return r.groupCounts(ctx, query)
}

func (r *reportRepository) CountByArea(ctx context.Context) ([]GroupCount, error) {
	const query = `
        SELECT a.name, COUNT(t.id)
        FROM areas a
        LEFT JOIN tickets t ON t.area_id = a.id
        GROUP BY a.name ORDER BY COUNT(t.id) DESC`
	return r.groupCounts(ctx, query)
}

func (r *reportRepository) groupCounts(ctx context.Context, query string) ([]GroupCount, error) {
	rows, err := querierFrom(ctx, r.db).Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []GroupCount
	for rows.Next() {
		var group GroupCount
		if err := rows.Scan(&group.Label, &group.Count); err != nil {
			return nil, err
		}
		result = append(result, group)
	}
	return result, rows.Err()
}

func (r *reportRepository) Backlog(ctx context.Context) (*BacklogStats, error) {
	const query = `
        SELECT COUNT(t.id), MIN(t.created_at)
        FROM tickets t
        JOIN statuses s ON s.id = t.status_id
        WHERE NOT s.is_final`
	var stats BacklogStats
	if err := querierFrom(ctx, r.db).QueryRow(ctx, query).Scan(&stats.OpenTickets, &stats.OldestOpen); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *reportRepository) Throughput(ctx context.Context, from, to time.Time) (*ThroughputStats, error) {
	const query = `
        SELECT
            COUNT(*) FILTER (WHERE created_at >= $1 AND created_at < $2),
            COUNT(*) FILTER (WHERE closed_at IS NOT NULL AND closed_at >= $1 AND closed_at < $2)
        FROM tickets`
	var stats ThroughputStats
	if err := querierFrom(ctx, r.db).QueryRow(ctx, query, from, to).Scan(&stats.Created, &stats.Closed); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *reportRepository) SLACompliance(ctx context.Context) (*SLAStats, error) {
	const query = `
        SELECT
            COUNT(*) FILTER (WHERE t.closed_at <= t.created_at + make_interval(hours => COALESCE(t.sla_hours_objective, p.sla_hours))),
            COUNT(*)
        FROM tickets t
        LEFT JOIN priorities p ON p.id = t.priority_id
        WHERE t.closed_at IS NOT NULL
          AND COALESCE(t.sla_hours_objective, p.sla_hours) IS NOT NULL`
	var stats SLAStats
	if err := querierFrom(ctx, r.db).QueryRow(ctx, query).Scan(&stats.Met, &stats.Total); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *reportRepository) Resolution(ctx context.Context) (*ResolutionStats, error) {
	const query = `
        SELECT COUNT(*),
               COALESCE(EXTRACT(EPOCH FROM AVG(closed_at - created_at)) / 3600.0, 0)
        FROM tickets WHERE closed_at IS NOT NULL`
	var stats ResolutionStats
	if err := querierFrom(ctx, r.db).QueryRow(ctx, query).Scan(&stats.ClosedTickets, &stats.AvgHours); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *reportRepository) Satisfaction(ctx context.Context) (*SatisfactionStats, error) {
	const query = `
        SELECT COUNT(*),
               COALESCE(AVG(score), 0),
               COALESCE(100.0 * COUNT(*) FILTER (WHERE resolved) / NULLIF(COUNT(*), 0), 0)
        FROM ratings`
	var stats SatisfactionStats
	if err := querierFrom(ctx, r.db).QueryRow(ctx, query).Scan(&stats.Ratings, &stats.AverageScore, &stats.ResolvedPct); err != nil {
		return nil, err
	}
	return &stats, nil
}
