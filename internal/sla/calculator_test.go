package sla

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func hoursPtr(v int) *int { return &v }

func timePtr(t time.Time) *time.Time { return &t }

func TestEvaluateNoSLAConfigured(t *testing.T) {
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	result := Evaluate(Input{
		CreatedAt: created,
		Now:       created.Add(48 * time.Hour),
	})

	require.Equal(t, StatusNoSLA, result.Status)
	require.Nil(t, result.Deadline)
	require.Nil(t, result.Compliant)
}

func TestEvaluateOpenTicketProgression(t *testing.T) {
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		elapsed time.Duration
		want    ComplianceStatus
	}{
		{"well within window", 10 * time.Hour, StatusOnTrack},
		{"exactly at threshold", 18 * time.Hour, StatusAtRisk},
		{"one hour remaining", 23 * time.Hour, StatusAtRisk},
		{"past deadline", 25 * time.Hour, StatusOverdue},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := Evaluate(Input{
				CreatedAt:     created,
				PriorityHours: hoursPtr(24),
				Now:           created.Add(tc.elapsed),
			})
			require.Equal(t, tc.want, result.Status)
			require.NotNil(t, result.Deadline)
			require.Equal(t, created.Add(24*time.Hour), *result.Deadline)
		})
	}
}

func TestEvaluateOpenComplianceProjection(t *testing.T) {
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	onTrack := Evaluate(Input{CreatedAt: created, PriorityHours: hoursPtr(24), Now: created.Add(time.Hour)})
	require.Nil(t, onTrack.Compliant)

	overdue := Evaluate(Input{CreatedAt: created, PriorityHours: hoursPtr(24), Now: created.Add(30 * time.Hour)})
	require.NotNil(t, overdue.Compliant)
	require.False(t, *overdue.Compliant)
}

func TestEvaluateClosedWithinSLA(t *testing.T) {
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	result := Evaluate(Input{
		CreatedAt:     created,
		PriorityHours: hoursPtr(24),
		IsFinal:       true,
		ClosedAt:      timePtr(created.Add(20 * time.Hour)),
		Now:           created.Add(100 * time.Hour),
	})

	require.Equal(t, StatusMet, result.Status)
	require.NotNil(t, result.Compliant)
	require.True(t, *result.Compliant)
}

func TestEvaluateClosedPastSLA(t *testing.T) {
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	result := Evaluate(Input{
		CreatedAt:     created,
		PriorityHours: hoursPtr(24),
		IsFinal:       true,
		ClosedAt:      timePtr(created.Add(30 * time.Hour)),
		Now:           created.Add(31 * time.Hour),
	})

	require.Equal(t, StatusMissedClosed, result.Status)
	require.NotNil(t, result.Compliant)
	require.False(t, *result.Compliant)
}

func TestEvaluateOverrideTakesPrecedence(t *testing.T) {
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	result := Evaluate(Input{
		CreatedAt:     created,
		PriorityHours: hoursPtr(24),
		OverrideHours: hoursPtr(8),
		Now:           created.Add(10 * time.Hour),
	})

	require.Equal(t, StatusOverdue, result.Status)
	require.Equal(t, created.Add(8*time.Hour), *result.Deadline)
}

func TestEvaluateClosedAtExactlyDeadlineIsMet(t *testing.T) {
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	deadline := created.Add(24 * time.Hour)

	result := Evaluate(Input{
		CreatedAt:     created,
		PriorityHours: hoursPtr(24),
		IsFinal:       true,
		ClosedAt:      timePtr(deadline),
		Now:           deadline.Add(time.Hour),
	})

	require.Equal(t, StatusMet, result.Status)
}

func TestEvaluateCustomThreshold(t *testing.T) {
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	in := Input{
		CreatedAt:     created,
		PriorityHours: hoursPtr(10),
		Now:           created.Add(6 * time.Hour),
	}

	// 40% remaining: at risk only when the threshold is raised.
	require.Equal(t, StatusOnTrack, EvaluateWithThreshold(in, 0.25).Status)
	require.Equal(t, StatusAtRisk, EvaluateWithThreshold(in, 0.5).Status)
}
