// Package sla derives deadline and compliance state for a ticket from its
// timestamps and the resolution-hours target configured on its priority or
// overridden on the ticket itself.
package sla

import "time"

// ComplianceStatus is the derived SLA state of a ticket.
type ComplianceStatus string

const (
	StatusNoSLA        ComplianceStatus = "NO_SLA"
	StatusOnTrack      ComplianceStatus = "ON_TRACK"
	StatusAtRisk       ComplianceStatus = "AT_RISK"
	StatusOverdue      ComplianceStatus = "OVERDUE"
	StatusMet          ComplianceStatus = "MET"
	StatusMissedClosed ComplianceStatus = "MISSED_CLOSED"
)

// DefaultAtRiskThreshold is the remaining-window fraction at or below which
// an open ticket is flagged AT_RISK.
const DefaultAtRiskThreshold = 0.25

// Input carries everything Evaluate needs. OverrideHours takes precedence
// over PriorityHours when both are set.
type Input struct {
	CreatedAt     time.Time
	PriorityHours *int
	OverrideHours *int
	IsFinal       bool
	ClosedAt      *time.Time
	Now           time.Time
}

// Result is the evaluation outcome. Deadline is nil when no SLA hours are
// configured. Compliant is true for MET, false for OVERDUE and
// MISSED_CLOSED, and nil otherwise; aggregate SLA reporting excludes
// nil-compliance tickets from the denominator.
type Result struct {
	Deadline  *time.Time
	Status    ComplianceStatus
	Compliant *bool
}

// Evaluate computes the SLA state for the given input. It is total and
// deterministic: the same input always yields the same result.
func Evaluate(in Input) Result {
	return EvaluateWithThreshold(in, DefaultAtRiskThreshold)
}

// EvaluateWithThreshold is Evaluate with a configurable at-risk fraction.
func EvaluateWithThreshold(in Input, atRiskThreshold float64) Result {
	hours := effectiveHours(in)
	if hours == nil {
		return Result{Status: StatusNoSLA}
	}

	deadline := in.CreatedAt.Add(time.Duration(*hours) * time.Hour)
	result := Result{Deadline: &deadline}

	if in.IsFinal && in.ClosedAt != nil {
		if !in.ClosedAt.After(deadline) {
			result.Status = StatusMet
			result.Compliant = boolPtr(true)
		} else {
			result.Status = StatusMissedClosed
			result.Compliant = boolPtr(false)
		}
		return result
	}

	if in.Now.After(deadline) {
		result.Status = StatusOverdue
		result.Compliant = boolPtr(false)
		return result
	}

	total := deadline.Sub(in.CreatedAt).Seconds()
	remaining := deadline.Sub(in.Now).Seconds()
	if total > 0 && remaining/total <= atRiskThreshold {
		result.Status = StatusAtRisk
		return result
	}

	result.Status = StatusOnTrack
	return result
}

func effectiveHours(in Input) *int {
	if in.OverrideHours != nil {
		return in.OverrideHours
	}
	return in.PriorityHours
}

func boolPtr(v bool) *bool {
	return &v
}
