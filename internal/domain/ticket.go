package domain

import "time"

// Ticket is the aggregate root for support requests. The requester and
// creation time are immutable after creation; ClosedAt is set exactly when
// the current status is final and cleared on reopen.
type Ticket struct {
	ID                string
	Title             string
	Description       string
	RequesterID       string
	CategoryID        *string
	SubcategoryID     *string
	PriorityID        *string
	AreaID            string
	StatusID          string
	AttachmentPath    *string
	SLAHoursObjective *int
	CreatedAt         time.Time
	UpdatedAt         time.Time
	ClosedAt          *time.Time
}

// Assignment links a ticket to a technician. At most one row per ticket is
// active; reassignment updates the row in place rather than adding a second
// active one.
type Assignment struct {
	ID           string
	TicketID     string
	TechnicianID string
	Active       bool
	AssignedAt   time.Time
}

// HistoryEntry is an immutable audit record written with every
// state-affecting ticket mutation. PreviousStatusID is nil for the
// creation entry.
type HistoryEntry struct {
	ID               string
	TicketID         string
	ActorID          *string
	PreviousStatusID *string
	NewStatusID      *string
	Comment          string
	CreatedAt        time.Time
}

// Comment is an append-only message in a ticket conversation.
type Comment struct {
	ID             string
	TicketID       string
	AuthorID       string
	Text           string
	AttachmentPath *string
	CreatedAt      time.Time
}

// Rating is the one-time CSAT record a requester leaves for a ticket.
type Rating struct {
	ID        string
	TicketID  string
	AuthorID  string
	Score     int
	Resolved  bool
	Comment   string
	CreatedAt time.Time
}
