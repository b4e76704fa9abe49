package domain

import "time"

// Category groups tickets by topic.
type Category struct {
	ID          string
	Name        string
	Description string
	Active      bool
	CreatedAt   time.Time
}

// Subcategory refines a Category; names are unique per category.
type Subcategory struct {
	ID          string
	CategoryID  string
	Name        string
	Description string
	Active      bool
	CreatedAt   time.Time
}

// Priority ranks urgency. SLAHours, when set, is the resolution-time
// target used to derive the ticket SLA deadline.
type Priority struct {
	ID          string
	Name        string
	Description string
	Level       int
	SLAHours    *int
	CreatedAt   time.Time
}

// Status is a ticket lifecycle state. IsFinal marks terminal states
// (Resolved, Closed); entering one stamps the ticket close time.
type Status struct {
	ID          string
	Name        string
	Description string
	IsFinal     bool
	CreatedAt   time.Time
}

// Area is the business area a ticket affects.
type Area struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}
