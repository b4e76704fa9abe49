package domain

import "time"

// User is the domain model for every authenticated person: requesters,
// technicians and administrators, distinguished by Role.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Phone        string
	Department   string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Technician is the 1:1 profile attached to a User with RoleTechnician.
// The profile is created idempotently when the role is granted and kept
// when the role later changes away.
type Technician struct {
	ID              string
	UserID          string
	Specialty       string
	ExperienceLevel string
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
