package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// RegisterRequest payload.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ChangePasswordRequest payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// PasswordResetRequest payload.
type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// CreateUserRequest payload for admin provisioning.
type CreateUserRequest struct {
	Name       string      `json:"name" validate:"required"`
	Email      string      `json:"email" validate:"required,email"`
	Password   string      `json:"password" validate:"required,min=8"`
	Role       domain.Role `json:"role" validate:"required"`
	Phone      string      `json:"phone"`
	Department string      `json:"department"`
}

// UpdateUserRequest payload.
type UpdateUserRequest struct {
	Name       *string `json:"name"`
	Phone      *string `json:"phone"`
	Department *string `json:"department"`
	Active     *bool   `json:"active"`
}

// SetRoleRequest payload.
type SetRoleRequest struct {
	Role domain.Role `json:"role" validate:"required"`
}

// AuthResponse carries the issued token.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// UserResponse response.
type UserResponse struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Role       domain.Role `json:"role"`
	Phone      string      `json:"phone,omitempty"`
	Department string      `json:"department,omitempty"`
	Active     bool        `json:"active"`
	CreatedAt  time.Time   `json:"created_at"`
}

// TechnicianResponse response.
type TechnicianResponse struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Specialty       string    `json:"specialty,omitempty"`
	ExperienceLevel string    `json:"experience_level,omitempty"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Role:       user.Role,
		Phone:      user.Phone,
		Department: user.Department,
		Active:     user.Active,
		CreatedAt:  user.CreatedAt,
	}
}

// NewTechnicianResponse maps a technician profile.
func NewTechnicianResponse(technician *domain.Technician) TechnicianResponse {
	return TechnicianResponse{
		ID:              technician.ID,
		UserID:          technician.UserID,
		Specialty:       technician.Specialty,
		ExperienceLevel: technician.ExperienceLevel,
		Active:          technician.Active,
		CreatedAt:       technician.CreatedAt,
	}
}
