package service

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// UserService owns account administration and the role-to-technician
// profile linkage.
type UserService struct {
	users       repository.UserRepository
	technicians repository.TechnicianRepository
	bcryptCost  int
}

// NewUserService builds the service.
func NewUserService(users repository.UserRepository, technicians repository.TechnicianRepository, bcryptCost int) *UserService {
	return &UserService{users: users, technicians: technicians, bcryptCost: bcryptCost}
}

// UserCreateInput describes an admin-created account.
type UserCreateInput struct {
	Name       string
	Email      string
	Password   string
	Role       domain.Role
	Phone      string
	Department string
}

// UserUpdateInput carries editable profile fields. Nil leaves a field
// untouched.
type UserUpdateInput struct {
	Name       *string
	Phone      *string
	Department *string
	Active     *bool
}

// Create provisions an account with the given role. Admin only.
func (s *UserService) Create(ctx context.Context, actor *domain.User, input UserCreateInput) (*domain.User, error) {
	if !actor.Role.Can(domain.CapManageUsers) {
		return nil, apperrors.NewPermissionDenied("only administrators may manage accounts")
	}
	if !input.Role.Valid() {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": input.Role})
	}
	if strings.TrimSpace(input.Email) == "" || strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("name and email are required", nil)
	}
	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if err != pgx.ErrNoRows {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	user := &domain.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        strings.TrimSpace(input.Email),
		PasswordHash: hash,
		Role:         input.Role,
		Phone:        input.Phone,
		Department:   input.Department,
		Active:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	if user.Role == domain.RoleTechnician {
		if _, err := s.EnsureTechnicianProfile(ctx, user.ID); err != nil {
			return nil, err
		}
	}
	return user, nil
}

// Get fetches a single account.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// List returns accounts matching the filter. Admin only.
func (s *UserService) List(ctx context.Context, actor *domain.User, filter repository.UserFilter) ([]domain.User, error) {
	if !actor.Role.Can(domain.CapManageUsers) {
		return nil, apperrors.NewPermissionDenied("only administrators may list accounts")
	}
	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// Update edits profile fields. Admins may edit anyone; other users only
// themselves, and never the active flag.
func (s *UserService) Update(ctx context.Context, actor *domain.User, userID string, input UserUpdateInput) (*domain.User, error) {
	isAdmin := actor.Role.Can(domain.CapManageUsers)
	if !isAdmin && actor.ID != userID {
		return nil, apperrors.NewPermissionDenied("cannot edit another user's profile")
	}
	if !isAdmin && input.Active != nil {
		return nil, apperrors.NewPermissionDenied("only administrators may enable or disable accounts")
	}

	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Department != nil {
		user.Department = *input.Department
	}
	if input.Active != nil {
		user.Active = *input.Active
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// SetRole changes a user's role. Admin only. Granting the technician
// role provisions the profile idempotently; revoking it leaves the
// profile in place so assignment history stays resolvable.
func (s *UserService) SetRole(ctx context.Context, actor *domain.User, userID string, role domain.Role) (*domain.User, error) {
	if !actor.Role.Can(domain.CapManageUsers) {
		return nil, apperrors.NewPermissionDenied("only administrators may change roles")
	}
	if !role.Valid() {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": role})
	}

	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Role = role
	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	if role == domain.RoleTechnician {
		if _, err := s.EnsureTechnicianProfile(ctx, user.ID); err != nil {
			return nil, err
		}
	}
	return user, nil
}

// EnsureTechnicianProfile get-or-creates the technician profile for a
// user. Safe to call repeatedly.
func (s *UserService) EnsureTechnicianProfile(ctx context.Context, userID string) (*domain.Technician, error) {
	technician, err := s.technicians.EnsureForUser(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return technician, nil
}

// Delete removes an account. Admin only.
func (s *UserService) Delete(ctx context.Context, actor *domain.User, userID string) error {
	if !actor.Role.Can(domain.CapManageUsers) {
		return apperrors.NewPermissionDenied("only administrators may delete accounts")
	}
	if actor.ID == userID {
		return apperrors.NewValidationError("cannot delete your own account", nil)
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("user", nil)
		}
		return apperrors.MapError(err)
	}
	return nil
}

// ListTechnicians returns all technician profiles.
func (s *UserService) ListTechnicians(ctx context.Context) ([]domain.Technician, error) {
	technicians, err := s.technicians.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return technicians, nil
}
