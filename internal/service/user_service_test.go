package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

type userFixture struct {
	svc         *UserService
	users       *memUserRepo
	technicians *memTechnicianRepo
	admin       domain.User
	requester   domain.User
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()

	f := &userFixture{
		users:       newMemUserRepo(),
		technicians: newMemTechnicianRepo(),
	}
	f.admin = f.users.add(domain.User{ID: "admin-1", Name: "Ana", Email: "ana@example.com", Role: domain.RoleAdmin, Active: true})
	f.requester = f.users.add(domain.User{ID: "req-1", Name: "Rita", Email: "rita@example.com", Role: domain.RoleRequester, Active: true})
	f.svc = NewUserService(f.users, f.technicians, bcrypt.MinCost)
	return f
}

func TestUserCreateAdminOnly(t *testing.T) {
	f := newUserFixture(t)

	_, err := f.svc.Create(context.Background(), &f.requester, UserCreateInput{
		Name: "Eve", Email: "eve@example.com", Password: "s3cret", Role: domain.RoleRequester,
	})
	require.True(t, apperrors.IsPermissionDenied(err))
}

func TestUserCreateValidation(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, &f.admin, UserCreateInput{Name: "Eve", Email: "eve@example.com", Role: "SUPERVISOR"})
	require.True(t, apperrors.IsValidation(err))

	_, err = f.svc.Create(ctx, &f.admin, UserCreateInput{Email: "eve@example.com", Role: domain.RoleRequester})
	require.True(t, apperrors.IsValidation(err))

	_, err = f.svc.Create(ctx, &f.admin, UserCreateInput{
		Name: "Rita Clone", Email: "rita@example.com", Password: "pw", Role: domain.RoleRequester,
	})
	domainErr := apperrors.ToDomainError(err)
	require.Equal(t, "CONFLICT", domainErr.Code)
}

func TestUserCreateTechnicianProvisionsProfile(t *testing.T) {
	f := newUserFixture(t)

	user, err := f.svc.Create(context.Background(), &f.admin, UserCreateInput{
		Name: "Tomas", Email: "tomas@example.com", Password: "pw", Role: domain.RoleTechnician,
	})
	require.NoError(t, err)
	require.True(t, user.Active)

	profile, err := f.technicians.GetByUserID(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, user.ID, profile.UserID)
}

func TestUserUpdatePermissions(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	_, err := f.svc.Update(ctx, &f.requester, f.admin.ID, UserUpdateInput{Name: strPtr("Hacked")})
	require.True(t, apperrors.IsPermissionDenied(err))

	// Self-service edits are fine, except for the active flag.
	inactive := false
	_, err = f.svc.Update(ctx, &f.requester, f.requester.ID, UserUpdateInput{Active: &inactive})
	require.True(t, apperrors.IsPermissionDenied(err))

	updated, err := f.svc.Update(ctx, &f.requester, f.requester.ID, UserUpdateInput{
		Name:  strPtr("Rita M. Vale"),
		Phone: strPtr("555-0101"),
	})
	require.NoError(t, err)
	require.Equal(t, "Rita M. Vale", updated.Name)
	require.Equal(t, "555-0101", updated.Phone)

	disabled, err := f.svc.Update(ctx, &f.admin, f.requester.ID, UserUpdateInput{Active: &inactive})
	require.NoError(t, err)
	require.False(t, disabled.Active)
}

func TestSetRoleGrantKeepsProfileOnRevoke(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	_, err := f.svc.SetRole(ctx, &f.requester, f.requester.ID, domain.RoleAdmin)
	require.True(t, apperrors.IsPermissionDenied(err))

	_, err = f.svc.SetRole(ctx, &f.admin, f.requester.ID, "SUPERVISOR")
	require.True(t, apperrors.IsValidation(err))

	promoted, err := f.svc.SetRole(ctx, &f.admin, f.requester.ID, domain.RoleTechnician)
	require.NoError(t, err)
	require.Equal(t, domain.RoleTechnician, promoted.Role)

	profile, err := f.technicians.GetByUserID(ctx, f.requester.ID)
	require.NoError(t, err)

	// Re-granting the role does not duplicate the profile.
	_, err = f.svc.SetRole(ctx, &f.admin, f.requester.ID, domain.RoleTechnician)
	require.NoError(t, err)
	again, err := f.technicians.GetByUserID(ctx, f.requester.ID)
	require.NoError(t, err)
	require.Equal(t, profile.ID, again.ID)

	demoted, err := f.svc.SetRole(ctx, &f.admin, f.requester.ID, domain.RoleRequester)
	require.NoError(t, err)
	require.Equal(t, domain.RoleRequester, demoted.Role)

	kept, err := f.technicians.GetByUserID(ctx, f.requester.ID)
	require.NoError(t, err)
	require.Equal(t, profile.ID, kept.ID)
}

func TestUserDeleteGuards(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	require.True(t, apperrors.IsPermissionDenied(f.svc.Delete(ctx, &f.requester, f.admin.ID)))
	require.True(t, apperrors.IsValidation(f.svc.Delete(ctx, &f.admin, f.admin.ID)))
	require.True(t, apperrors.IsNotFound(f.svc.Delete(ctx, &f.admin, "user-404")))

	require.NoError(t, f.svc.Delete(ctx, &f.admin, f.requester.ID))
	_, err := f.svc.Get(ctx, f.requester.ID)
	require.True(t, apperrors.IsNotFound(err))
}

func TestUserListAdminOnlyWithFilter(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	_, err := f.svc.List(ctx, &f.requester, repository.UserFilter{})
	require.True(t, apperrors.IsPermissionDenied(err))

	role := domain.RoleRequester
	users, err := f.svc.List(ctx, &f.admin, repository.UserFilter{Role: &role})
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, f.requester.ID, users[0].ID)
}
