package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoleValid(t *testing.T) {
	require.True(t, RoleAdmin.Valid())
	require.True(t, RoleTechnician.Valid())
	require.True(t, RoleRequester.Valid())
	require.False(t, Role("SUPERVISOR").Valid())
	require.False(t, Role("").Valid())
}

func TestRoleCapabilities(t *testing.T) {
	cases := []struct {
		role Role
		cap  Capability
		want bool
	}{
		{RoleAdmin, CapManageUsers, true},
		{RoleAdmin, CapDeleteTicket, true},
		{RoleAdmin, CapUpdateTicketFull, true},
		{RoleAdmin, CapCreateTicket, false},
		{RoleTechnician, CapUpdateTicketStatus, true},
		{RoleTechnician, CapUpdateTicketFull, false},
		{RoleTechnician, CapDeleteTicket, false},
		{RoleRequester, CapCreateTicket, true},
		{RoleRequester, CapRateTicket, true},
		{RoleRequester, CapUpdateTicketStatus, false},
		{Role("SUPERVISOR"), CapCreateTicket, false},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, tc.role.Can(tc.cap), "%s / %s", tc.role, tc.cap)
	}
}
