package domain

// Role enumerates the closed set of caller roles.
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleTechnician Role = "TECHNICIAN"
	RoleRequester  Role = "REQUESTER"
)

// Capability names a discrete permission checked by the ticket lifecycle.
type Capability string

const (
	CapCreateTicket       Capability = "ticket:create"
	CapUpdateTicketFull   Capability = "ticket:update:full"
	CapUpdateTicketStatus Capability = "ticket:update:status"
	CapDeleteTicket       Capability = "ticket:delete"
	CapViewAllTickets     Capability = "ticket:view:all"
	CapRateTicket         Capability = "ticket:rate"
	CapManageUsers        Capability = "users:manage"
	CapManageCatalog      Capability = "catalog:manage"
	CapViewReports        Capability = "reports:view"
)

var roleCapabilities = map[Role]map[Capability]struct{}{
	RoleAdmin: capSet(
		CapUpdateTicketFull,
		CapUpdateTicketStatus,
		CapDeleteTicket,
		CapViewAllTickets,
		CapManageUsers,
		CapManageCatalog,
		CapViewReports,
	),
	RoleTechnician: capSet(
		CapUpdateTicketStatus,
		CapViewAllTickets,
	),
	RoleRequester: capSet(
		CapCreateTicket,
		CapRateTicket,
	),
}

func capSet(caps ...Capability) map[Capability]struct{} {
	set := make(map[Capability]struct{}, len(caps))
	for _, cap := range caps {
		set[cap] = struct{}{}
	}
	return set
}

// Valid reports whether the role belongs to the closed enumeration.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTechnician, RoleRequester:
		return true
	}
	return false
}

// Can reports whether the role grants the capability.
func (r Role) Can(cap Capability) bool {
	caps, ok := roleCapabilities[r]
	if !ok {
		return false
	}
	_, ok = caps[cap]
	return ok
}
