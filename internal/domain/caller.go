package domain

import "github.com/google/uuid"

type Role string

const (
	RoleCustomer Role = "Customer"
	RoleSeller   Role = "Seller"
	RoleAdmin    Role = "Admin"
	RoleOwner    Role = "Owner"
)

// Caller is the authenticated identity supplied by the gateway. The backend
// trusts it verbatim, no re-verification happens here.
type Caller struct {
	UserID uuid.UUID
	Role   Role
}

func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin || c.Role == RoleOwner
}

// OrderRights is the capability set resolved once per request, replacing
// inline role-string checks in each handler.
type OrderRights struct {
	View         bool
	UpdateStatus bool
	Cancel       bool
}
