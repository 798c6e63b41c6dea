package domain

import "time"

// User represents a system actor. Users own accounts but the ledger only
// reads them to answer privilege questions.
type User struct {
	ID        string
	Email     string
	Name      string
	Role      Role
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Role represents a user's access level.
type Role string

const (
	// RoleAdmin may mint money, force balances and cancel entries.
	RoleAdmin Role = "admin"

	// RoleTeller may create movements on behalf of customers.
	RoleTeller Role = "teller"

	// RoleCustomer may operate only on accounts they own.
	RoleCustomer Role = "customer"
)

var validRoles = map[Role]bool{
	RoleAdmin:    true,
	RoleTeller:   true,
	RoleCustomer: true,
}

// IsValid checks if the role is a known role.
func (r Role) IsValid() bool {
	return validRoles[r]
}

// IsPrivileged reports whether the role may perform administrative ledger
// operations (mint, cancellation).
func (r Role) IsPrivileged() bool {
	return r == RoleAdmin
}
