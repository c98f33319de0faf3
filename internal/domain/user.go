package domain

import "strings"

// Role is the access level of a User.
type Role string

const (
	RoleAdministrator Role = "ADMINISTRATOR"
	RoleOwner         Role = "OWNER"
	RoleTechnician    Role = "TECHNICIAN"
	RoleFinance       Role = "FINANCE"
)

// ParseRole normalises s into a known Role.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	switch r {
	case RoleAdministrator, RoleOwner, RoleTechnician, RoleFinance:
		return r, nil
	}
	return "", Invalidf("unknown role %q", s)
}

// Delegate reports whether the role acts on behalf of a customer owner.
func (r Role) Delegate() bool {
	return r == RoleTechnician || r == RoleFinance
}

// User is an account. Owners scope business records; technicians and
// finance users report to an owner through CustomerAdminID.
type User struct {
	ID              int64
	Name            string
	Email           string
	Phone           string
	PasswordHash    string
	Role            Role
	StateID         *int64
	CountryID       *int64
	CustomerAdminID *int64
	Audit
}

// OwnerID returns the customer owner this user acts for, or -1.
func (u User) OwnerID() int64 {
	if u.Role == RoleOwner {
		return u.ID
	}
	if u.CustomerAdminID != nil {
		return *u.CustomerAdminID
	}
	return -1
}
