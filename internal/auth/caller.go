// Package auth resolves who is calling and which customer owner's records
// the call may touch.
package auth

import "marinaops/internal/domain"

// Caller is the authenticated user, taken from the bearer token once per
// request.
type Caller struct {
	UserID          int64
	Email           string
	Role            domain.Role
	CustomerAdminID *int64
}

// CallerFromUser builds the Caller for u.
func CallerFromUser(u domain.User) Caller {
	return Caller{
		UserID:          u.ID,
		Email:           u.Email,
		Role:            u.Role,
		CustomerAdminID: u.CustomerAdminID,
	}
}

func (c Caller) IsAdmin() bool {
	return c.Role == domain.RoleAdministrator
}

// DefaultOwnerID is the owner scope used when a request names none: the
// caller itself for owners, the owner it reports to for delegates, -1
// otherwise.
func (c Caller) DefaultOwnerID() int64 {
	if c.Role == domain.RoleOwner {
		return c.UserID
	}
	if c.CustomerAdminID != nil {
		return *c.CustomerAdminID
	}
	return -1
}

func (c Caller) actsFor(ownerID int64) bool {
	if c.IsAdmin() || c.UserID == ownerID {
		return true
	}
	return c.Role.Delegate() && c.CustomerAdminID != nil && *c.CustomerAdminID == ownerID
}
