package auth

import (
	"context"
	"errors"

	"marinaops/internal/domain"
)

// Scope is the resolved ownership restriction of one request. The zero
// value permits nothing.
type Scope struct {
	caller       Caller
	ownerID      int64
	unrestricted bool
}

// Unrestricted is the scope of an administrator that named no owner.
func Unrestricted(c Caller) Scope {
	return Scope{caller: c, ownerID: -1, unrestricted: true}
}

// Owned restricts c to the records of ownerID.
func Owned(c Caller, ownerID int64) Scope {
	return Scope{caller: c, ownerID: ownerID}
}

func (s Scope) Caller() Caller     { return s.caller }
func (s Scope) Unrestricted() bool { return s.unrestricted }

// OwnerID is the customer owner of the scope, -1 when unrestricted.
func (s Scope) OwnerID() int64 {
	if s.unrestricted {
		return -1
	}
	return s.ownerID
}

// Actor labels audit columns.
func (s Scope) Actor() string {
	if s.caller.Email != "" {
		return s.caller.Email
	}
	return "system"
}

// Permits reports whether a record owned by ownerID is visible.
func (s Scope) Permits(ownerID int64) bool {
	return s.unrestricted || (s.ownerID > 0 && s.ownerID == ownerID)
}

// Check is Permits as an error.
func (s Scope) Check(ownerID int64) error {
	if !s.Permits(ownerID) {
		return domain.Unauthorizedf("record associated with another user")
	}
	return nil
}

// WriteOwner is the owner new records are created under.
func (s Scope) WriteOwner() (int64, error) {
	if s.unrestricted || s.ownerID <= 0 {
		return 0, domain.Invalidf("CUSTOMER_OWNER_ID header is required to create records")
	}
	return s.ownerID, nil
}

// Users looks up accounts by id.
type Users interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// Resolver turns a caller plus a requested customer owner into a Scope.
// Nothing is cached between requests.
type Resolver struct {
	users Users
}

func NewResolver(users Users) *Resolver {
	return &Resolver{users: users}
}

// Reload replaces the token's view of c with the stored user, so deleted
// or demoted accounts lose their rights at once. A missing user is an
// invalid token.
func (r *Resolver) Reload(ctx context.Context, c Caller) (Caller, error) {
	u, err := r.users.GetByID(ctx, c.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return Caller{}, ErrInvalidToken
		}
		return Caller{}, err
	}
	return CallerFromUser(*u), nil
}

// Resolve applies the scoping rules. ownerID <= 0 means no owner was named.
func (r *Resolver) Resolve(ctx context.Context, c Caller, ownerID int64) (Scope, error) {
	if ownerID <= 0 {
		if c.IsAdmin() {
			return Unrestricted(c), nil
		}
		return Scope{}, domain.Unauthorizedf("customer owner is required")
	}
	owner, err := r.users.GetByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return Scope{}, domain.NotFoundf("user %d not found", ownerID)
		}
		return Scope{}, err
	}
	if owner.Role != domain.RoleOwner {
		return Scope{}, domain.Invalidf("user %d is not a customer owner", ownerID)
	}
	if !c.actsFor(ownerID) {
		return Scope{}, domain.Unauthorizedf("record associated with another user")
	}
	return Owned(c, ownerID), nil
}
