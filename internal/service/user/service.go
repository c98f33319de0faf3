// Package user administers accounts. Administrators manage customer
// owners; owners manage their technician and finance delegates.
package user

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"marinaops/internal/auth"
	"marinaops/internal/domain"
	"marinaops/internal/filter"
	"marinaops/internal/logging"
	"marinaops/internal/page"
	userrepo "marinaops/internal/repository/user"
	"marinaops/internal/service/crud"
	"marinaops/internal/service/reference"
	"marinaops/internal/validate"
)

const passwordMin = 8

type Service struct {
	repo   userrepo.Repository
	refs   *reference.Service
	clock  crud.Clock
	logger zerolog.Logger
}

func New(repo userrepo.Repository, refs *reference.Service, logger *zerolog.Logger) *Service {
	return &Service{repo: repo, refs: refs, logger: logging.OrNop(logger)}
}

// Patch carries the fields of a create or update request.
type Patch struct {
	Name      *string `json:"name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Password  *string `json:"password"`
	Role      *string `json:"role"`
	StateID   *int64  `json:"stateId"`
	CountryID *int64  `json:"countryId"`
}

// List returns every user for unrestricted scopes, otherwise the owner and
// its delegates.
func (s *Service) List(ctx context.Context, scope auth.Scope, req page.Request) (page.Page[domain.User], error) {
	search := filter.Search(userrepo.Entity, req.SearchText)
	if scope.Unrestricted() {
		return s.repo.List(ctx, search, req)
	}
	owner := scope.OwnerID()
	where := filter.All{
		filter.Any{
			filter.Equals{Field: filter.NumberField("u.id"), Value: owner},
			filter.OwnedBy(userrepo.Entity, owner),
		},
		search,
	}
	return s.repo.List(ctx, where, req)
}

func (s *Service) Get(ctx context.Context, scope auth.Scope, id int64) (*domain.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !visible(scope, u) {
		return nil, domain.Unauthorizedf("record associated with another user")
	}
	return u, nil
}

func (s *Service) Create(ctx context.Context, scope auth.Scope, p Patch) (*domain.User, error) {
	if err := canManage(scope); err != nil {
		return nil, err
	}
	if err := validate.First(
		validate.Required("name", deref(p.Name)),
		validate.Email("email", deref(p.Email)),
		validate.Required("role", deref(p.Role)),
	); err != nil {
		return nil, err
	}
	if p.Password == nil {
		return nil, domain.Invalidf("password is required")
	}
	u := &domain.User{}
	if !scope.Unrestricted() {
		owner := scope.OwnerID()
		u.CustomerAdminID = &owner
	}
	if err := s.save(ctx, scope, u, p); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) Update(ctx context.Context, scope auth.Scope, id int64, p Patch) (*domain.User, error) {
	u, err := s.Get(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if u.ID != scope.Caller().UserID {
		if err := canManage(scope); err != nil {
			return nil, err
		}
	} else if p.Role != nil && !strings.EqualFold(*p.Role, string(u.Role)) {
		return nil, domain.Unauthorizedf("users cannot change their own role")
	}
	if err := s.save(ctx, scope, u, p); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) Delete(ctx context.Context, scope auth.Scope, id int64) error {
	u, err := s.Get(ctx, scope, id)
	if err != nil {
		return err
	}
	if err := canManage(scope); err != nil {
		return err
	}
	if u.ID == scope.Caller().UserID {
		return domain.Invalidf("users cannot delete themselves")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("user", id).Str("by", scope.Actor()).Msg("user deleted")
	return nil
}

func (s *Service) save(ctx context.Context, scope auth.Scope, u *domain.User, p Patch) error {
	if p.Email != nil {
		if err := validate.Email("email", *p.Email); err != nil {
			return err
		}
		email := strings.ToLower(strings.TrimSpace(*p.Email))
		if existing, err := s.repo.GetByEmail(ctx, email); err == nil && existing.ID != u.ID {
			return domain.Duplicatef("user %s already exists", email)
		} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		u.Email = email
	}
	if p.Name != nil {
		if err := validate.Required("name", *p.Name); err != nil {
			return err
		}
	}
	crud.SetString(&u.Name, p.Name)
	crud.SetString(&u.Phone, p.Phone)
	if p.Role != nil {
		role, err := domain.ParseRole(*p.Role)
		if err != nil {
			return err
		}
		if role != u.Role {
			if err := assignable(scope, role); err != nil {
				return err
			}
		}
		u.Role = role
	}
	if p.Password != nil {
		if len(strings.TrimSpace(*p.Password)) < passwordMin {
			return domain.Invalidf("password must be at least %d characters", passwordMin)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*p.Password), bcrypt.DefaultCost)
		if err != nil {
			return domain.Internal("hash password", err)
		}
		u.PasswordHash = string(hash)
	}
	crud.SetRef(&u.StateID, p.StateID)
	crud.SetRef(&u.CountryID, p.CountryID)
	if err := s.refs.CheckAddress(ctx, u.StateID, u.CountryID); err != nil {
		return err
	}

	u.Stamp(scope.Actor(), s.clock.Now())
	if u.ID == 0 {
		return s.repo.Create(ctx, u)
	}
	return s.repo.Update(ctx, u)
}

func visible(scope auth.Scope, u *domain.User) bool {
	if scope.Unrestricted() {
		return true
	}
	owner := scope.OwnerID()
	return u.ID == owner || (u.CustomerAdminID != nil && *u.CustomerAdminID == owner)
}

func canManage(scope auth.Scope) error {
	switch scope.Caller().Role {
	case domain.RoleAdministrator, domain.RoleOwner:
		return nil
	}
	return domain.Unauthorizedf("only administrators and customer owners manage users")
}

// assignable limits the roles a scope hands out: administrators without an
// owner create owners and administrators, owner scopes create delegates.
func assignable(scope auth.Scope, role domain.Role) error {
	if scope.Unrestricted() {
		if role == domain.RoleOwner || role == domain.RoleAdministrator {
			return nil
		}
		return domain.Invalidf("role %s requires a customer owner", role)
	}
	if role.Delegate() {
		return nil
	}
	return domain.Unauthorizedf("customer owners may only create technician and finance users")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
