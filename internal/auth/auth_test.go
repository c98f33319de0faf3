package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marinaops/internal/domain"
)

type userMap map[int64]domain.User

func (m userMap) GetByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := m[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func ptr(v int64) *int64 { return &v }

var users = userMap{
	1: {ID: 1, Email: "admin@marina.test", Role: domain.RoleAdministrator},
	2: {ID: 2, Email: "a@marina.test", Role: domain.RoleOwner},
	3: {ID: 3, Email: "b@marina.test", Role: domain.RoleOwner},
	4: {ID: 4, Email: "tech@marina.test", Role: domain.RoleTechnician, CustomerAdminID: ptr(2)},
}

func callerFor(id int64) Caller { return CallerFromUser(users[id]) }

func TestResolve_AdminWithoutOwnerIsUnrestricted(t *testing.T) {
	s, err := NewResolver(users).Resolve(context.Background(), callerFor(1), -1)
	require.NoError(t, err)
	assert.True(t, s.Unrestricted())
	assert.Equal(t, int64(-1), s.OwnerID())
	assert.True(t, s.Permits(2))
	assert.True(t, s.Permits(3))
}

func TestResolve_NonAdminWithoutOwnerIsUnauthorized(t *testing.T) {
	_, err := NewResolver(users).Resolve(context.Background(), callerFor(2), -1)
	assert.Equal(t, domain.KindUnauthorized, domain.KindOf(err))
}

func TestResolve_UnknownOwner(t *testing.T) {
	_, err := NewResolver(users).Resolve(context.Background(), callerFor(1), 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResolve_TargetMustBeOwner(t *testing.T) {
	_, err := NewResolver(users).Resolve(context.Background(), callerFor(1), 4)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestResolve_OtherOwnersRecords(t *testing.T) {
	_, err := NewResolver(users).Resolve(context.Background(), callerFor(2), 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Contains(t, err.Error(), "another user")
}

func TestResolve_OwnerAndDelegate(t *testing.T) {
	r := NewResolver(users)

	s, err := r.Resolve(context.Background(), callerFor(2), 2)
	require.NoError(t, err)
	assert.False(t, s.Unrestricted())
	assert.True(t, s.Permits(2))
	assert.False(t, s.Permits(3))

	s, err = r.Resolve(context.Background(), callerFor(4), callerFor(4).DefaultOwnerID())
	require.NoError(t, err)
	assert.Equal(t, int64(2), s.OwnerID())
	assert.Equal(t, "tech@marina.test", s.Actor())

	_, err = r.Resolve(context.Background(), callerFor(4), 3)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestScope_WriteOwner(t *testing.T) {
	_, err := Unrestricted(callerFor(1)).WriteOwner()
	assert.ErrorIs(t, err, domain.ErrValidation)

	id, err := Owned(callerFor(1), 3).WriteOwner()
	require.NoError(t, err)
	assert.Equal(t, int64(3), id)

	var zero Scope
	assert.False(t, zero.Permits(0))
	assert.ErrorIs(t, zero.Check(5), domain.ErrUnauthorized)
}

func TestTokens_RoundTrip(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	raw, exp, err := tokens.Issue(users[4])
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)

	c, err := tokens.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, int64(4), c.UserID)
	assert.Equal(t, domain.RoleTechnician, c.Role)
	require.NotNil(t, c.CustomerAdminID)
	assert.Equal(t, int64(2), *c.CustomerAdminID)
	assert.Equal(t, int64(2), c.DefaultOwnerID())
}

func TestTokens_RejectsForeignAndExpired(t *testing.T) {
	raw, _, err := NewTokens("other", time.Hour).Issue(users[2])
	require.NoError(t, err)
	_, err = NewTokens("secret", time.Hour).Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)

	tokens := NewTokens("secret", time.Minute)
	raw, _, err = tokens.Issue(users[2])
	require.NoError(t, err)
	tokens.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = tokens.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = tokens.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestReload_UsesStoredUser(t *testing.T) {
	stored := userMap{
		4: {ID: 4, Email: "tech@marina.test", Role: domain.RoleTechnician, CustomerAdminID: ptr(3)},
	}
	r := NewResolver(stored)

	claimed := Caller{UserID: 4, Email: "tech@marina.test", Role: domain.RoleAdministrator}
	c, err := r.Reload(context.Background(), claimed)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleTechnician, c.Role)
	assert.Equal(t, int64(3), c.DefaultOwnerID())

	_, err = r.Reload(context.Background(), Caller{UserID: 99, Role: domain.RoleAdministrator})
	assert.ErrorIs(t, err, ErrInvalidToken)
}
