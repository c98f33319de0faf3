package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"marinaops/internal/domain"
)

// ErrInvalidToken is returned for missing, malformed or expired tokens.
var ErrInvalidToken = errors.New("invalid token")

type claims struct {
	Email           string `json:"email"`
	Role            string `json:"role"`
	CustomerAdminID *int64 `json:"customerAdminId,omitempty"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies HS256 access tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for u and returns it with its expiry.
func (t *Tokens) Issue(u domain.User) (string, time.Time, error) {
	now := t.now().UTC()
	exp := now.Add(t.ttl)
	c := claims{
		Email:           u.Email,
		Role:            string(u.Role),
		CustomerAdminID: u.CustomerAdminID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(u.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Parse verifies raw and returns the Caller it was issued for.
func (t *Tokens) Parse(raw string) (Caller, error) {
	var c claims
	tok, err := jwt.ParseWithClaims(raw, &c, func(*jwt.Token) (any, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(t.now), jwt.WithExpirationRequired())
	if err != nil || !tok.Valid {
		return Caller{}, ErrInvalidToken
	}
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return Caller{}, ErrInvalidToken
	}
	role, err := domain.ParseRole(c.Role)
	if err != nil {
		return Caller{}, ErrInvalidToken
	}
	return Caller{
		UserID:          id,
		Email:           c.Email,
		Role:            role,
		CustomerAdminID: c.CustomerAdminID,
	}, nil
}
