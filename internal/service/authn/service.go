// Package authn checks credentials and issues bearer tokens.
package authn

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"marinaops/internal/auth"
	"marinaops/internal/domain"
	"marinaops/internal/logging"
)

// ErrInvalidCredentials is returned when email/password do not match.
var ErrInvalidCredentials = domain.Unauthorizedf("invalid credentials")

type userRepo interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type Service struct {
	users  userRepo
	tokens *auth.Tokens
	logger zerolog.Logger
}

func New(users userRepo, tokens *auth.Tokens, logger *zerolog.Logger) *Service {
	return &Service{users: users, tokens: tokens, logger: logging.OrNop(logger)}
}

// Session is the result of a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      domain.User
}

// Login validates credentials and returns a signed token.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, domain.Invalidf("email and password are required")
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		s.logger.Info().Str("email", email).Msg("login rejected")
		return nil, ErrInvalidCredentials
	}
	token, exp, err := s.tokens.Issue(*u)
	if err != nil {
		return nil, domain.Internal("issue token", err)
	}
	return &Session{Token: token, ExpiresAt: exp, User: *u}, nil
}
