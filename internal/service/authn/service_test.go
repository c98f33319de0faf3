package authn

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"marinaops/internal/auth"
	"marinaops/internal/domain"
	"marinaops/internal/repository/memory"
)

func TestLogin(t *testing.T) {
	store := memory.New()
	hash, err := bcrypt.GenerateFromPassword([]byte("Secret123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	id := store.AddUser(domain.User{Email: "owner@example.com", PasswordHash: string(hash), Role: domain.RoleOwner})
	tokens := auth.NewTokens("test-secret", time.Hour)
	svc := New(store.Users(), tokens, nil)
	ctx := context.Background()

	sess, err := svc.Login(ctx, " Owner@Example.com ", "Secret123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	caller, err := tokens.Parse(sess.Token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if caller.UserID != id || caller.Role != domain.RoleOwner {
		t.Fatalf("unexpected caller %+v", caller)
	}

	if _, err := svc.Login(ctx, "owner@example.com", "wrong"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if _, err := svc.Login(ctx, "nobody@example.com", "Secret123"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if _, err := svc.Login(ctx, "", ""); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
