package config

import (
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"HTTP_ADDR", "TOKEN_TTL_MINUTES", "CORS_ORIGINS", "AMQP_URL"} {
		t.Setenv(k, "")
	}
	cfg := FromEnv()
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected addr %q", cfg.HTTPAddr)
	}
	if cfg.TokenTTL != 12*time.Hour {
		t.Fatalf("unexpected ttl %v", cfg.TokenTTL)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Fatalf("unexpected origins %v", cfg.CORSOrigins)
	}
	if cfg.AMQPURL != "" {
		t.Fatalf("amqp should be off by default, got %q", cfg.AMQPURL)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "3")
	t.Setenv("TOKEN_TTL_MINUTES", "30")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")

	cfg := FromEnv()
	if cfg.HTTPAddr != ":9090" {
		t.Fatalf("unexpected addr %q", cfg.HTTPAddr)
	}
	if cfg.ShutdownTimeout != 3*time.Second {
		t.Fatalf("unexpected shutdown timeout %v", cfg.ShutdownTimeout)
	}
	if cfg.TokenTTL != 30*time.Minute {
		t.Fatalf("unexpected ttl %v", cfg.TokenTTL)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected origins %v", cfg.CORSOrigins)
	}
}

func TestBadDurationFallsBack(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "soon")
	if got := FromEnv().ShutdownTimeout; got != 10*time.Second {
		t.Fatalf("expected default, got %v", got)
	}
}

func TestJWTSecretRequired(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	cfg := FromEnv()
	if cfg.JWTSecret != "" {
		t.Fatalf("expected no default signing key, got %q", cfg.JWTSecret)
	}
	if err := cfg.CheckJWTSecret(); err == nil {
		t.Fatalf("expected an unset secret to be rejected")
	}

	t.Setenv("JWT_SECRET", "change-me")
	if err := FromEnv().CheckJWTSecret(); err == nil {
		t.Fatalf("expected a short secret to be rejected")
	}

	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	if err := FromEnv().CheckJWTSecret(); err != nil {
		t.Fatalf("expected a 32 byte secret to pass: %v", err)
	}
}
