package config

import (
	"context"
	"testing"
	"time"
)

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(context.Background()); err == nil {
		t.Fatalf("expected an error without JWT_SECRET")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.Auth.TokenTTL != time.Hour {
		t.Fatalf("expected default token TTL 1h, got %v", cfg.Auth.TokenTTL)
	}
	if cfg.Auth.BcryptCost != 10 {
		t.Fatalf("expected default bcrypt cost 10, got %d", cfg.Auth.BcryptCost)
	}
	if cfg.Mongo.Database != "personnel" {
		t.Fatalf("expected default database personnel, got %q", cfg.Mongo.Database)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Auth.TokenTTL != 30*time.Minute {
		t.Fatalf("expected 30m TTL, got %v", cfg.Auth.TokenTTL)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("expected debug log level, got %q", cfg.LogLevel)
	}
}
