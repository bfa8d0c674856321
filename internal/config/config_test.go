package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MARKETPLACE_BASE_URL", "http://backend.test/api")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("SUCCESS_REDIRECT_DELAY", "not-a-duration")

	cfg := Load()
	if cfg.MarketplaceBaseURL != "http://backend.test/api" {
		t.Fatalf("unexpected base url %q", cfg.MarketplaceBaseURL)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "http://b.test" {
		t.Fatalf("unexpected origins %v", cfg.AllowedOrigins)
	}
	if cfg.SuccessRedirectDelay != 2*time.Second {
		t.Fatalf("expected fallback delay, got %v", cfg.SuccessRedirectDelay)
	}
	if cfg.ReconcileMaxAttempts != 1 {
		t.Fatalf("expected single reconciliation attempt by default, got %d", cfg.ReconcileMaxAttempts)
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{Env: "production", JWTSecret: "super-secret-key-change-me", ReconcileMaxAttempts: 0, Timezone: "Local"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}

	ok := &Config{Env: "development", MarketplaceBaseURL: "http://x", ReconcileMaxAttempts: 1, Timezone: "UTC"}
	if err := ok.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestLocation(t *testing.T) {
	loc, err := (&Config{Timezone: "UTC"}).Location()
	if err != nil || loc != time.UTC {
		t.Fatalf("expected UTC, got %v %v", loc, err)
	}
	if loc, err := (&Config{}).Location(); err != nil || loc != time.Local {
		t.Fatalf("expected local zone by default, got %v %v", loc, err)
	}
	if _, err := (&Config{Timezone: "Mars/Olympus_Mons"}).Location(); err == nil {
		t.Fatal("expected error for unknown zone")
	}
}
