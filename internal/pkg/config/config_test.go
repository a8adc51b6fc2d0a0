package config

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.Session.Backend != BackendRedis {
		t.Fatalf("expected redis backend, got %q", cfg.Session.Backend)
	}
	if cfg.Session.TTL != 720*time.Hour {
		t.Fatalf("unexpected session ttl %s", cfg.Session.TTL)
	}
	if cfg.Storage.Folder != "247localfinest" {
		t.Fatalf("unexpected folder %q", cfg.Storage.Folder)
	}
	rate, err := cfg.TaxRate()
	if err != nil || !rate.Equal(decimal.RequireFromString("0.08")) {
		t.Fatalf("unexpected tax rate %s (%v)", rate, err)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SESSION_BACKEND", "memory")
	t.Setenv("SESSION_WRITE_BEHIND", "true")
	t.Setenv("TAX_RATE", "0.1")

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "9090" || cfg.Session.Backend != BackendMemory || !cfg.Session.WriteBehind {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLoad_RejectsUnknownBackend(t *testing.T) {
	t.Setenv("SESSION_BACKEND", "localstorage")
	if _, err := Load(context.Background()); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestLoad_RequiresSecretInProduction(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("JWT_SECRET", "")
	if _, err := Load(context.Background()); err == nil {
		t.Fatal("expected error without JWT_SECRET")
	}
}

func TestLoad_RejectsBadTaxRate(t *testing.T) {
	t.Setenv("TAX_RATE", "-0.2")
	if _, err := Load(context.Background()); err == nil {
		t.Fatal("expected error for negative tax rate")
	}
}
