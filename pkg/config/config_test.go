package config

import (
	"os"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if !cfg.App.IsDev() {
		t.Fatalf("expected default env to be development, got %q", cfg.App.Env)
	}
	if cfg.DB.DSN != "file:furniture.db?_busy_timeout=5000" {
		t.Fatalf("unexpected default DSN %q", cfg.DB.DSN)
	}
	if cfg.DB.MaxOpenConns != 1 {
		t.Fatalf("expected single-writer pool, got %d", cfg.DB.MaxOpenConns)
	}
	if !cfg.FeatureFlags.AutoMigrate || !cfg.FeatureFlags.SeedOnBoot {
		t.Fatalf("expected auto-migrate and seed-on-boot defaults to be on")
	}
}

func TestLoad_ExplicitDSNWins(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvDBDSN, "file::memory:?cache=shared")
	t.Setenv(EnvDBPath, "ignored.db")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.DB.DSN != "file::memory:?cache=shared" {
		t.Fatalf("explicit DSN should win, got %q", cfg.DB.DSN)
	}
}

func TestLoad_ProdEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvAppEnv, "Production")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if !cfg.App.IsProd() {
		t.Fatalf("expected prod env match, got %q", cfg.App.Env)
	}
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvAppEnv, EnvDBDSN, EnvDBPath} {
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("failed to unset %s: %v", key, err)
		}
	}
}
