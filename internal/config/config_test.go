package config

import (
	"log/slog"
	"strings"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 5001 {
		t.Errorf("expected port 5001, got %d", cfg.Server.Port)
	}
	if cfg.Storage.Driver != DriverPostgres {
		t.Errorf("expected postgres driver, got %s", cfg.Storage.Driver)
	}
	if cfg.Auth.TokenTTL != 24*time.Hour {
		t.Errorf("expected 24h token TTL, got %s", cfg.Auth.TokenTTL)
	}
	if cfg.Auth.BcryptCost != 10 {
		t.Errorf("expected bcrypt cost 10, got %d", cfg.Auth.BcryptCost)
	}
	if cfg.Redis.Address != "" {
		t.Errorf("expected no redis by default, got %q", cfg.Redis.Address)
	}
	if cfg.Progress.UpdateRetries != 3 {
		t.Errorf("expected 3 retries, got %d", cfg.Progress.UpdateRetries)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("expected info level, got %s", cfg.LogLevel)
	}
	if len(cfg.Server.AllowedOrigins) != 1 || cfg.Server.AllowedOrigins[0] != "*" {
		t.Errorf("expected wildcard origins, got %v", cfg.Server.AllowedOrigins)
	}
	if cfg.Server.HealthInterval != 30*time.Second {
		t.Errorf("expected 30s health interval, got %s", cfg.Server.HealthInterval)
	}
	if !cfg.Storage.Migrate {
		t.Error("expected migrations to run by default")
	}
	if cfg.Addr() != "0.0.0.0:5001" {
		t.Errorf("unexpected addr %s", cfg.Addr())
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("DATABASE_MIGRATE", "false")
	t.Setenv("TOKEN_TTL", "1h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("REDIS_ADDRESS", "redis:6379")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Server.Port)
	}
	if cfg.Storage.Driver != DriverMemory || cfg.Storage.Migrate {
		t.Errorf("unexpected storage config %+v", cfg.Storage)
	}
	if cfg.Auth.TokenTTL != time.Hour {
		t.Errorf("expected 1h, got %s", cfg.Auth.TokenTTL)
	}
	if got := strings.Join(cfg.Server.AllowedOrigins, "|"); got != "https://a.example|https://b.example" {
		t.Errorf("unexpected origins %q", got)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("expected debug level, got %s", cfg.LogLevel)
	}
	if cfg.Redis.Address != "redis:6379" {
		t.Errorf("unexpected redis address %q", cfg.Redis.Address)
	}
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("SERVER_PORT", "not-a-port")
	t.Setenv("LOCK_TTL", "soon")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 5001 {
		t.Errorf("expected default port, got %d", cfg.Server.Port)
	}
	if cfg.Redis.LockTTL != 5*time.Second {
		t.Errorf("expected default lock TTL, got %s", cfg.Redis.LockTTL)
	}
}

func TestValidate(t *testing.T) {
	tests := map[string]map[string]string{
		"missing secret": {"JWT_SECRET": ""},
		"short secret":   {"JWT_SECRET": "short"},
		"bad port":       {"SERVER_PORT": "70000"},
		"unknown driver": {"STORAGE_DRIVER": "mongo"},
		"empty dsn":      {"DATABASE_DSN": ""},
		"no retries":     {"UPDATE_RETRIES": "0"},
		"pool inverted":  {"DATABASE_MIN_CONNS": "30", "DATABASE_MAX_CONNS": "5"},
		"zero token ttl": {"TOKEN_TTL": "0s"},
		"zero lock ttl":  {"REDIS_ADDRESS": "redis:6379", "LOCK_TTL": "0s"},
	}

	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", testSecret)
			for k, v := range env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
