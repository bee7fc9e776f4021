package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"APP_ENV", "PORT", "ALLOWED_ORIGIN", "DATABASE_URL",
		"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "CACHE_TTL_SECONDS", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Env != "development" {
		t.Fatalf("Env = %q", cfg.Env)
	}
	if cfg.Port != "8080" {
		t.Fatalf("Port = %q", cfg.Port)
	}
	if cfg.AllowedOrigin != "http://127.0.0.1:3000" {
		t.Fatalf("AllowedOrigin = %q", cfg.AllowedOrigin)
	}
	if cfg.CacheTTLSeconds != 60 {
		t.Fatalf("CacheTTLSeconds = %d", cfg.CacheTTLSeconds)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.Address() != ":8080" {
		t.Fatalf("Address = %q", cfg.Address())
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_URL", "postgres://localhost/cyclebay")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("CACHE_TTL_SECONDS", "120")

	cfg := Load()
	if cfg.Env != "production" || cfg.Port != "9090" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.DatabaseURL != "postgres://localhost/cyclebay" {
		t.Fatalf("DatabaseURL = %q", cfg.DatabaseURL)
	}
	if cfg.RedisAddr != "localhost:6379" || cfg.RedisDB != 3 {
		t.Fatalf("redis cfg = %+v", cfg)
	}
	if cfg.CacheTTLSeconds != 120 {
		t.Fatalf("CacheTTLSeconds = %d", cfg.CacheTTLSeconds)
	}
}

func TestLoadRejectsBadTTL(t *testing.T) {
	t.Setenv("CACHE_TTL_SECONDS", "-5")
	if cfg := Load(); cfg.CacheTTLSeconds != 60 {
		t.Fatalf("CacheTTLSeconds = %d, want fallback 60", cfg.CacheTTLSeconds)
	}
}
