// Signboard - Networked Digital Signage Controller
// Copyright 2026 Signboard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signboard-dev/signboard

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != 8671 {
		t.Errorf("server.port = %d, want 8671", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("server.host = %s, want 0.0.0.0", cfg.Server.Host)
	}
	if cfg.Cache.TTL != 5*time.Minute {
		t.Errorf("cache.ttl = %v, want 5m", cfg.Cache.TTL)
	}
	if cfg.Cache.CleanupInterval != 5*time.Minute {
		t.Errorf("cache.cleanup_interval = %v, want 5m", cfg.Cache.CleanupInterval)
	}
	if cfg.Database.MaxMemory != "512MB" {
		t.Errorf("database.max_memory = %s, want 512MB", cfg.Database.MaxMemory)
	}
	if cfg.Database.SeedDemoData {
		t.Error("database.seed_demo_data should default to false")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("logging.level = %s, want info", cfg.Logging.Level)
	}
	if cfg.Security.RateLimitReqs != 100 {
		t.Errorf("security.rate_limit_reqs = %d, want 100", cfg.Security.RateLimitReqs)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9100")
	t.Setenv("DUCKDB_PATH", "/tmp/signboard-test.duckdb")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("SEED_DEMO_DATA", "true")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != 9100 {
		t.Errorf("server.port = %d, want 9100", cfg.Server.Port)
	}
	if cfg.Database.Path != "/tmp/signboard-test.duckdb" {
		t.Errorf("database.path = %s, want /tmp/signboard-test.duckdb", cfg.Database.Path)
	}
	if cfg.Cache.TTL != 90*time.Second {
		t.Errorf("cache.ttl = %v, want 90s", cfg.Cache.TTL)
	}
	if !cfg.Database.SeedDemoData {
		t.Error("database.seed_demo_data should be true")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("logging.level = %s, want debug", cfg.Logging.Level)
	}
}

func TestLoadCORSOriginsFromEnv(t *testing.T) {
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if len(cfg.Security.CORSOrigins) != 2 {
		t.Fatalf("cors_origins = %v, want 2 entries", cfg.Security.CORSOrigins)
	}
	if cfg.Security.CORSOrigins[1] != "https://b.example.com" {
		t.Errorf("cors_origins[1] = %s, want https://b.example.com", cfg.Security.CORSOrigins[1])
	}
}

func TestLoadUnmappedEnvIgnored(t *testing.T) {
	t.Setenv("PATH_MAX_SOMETHING", "should-not-leak")

	if _, err := Load(); err != nil {
		t.Fatalf("Load() failed on unmapped env var: %v", err)
	}
}

func TestLoadInvalidPortRejected(t *testing.T) {
	t.Setenv("HTTP_PORT", "-1")

	if _, err := Load(); err == nil {
		t.Error("Load() should reject a negative port")
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("server:\n  port: 9200\ncache:\n  ttl: 2m\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != 9200 {
		t.Errorf("server.port = %d, want 9200 from file", cfg.Server.Port)
	}
	if cfg.Cache.TTL != 2*time.Minute {
		t.Errorf("cache.ttl = %v, want 2m from file", cfg.Cache.TTL)
	}
}

func TestEnvBeatsConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 9200\n"), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "9300")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != 9300 {
		t.Errorf("server.port = %d, want env override 9300", cfg.Server.Port)
	}
}

func TestIsDevelopment(t *testing.T) {
	cfg := defaultConfig()
	if !cfg.IsDevelopment() {
		t.Error("default environment should be development")
	}
	cfg.Server.Environment = "production"
	if cfg.IsDevelopment() {
		t.Error("production environment should not be development")
	}
}
