package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return dir
}

func TestLoadConfig(t *testing.T) {
	dir := writeTestConfig(t, `
server:
  port: "9090"
  mode: release
database:
  host: db.internal
  port: 3306
  user: codequest
  dbname: codequest
jwt:
  secret: test-secret
  expire_hours: 24h
judge0:
  url: https://judge0-ce.p.rapidapi.com
  host: judge0-ce.p.rapidapi.com
session:
  max_idle_minutes: 30
`)

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Server.Port = %q; want %q", cfg.Server.Port, "9090")
	}
	if cfg.Database.Host != "db.internal" {
		t.Errorf("Database.Host = %q; want %q", cfg.Database.Host, "db.internal")
	}
	if cfg.JWT.ExpireTime != 24*time.Hour {
		t.Errorf("JWT.ExpireTime = %v; want 24h", cfg.JWT.ExpireTime)
	}
	if cfg.Judge0.URL != "https://judge0-ce.p.rapidapi.com" {
		t.Errorf("Judge0.URL = %q", cfg.Judge0.URL)
	}
	if cfg.Session.MaxIdleMinutes != 30 {
		t.Errorf("Session.MaxIdleMinutes = %d; want 30", cfg.Session.MaxIdleMinutes)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	dir := writeTestConfig(t, "server:\n  mode: debug\n")

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("default Server.Port = %q; want %q", cfg.Server.Port, "8080")
	}
	if cfg.Storage.Type != "local" {
		t.Errorf("default Storage.Type = %q; want %q", cfg.Storage.Type, "local")
	}
	if cfg.Session.MaxIdleMinutes != 120 {
		t.Errorf("default Session.MaxIdleMinutes = %d; want 120", cfg.Session.MaxIdleMinutes)
	}
}
