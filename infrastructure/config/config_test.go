package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.HTTP.Addr != ":8080" {
		t.Fatalf("expected default addr, got %q", c.HTTP.Addr)
	}
	if c.Print.PreparedByFallback != "GoDam User" {
		t.Fatalf("expected prepared-by fallback, got %q", c.Print.PreparedByFallback)
	}
	if c.Backend.Timeout != 10*time.Second {
		t.Fatalf("expected 10s backend timeout, got %s", c.Backend.Timeout)
	}
	if c.Progress.OrderIdle != 6*time.Hour {
		t.Fatalf("expected 6h order idle, got %s", c.Progress.OrderIdle)
	}
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "godam.yaml")
	body := []byte("app:\n  env: dev\nbackend:\n  base_url: http://backend:9000\n  timeout: 3s\nprint:\n  session_ttl: 5m\n")
	if err := os.WriteFile(path, body, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("GODAM_BACKEND_BASE_URL", "http://override:9001")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !c.Dev() {
		t.Fatalf("expected dev env from file")
	}
	if c.Backend.BaseURL != "http://override:9001" {
		t.Fatalf("expected env override, got %q", c.Backend.BaseURL)
	}
	if c.Backend.Timeout != 3*time.Second || c.Print.SessionTTL != 5*time.Minute {
		t.Fatalf("durations not decoded: timeout=%s ttl=%s", c.Backend.Timeout, c.Print.SessionTTL)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Chdir(t.TempDir())
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}
