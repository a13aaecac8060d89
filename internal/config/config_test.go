package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Fatalf("addr = %q", cfg.Addr)
	}
	if cfg.TokenDuration != 10*time.Hour {
		t.Fatalf("token duration = %v, want 10h", cfg.TokenDuration)
	}
	if cfg.StorageTimeout <= 0 {
		t.Fatalf("storage timeout must be bounded, got %v", cfg.StorageTimeout)
	}
	if cfg.GitHub.BaseURL != "https://api.github.com" {
		t.Fatalf("github base url = %q", cfg.GitHub.BaseURL)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("addr: \":9090\"\njwt_secret: filesecret\ndatabase_path: test.db\ngithub:\n  base_url: http://localhost:9999\n  retries: 5\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9090" {
		t.Fatalf("addr = %q", cfg.Addr)
	}
	if cfg.JWTSecret != "filesecret" {
		t.Fatalf("secret = %q", cfg.JWTSecret)
	}
	if cfg.DatabasePath != "test.db" {
		t.Fatalf("database path = %q", cfg.DatabasePath)
	}
	// fields absent from the file keep their defaults
	if cfg.TokenDuration != 10*time.Hour {
		t.Fatalf("token duration = %v", cfg.TokenDuration)
	}
	if cfg.GitHub.BaseURL != "http://localhost:9999" || cfg.GitHub.Retries != 5 {
		t.Fatalf("github config not decoded: %+v", cfg.GitHub)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("DEVCONNECT_ADDR", ":7070")
	t.Setenv("DEVCONNECT_JWT_SECRET", "envsecret")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":7070" {
		t.Fatalf("addr = %q", cfg.Addr)
	}
	if cfg.JWTSecret != "envsecret" {
		t.Fatalf("secret = %q", cfg.JWTSecret)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig("/no/such/config.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
