package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Paths.DataDir == "" {
		t.Error("expected a default data_dir")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected info level, got %s", cfg.Logging.Level)
	}
	if cfg.Webhook.Enabled {
		t.Error("webhook must be disabled by default")
	}
}

func TestLoad_NotExists(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if cfg == nil || cfg.Paths.WebDir == "" {
		t.Error("expected default config")
	}
}

func TestLoad_Exists(t *testing.T) {
	tmpDir := t.TempDir()
	configContent := `
paths:
  data_dir: /srv/interrupt/data
  web_dir: /srv/interrupt/www
  space_weather_dir: /srv/space_weather
logging:
  level: debug
  format: json
lock:
  ttl: 30m
`
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Paths.DataDir != "/srv/interrupt/data" {
		t.Errorf("data_dir mismatch: %s", cfg.Paths.DataDir)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("format mismatch: %s", cfg.Logging.Format)
	}
	if cfg.LockTTL() != 30*time.Minute {
		t.Errorf("lock ttl mismatch: %s", cfg.LockTTL())
	}
}

func TestLoad_BadYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("paths: [not a map"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(configPath); err == nil {
		t.Error("expected parse error")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "etc", "config.yaml")

	cfg := Default()
	cfg.Paths.WebDir = "/tmp/www"
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}

	back, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if back.Paths.WebDir != "/tmp/www" {
		t.Errorf("round-trip mismatch: %s", back.Paths.WebDir)
	}
}

func TestTestProfile(t *testing.T) {
	cfg := Default()
	cfg.Webhook.Enabled = true

	sandbox := cfg.TestProfile("/home/op/work")
	want := filepath.Join("/home/op/work", "test", "outTest")
	if sandbox.Paths.DataDir != want || sandbox.Paths.WebDir != want {
		t.Errorf("test profile must redirect outputs under %s, got %+v", want, sandbox.Paths)
	}
	if sandbox.Paths.SpaceWeatherDir != cfg.Paths.SpaceWeatherDir {
		t.Error("archive dir must be preserved")
	}
	if sandbox.Webhook.Enabled {
		t.Error("test profile must not publish webhooks")
	}
	// Original config untouched.
	if cfg.Paths.DataDir == want {
		t.Error("TestProfile must copy, not mutate")
	}
}

func TestLockTTL_Fallback(t *testing.T) {
	cfg := Default()
	cfg.Lock.TTL = "garbage"
	if cfg.LockTTL() != 2*time.Hour {
		t.Errorf("expected fallback TTL, got %s", cfg.LockTTL())
	}
}
