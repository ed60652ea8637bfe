package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadAppliesDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Fatalf("expected default addr :8080, got %s", cfg.Server.Addr)
	}
	if cfg.Server.MetricsAddr != "" {
		t.Fatalf("expected dedicated metrics listener disabled by default, got %q", cfg.Server.MetricsAddr)
	}
	if cfg.Stress.Threshold != -1.0 {
		t.Fatalf("expected default threshold -1.0, got %f", cfg.Stress.Threshold)
	}
	if cfg.Stress.DriftScale != 800.0 {
		t.Fatalf("expected default drift scale 800, got %f", cfg.Stress.DriftScale)
	}
	if cfg.Refresh.Interval != 10*time.Minute {
		t.Fatalf("expected default refresh interval 10m, got %s", cfg.Refresh.Interval)
	}
	if cfg.Feeds.Timeout != 10*time.Second {
		t.Fatalf("expected default feed timeout 10s, got %s", cfg.Feeds.Timeout)
	}
	if len(cfg.Feeds.PlasmaURLs) != 3 {
		t.Fatalf("expected 3 default plasma endpoints, got %d", len(cfg.Feeds.PlasmaURLs))
	}
}

func TestLoadReadsFileAndKeepsRemainingDefaults(t *testing.T) {
	dir := t.TempDir()
	body := `
server:
  addr: ":9000"
refresh:
  interval: 1m
stress:
  threshold: -0.5
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Server.Addr != ":9000" {
		t.Fatalf("expected addr :9000, got %s", cfg.Server.Addr)
	}
	if cfg.Refresh.Interval != time.Minute {
		t.Fatalf("expected refresh interval 1m, got %s", cfg.Refresh.Interval)
	}
	if cfg.Stress.Threshold != -0.5 {
		t.Fatalf("expected threshold -0.5, got %f", cfg.Stress.Threshold)
	}
	if cfg.Feeds.MinMag != 2.5 {
		t.Fatalf("expected default min magnitude 2.5, got %f", cfg.Feeds.MinMag)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()
	body := `
feeds:
  timeout: -1s
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(dir); err == nil {
		t.Fatal("expected validation error for negative timeout")
	}
}
