package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"roundel/internal/config"
)

func TestDefaultValidates(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.Pipeline.BlurRadius != 10 {
		t.Fatalf("unexpected default blur radius %d", cfg.Pipeline.BlurRadius)
	}
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if exists {
		t.Fatal("expected missing config file")
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if cfg.Workflow.QueuePollInterval != 2 {
		t.Fatalf("expected default poll interval, got %d", cfg.Workflow.QueuePollInterval)
	}
}

func TestLoadParsesAndExpands(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := `
[paths]
artifact_root = "` + filepath.Join(dir, "artifacts") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"

[pipeline]
blur_radius = 4

[logging]
format = "JSON"
level = "Debug"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if cfg.Pipeline.BlurRadius != 4 {
		t.Fatalf("expected blur radius 4, got %d", cfg.Pipeline.BlurRadius)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("expected normalized logging values, got %q/%q", cfg.Logging.Format, cfg.Logging.Level)
	}
	if !filepath.IsAbs(cfg.Paths.ArtifactRoot) {
		t.Fatalf("expected absolute artifact root, got %q", cfg.Paths.ArtifactRoot)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"zero radius", func(c *config.Config) { c.Pipeline.BlurRadius = 0 }, "blur_radius"},
		{"radius too large", func(c *config.Config) { c.Pipeline.BlurRadius = 26 }, "blur_radius"},
		{"empty artifact root", func(c *config.Config) { c.Paths.ArtifactRoot = "" }, "artifact_root"},
		{"bad log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"bad ntfy topic", func(c *config.Config) { c.Notifications.NtfyTopic = "not-a-url" }, "ntfy_topic"},
		{"zero poll interval", func(c *config.Config) { c.Workflow.QueuePollInterval = 0 }, "queue_poll_interval"},
	}
	for _, tc := range cases {
		cfg := config.Default()
		tc.mutate(&cfg)
		err := cfg.Validate()
		if err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: expected error mentioning %q, got %v", tc.name, tc.want, err)
		}
	}
}

func TestWriteSampleRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := config.WriteSample(path); err != nil {
		t.Fatalf("WriteSample failed: %v", err)
	}
	if err := config.WriteSample(path); err == nil {
		t.Fatal("expected error when file exists")
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config should load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sample config should validate: %v", err)
	}
}
