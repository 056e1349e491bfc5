package main

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"roundel/internal/testsupport"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(`[paths]
artifact_root = %q
log_dir = %q

[pipeline]
blur_radius = 5
min_free_mb = 1

[workflow]
queue_poll_interval = 1
error_retry_interval = 1

[logging]
format = "json"
level = "error"
`, filepath.Join(base, "artifacts"), filepath.Join(base, "logs"))
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return configPath
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestAddProcessAndListRoundTrip(t *testing.T) {
	configPath := writeTestConfig(t)
	source := testsupport.WritePNG(t, filepath.Join(t.TempDir(), "portrait.png"), 64, 48, color.NRGBA{R: 120, G: 40, B: 200, A: 255})

	out, err := runCommand(t, "--config", configPath, "add", source, "--name", "portrait", "--radius", "4")
	if err != nil {
		t.Fatalf("add failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Queued job") {
		t.Fatalf("unexpected add output %q", out)
	}

	out, err = runCommand(t, "--config", configPath, "process")
	if err != nil {
		t.Fatalf("process failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "1 completed, 0 failed") {
		t.Fatalf("unexpected process output %q", out)
	}

	out, err = runCommand(t, "--config", configPath, "queue", "list")
	if err != nil {
		t.Fatalf("queue list failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Portrait") || !strings.Contains(out, "completed") {
		t.Fatalf("unexpected list output %q", out)
	}
}

func TestQueueListEmpty(t *testing.T) {
	configPath := writeTestConfig(t)
	out, err := runCommand(t, "--config", configPath, "queue", "list")
	if err != nil {
		t.Fatalf("queue list failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Queue is empty") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestQueueClearAndHealth(t *testing.T) {
	configPath := writeTestConfig(t)
	source := testsupport.WritePNG(t, filepath.Join(t.TempDir(), "photo.png"), 8, 8, color.NRGBA{G: 90, A: 255})

	if out, err := runCommand(t, "--config", configPath, "add", source); err != nil {
		t.Fatalf("add failed: %v\n%s", err, out)
	}

	out, err := runCommand(t, "--config", configPath, "queue", "health")
	if err != nil {
		t.Fatalf("queue health failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "1") {
		t.Fatalf("unexpected health output %q", out)
	}

	out, err = runCommand(t, "--config", configPath, "queue", "clear")
	if err != nil {
		t.Fatalf("queue clear failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Removed 1 job(s)") {
		t.Fatalf("unexpected clear output %q", out)
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	target := filepath.Join(t.TempDir(), "roundel", "config.toml")

	out, err := runCommand(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init failed: %v\n%s", err, out)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("config file missing: %v", err)
	}

	// Re-running init refuses to overwrite.
	if _, err := runCommand(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected second init to fail")
	}

	out, err = runCommand(t, "--config", target, "config", "validate")
	if err != nil {
		t.Fatalf("config validate failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Configuration valid") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestStatusRendersSections(t *testing.T) {
	configPath := writeTestConfig(t)
	out, err := runCommand(t, "--config", configPath, "status")
	if err != nil {
		t.Fatalf("status failed: %v\n%s", err, out)
	}
	for _, want := range []string{"Environment", "Stages", "Queue", "Cleanup", "Blur", "Mask", "Save"} {
		if !strings.Contains(out, want) {
			t.Fatalf("status output missing %q:\n%s", want, out)
		}
	}
}

func TestAddRejectsMissingFile(t *testing.T) {
	configPath := writeTestConfig(t)
	if _, err := runCommand(t, "--config", configPath, "add", filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Fatal("expected add to fail for missing file")
	}
}
