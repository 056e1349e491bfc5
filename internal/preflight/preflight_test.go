package preflight_test

import (
	"context"
	"image/color"
	"path/filepath"
	"strings"
	"testing"

	"roundel/internal/preflight"
	"roundel/internal/testsupport"
)

func TestRunAllPassesWithProvisionedDirectories(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}

	results := preflight.RunAll(context.Background(), cfg)
	if len(results) < 2 {
		t.Fatalf("expected at least 2 checks, got %d", len(results))
	}
	if !preflight.Passed(results) {
		t.Fatalf("expected all checks to pass: %s", preflight.Summarize(results))
	}
}

func TestMissingArtifactRootFails(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Paths.ArtifactRoot = filepath.Join(t.TempDir(), "nonexistent")

	results := preflight.RunAll(context.Background(), cfg)
	if preflight.Passed(results) {
		t.Fatal("expected failing check for missing artifact root")
	}
	if summary := preflight.Summarize(results); !strings.Contains(summary, "does not exist") {
		t.Fatalf("unexpected summary %q", summary)
	}
}

func TestCheckDirectoryAccessRejectsFile(t *testing.T) {
	file := testsupport.WritePNG(t, filepath.Join(t.TempDir(), "file.png"), 2, 2, color.NRGBA{A: 255})

	result := preflight.CheckDirectoryAccess("Artifact root", file)
	if result.Passed {
		t.Fatal("expected file path to fail directory check")
	}
	if !strings.Contains(result.Detail, "not a directory") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckFreeSpaceWithTinyRequirementPasses(t *testing.T) {
	result := preflight.CheckFreeSpace("Artifact medium", t.TempDir(), 1)
	if !result.Passed {
		t.Fatalf("expected pass, got %q", result.Detail)
	}
}
