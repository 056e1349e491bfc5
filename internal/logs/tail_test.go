package logs_test

import (
	"os"
	"path/filepath"
	"testing"

	"roundel/internal/logs"
)

func TestTailReturnsTrailingLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roundel.log")
	if err := os.WriteFile(path, []byte("one\ntwo\nthree\nfour\n"), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}

	lines, err := logs.Tail(path, 2)
	if err != nil {
		t.Fatalf("Tail failed: %v", err)
	}
	if len(lines) != 2 || lines[0] != "three" || lines[1] != "four" {
		t.Fatalf("unexpected lines %v", lines)
	}
}

func TestTailMissingFileYieldsNothing(t *testing.T) {
	lines, err := logs.Tail(filepath.Join(t.TempDir(), "absent.log"), 10)
	if err != nil {
		t.Fatalf("Tail failed: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("expected no lines, got %v", lines)
	}
}

func TestTailZeroLimitReturnsAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roundel.log")
	if err := os.WriteFile(path, []byte("a\nb\n"), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
	lines, err := logs.Tail(path, 0)
	if err != nil {
		t.Fatalf("Tail failed: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %v", lines)
	}
}
