package artifacts_test

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"roundel/internal/artifacts"
	"roundel/internal/services"
	"roundel/internal/testsupport"
)

func TestWriteReadRoundTrip(t *testing.T) {
	store := artifacts.NewStore(t.TempDir())

	data := testsupport.PNGBytes(t, 20, 10, color.NRGBA{R: 255, A: 255})
	locator, err := store.Write("Avatar Job", "blur", ".png", data)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if !strings.HasPrefix(locator.String(), "roundel://avatar-job/blur-") {
		t.Fatalf("unexpected locator %q", locator)
	}
	if !strings.HasSuffix(locator.String(), ".png") {
		t.Fatalf("expected .png suffix, got %q", locator)
	}

	read, err := store.Read(locator)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(read) != len(data) {
		t.Fatalf("expected %d bytes, got %d", len(data), len(read))
	}

	img, err := store.ReadImage(locator)
	if err != nil {
		t.Fatalf("ReadImage failed: %v", err)
	}
	if img.Bounds().Dx() != 20 || img.Bounds().Dy() != 10 {
		t.Fatalf("unexpected decoded bounds %v", img.Bounds())
	}
}

func TestWriteAllocatesUniqueLocators(t *testing.T) {
	store := artifacts.NewStore(t.TempDir())
	seen := make(map[artifacts.Locator]struct{})
	for i := 0; i < 20; i++ {
		locator, err := store.Write("job", "mask", ".png", []byte("payload"))
		if err != nil {
			t.Fatalf("Write failed: %v", err)
		}
		if _, dup := seen[locator]; dup {
			t.Fatalf("locator %q reused", locator)
		}
		seen[locator] = struct{}{}
	}
}

func TestReadUnknownLocatorIsNotFound(t *testing.T) {
	store := artifacts.NewStore(t.TempDir())

	_, err := store.Read(artifacts.Locator("roundel://job/missing-file.png"))
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	_, err = store.Read(artifacts.Locator("bogus"))
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("malformed locator: expected ErrNotFound, got %v", err)
	}
}

func TestReadImageRejectsInvalidBytes(t *testing.T) {
	store := artifacts.NewStore(t.TempDir())
	locator, err := store.Write("job", "blur", ".png", []byte("not an image"))
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	_, err = store.ReadImage(locator)
	if !errors.Is(err, services.ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}

func TestClearIsIdempotent(t *testing.T) {
	store := artifacts.NewStore(t.TempDir())

	// Clearing a namespace that never existed succeeds silently.
	if err := store.Clear("never-created"); err != nil {
		t.Fatalf("Clear on missing namespace failed: %v", err)
	}

	if _, err := store.Write("job", "blur", ".png", []byte("a")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if _, err := store.Write("job", "mask", ".png", []byte("b")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	if err := store.Clear("job"); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	names, err := store.List("job")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(names) != 0 {
		t.Fatalf("expected empty namespace, got %v", names)
	}

	// Second clear is a no-op.
	if err := store.Clear("job"); err != nil {
		t.Fatalf("repeat Clear failed: %v", err)
	}
}

func TestClearDoesNotTouchOtherNamespaces(t *testing.T) {
	store := artifacts.NewStore(t.TempDir())
	kept, err := store.Write("keep", "final", ".png", []byte("keep-me"))
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if _, err := store.Write("drop", "final", ".png", []byte("drop-me")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	if err := store.Clear("drop"); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, err := store.Read(kept); err != nil {
		t.Fatalf("artifact in sibling namespace lost: %v", err)
	}
}

func TestExternalLocatorReads(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "input.png")
	data := testsupport.PNGBytes(t, 4, 4, color.NRGBA{G: 255, A: 255})
	if err := os.WriteFile(source, data, 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	locator, err := artifacts.ExternalLocator(source)
	if err != nil {
		t.Fatalf("ExternalLocator failed: %v", err)
	}
	if !locator.IsExternal() {
		t.Fatalf("expected external locator, got %q", locator)
	}

	store := artifacts.NewStore(filepath.Join(dir, "store"))
	img, err := store.ReadImage(locator)
	if err != nil {
		t.Fatalf("ReadImage failed: %v", err)
	}
	if img.Bounds().Dx() != 4 {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}

	// External inputs survive namespace clears.
	if err := store.Clear("anything"); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, err := store.Read(locator); err != nil {
		t.Fatalf("external input lost after clear: %v", err)
	}
}

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"Avatar Job":     "avatar-job",
		"  Weird__Name ": "weird-name",
		"UPPER.case":     "upper-case",
		"":               "job",
		"///":            "job",
	}
	for input, want := range cases {
		if got := artifacts.Slug(input); got != want {
			t.Fatalf("Slug(%q) = %q, want %q", input, got, want)
		}
	}
}
