package artifacts

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"roundel/internal/fileutil"
	"roundel/internal/imaging"
	"roundel/internal/services"
)

// Store manages namespaced binary artifacts under a single root directory.
// Each job name maps to one namespace directory; writes allocate fresh
// uuid-suffixed file names so no two successful writes reuse a locator.
type Store struct {
	root string
}

// NewStore builds a store rooted at the given directory. The root is created
// lazily on first write.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// Root returns the store's root directory.
func (s *Store) Root() string { return s.root }

// Write persists data as a new artifact in the job's namespace and returns
// its locator. The namespace directory is created on first use. The file is
// written to a temporary name and renamed so readers never observe a
// half-written artifact.
func (s *Store) Write(jobName, prefix, ext string, data []byte) (Locator, error) {
	slug := Slug(jobName)
	dir := filepath.Join(s.root, slug)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create namespace %s: %w", services.ErrStorageUnavailable, slug, err)
	}

	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "artifact"
	}
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	fileName := fmt.Sprintf("%s-%s%s", prefix, uuid.NewString(), ext)

	target := filepath.Join(dir, fileName)
	if err := fileutil.WriteAtomic(target, data, 0o644); err != nil {
		return "", fmt.Errorf("%w: write artifact: %w", services.ErrStorageUnavailable, err)
	}

	return storeLocator(slug, fileName), nil
}

// Read returns the raw bytes behind a locator.
func (s *Store) Read(locator Locator) ([]byte, error) {
	path, err := s.Resolve(locator)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: locator %s", services.ErrNotFound, locator)
		}
		return nil, fmt.Errorf("%w: read artifact %s: %w", services.ErrStorageUnavailable, locator, err)
	}
	return data, nil
}

// ReadImage decodes the artifact behind a locator into an in-memory raster.
func (s *Store) ReadImage(locator Locator) (image.Image, error) {
	data, err := s.Read(locator)
	if err != nil {
		return nil, err
	}
	img, err := imaging.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: locator %s: %w", services.ErrDecode, locator, err)
	}
	return img, nil
}

// Resolve maps a locator onto its filesystem path.
func (s *Store) Resolve(locator Locator) (string, error) {
	if locator.IsExternal() {
		return strings.TrimPrefix(string(locator), externalScheme), nil
	}
	slug, file, err := locator.split()
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, slug, file), nil
}

// Clear deletes every artifact in the job's namespace. Clearing an empty or
// nonexistent namespace succeeds silently.
func (s *Store) Clear(jobName string) error {
	dir := filepath.Join(s.root, Slug(jobName))
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("%w: clear namespace %s: %w", services.ErrStorageUnavailable, Slug(jobName), err)
	}
	return nil
}

// List returns the artifact file names currently present in the job's
// namespace, in directory order. A missing namespace yields an empty list.
func (s *Store) List(jobName string) ([]string, error) {
	dir := filepath.Join(s.root, Slug(jobName))
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: list namespace %s: %w", services.ErrStorageUnavailable, Slug(jobName), err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}
