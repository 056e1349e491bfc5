package artifacts

import (
	"fmt"
	"path/filepath"
	"strings"

	"roundel/internal/services"
)

// Locator is an opaque URI-like reference to one stored binary image.
// Immutable once issued. Two schemes are resolved by the store:
//
//	roundel://<job-slug>/<file>  store-managed artifact
//	file://<absolute-path>       externally supplied input
//
// External inputs live outside every job namespace, so Clear never touches
// them and a re-run can read the same source again.
type Locator string

const (
	storeScheme    = "roundel://"
	externalScheme = "file://"
)

func (l Locator) String() string { return string(l) }

// IsExternal reports whether the locator references a file outside the store.
func (l Locator) IsExternal() bool {
	return strings.HasPrefix(string(l), externalScheme)
}

// ExternalLocator wraps an absolute file path as a locator the store can read.
func ExternalLocator(path string) (Locator, error) {
	abs, err := filepath.Abs(strings.TrimSpace(path))
	if err != nil {
		return "", fmt.Errorf("resolve external path: %w", err)
	}
	return Locator(externalScheme + abs), nil
}

func storeLocator(jobSlug, fileName string) Locator {
	return Locator(storeScheme + jobSlug + "/" + fileName)
}

// split decomposes a store-managed locator into its namespace slug and file
// name, rejecting malformed or traversal-bearing values.
func (l Locator) split() (slug, file string, err error) {
	raw := string(l)
	if !strings.HasPrefix(raw, storeScheme) {
		return "", "", fmt.Errorf("%w: malformed locator %q", services.ErrNotFound, raw)
	}
	rest := strings.TrimPrefix(raw, storeScheme)
	slug, file, ok := strings.Cut(rest, "/")
	if !ok || slug == "" || file == "" {
		return "", "", fmt.Errorf("%w: malformed locator %q", services.ErrNotFound, raw)
	}
	if strings.Contains(file, "/") || file == "." || file == ".." || strings.Contains(slug, "..") {
		return "", "", fmt.Errorf("%w: malformed locator %q", services.ErrNotFound, raw)
	}
	return slug, file, nil
}

// Slug normalizes a job name into a filesystem-safe namespace directory name.
func Slug(jobName string) string {
	lowered := strings.ToLower(strings.TrimSpace(jobName))
	var builder strings.Builder
	lastHyphen := false
	for _, r := range lowered {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			builder.WriteRune(r)
			lastHyphen = false
		case r == ' ' || r == '-' || r == '_' || r == '.':
			if !lastHyphen && builder.Len() > 0 {
				builder.WriteRune('-')
				lastHyphen = true
			}
		}
	}
	slug := strings.Trim(builder.String(), "-")
	if slug == "" {
		return "job"
	}
	return slug
}
