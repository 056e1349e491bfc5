package preflight

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"roundel/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Artifact root", cfg.Paths.ArtifactRoot),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
	}
	if cfg.Pipeline.MinFreeMB > 0 {
		results = append(results, CheckFreeSpace("Artifact medium", cfg.Paths.ArtifactRoot, cfg.Pipeline.MinFreeMB))
	}
	return results
}

// Passed reports whether every result in the set passed.
func Passed(results []Result) bool {
	for _, result := range results {
		if !result.Passed {
			return false
		}
	}
	return true
}

// Summarize joins the failing checks into one error message.
func Summarize(results []Result) string {
	var failures []string
	for _, result := range results {
		if !result.Passed {
			failures = append(failures, fmt.Sprintf("%s: %s", result.Name, result.Detail))
		}
	}
	return strings.Join(failures, "; ")
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckFreeSpace verifies the filesystem holding path has at least minFreeMB
// megabytes available.
func CheckFreeSpace(name, path string, minFreeMB int) Result {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	freeMB := stat.Bavail * uint64(stat.Bsize) / (1024 * 1024)
	if freeMB < uint64(minFreeMB) {
		return Result{Name: name, Detail: fmt.Sprintf("%s (%d MB free, %d MB required)", path, freeMB, minFreeMB)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d MB free)", path, freeMB)}
}
