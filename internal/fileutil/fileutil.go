// Package fileutil provides filesystem helpers shared by the artifact store.
package fileutil

import (
	"fmt"
	"io"
	"os"
)

// WriteAtomic writes data to path via a temporary sibling file and rename, so
// readers never observe a partially written file. The temporary file is
// removed on failure.
func WriteAtomic(path string, data []byte, mode os.FileMode) error {
	temp := path + ".tmp"
	if err := os.WriteFile(temp, data, mode); err != nil {
		return err
	}
	if err := os.Rename(temp, path); err != nil {
		_ = os.Remove(temp)
		return fmt.Errorf("publish %s: %w", path, err)
	}
	return nil
}

// CopyFile streams src to dst with default permissions (0o644).
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
