// Package logs reads back recent daemon log output for the CLI.
package logs

import (
	"bufio"
	"errors"
	"fmt"
	"os"
)

// Tail returns up to limit trailing lines from the log file at path. A
// missing file yields no lines; limit <= 0 returns everything.
func Tail(path string, limit int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat log file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("log path %q is a directory", path)
	}

	var lines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
		if limit > 0 && len(lines) > limit {
			lines = lines[1:]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log file: %w", err)
	}
	return lines, nil
}
