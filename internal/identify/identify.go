// Package identify derives human-facing job names from source image paths.
package identify

import (
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DeriveName produces a default job name from a source path: the base file
// name with separators collapsed to spaces and noise characters dropped.
func DeriveName(sourcePath string) string {
	if sourcePath == "" {
		return "image"
	}
	base := filepath.Base(sourcePath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	cleaned := strings.Builder{}
	prevSpace := false
	for _, r := range base {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			cleaned.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '.':
			if !prevSpace {
				cleaned.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	name := strings.ToLower(strings.TrimSpace(cleaned.String()))
	if name == "" {
		return "image"
	}
	return name
}

// DisplayTitle renders a job name for human-facing output.
func DisplayTitle(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Unknown Job"
	}
	return cases.Title(language.Und).String(name)
}
