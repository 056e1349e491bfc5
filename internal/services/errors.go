package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidParameter marks out-of-range stage configuration. Fatal; never retried.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrDecode marks stored bytes that are not a valid image.
	ErrDecode = errors.New("decode error")
	// ErrProcessing marks data-dependent or transient raster processing failures.
	ErrProcessing = errors.New("processing error")
	// ErrStorageUnavailable marks an artifact medium that cannot be created or written.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrNotFound marks a locator that resolves to nothing, which indicates a
	// coordination bug rather than a data problem.
	ErrNotFound = errors.New("not found")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrProcessing
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// ErrorDetails carries the user-facing pieces of a classified stage error.
type ErrorDetails struct {
	Kind    string
	Message string
}

// Details extracts the taxonomy kind and a display message from a stage error.
func Details(err error) ErrorDetails {
	if err == nil {
		return ErrorDetails{}
	}
	kind := "processing error"
	switch {
	case errors.Is(err, ErrInvalidParameter):
		kind = "invalid parameter"
	case errors.Is(err, ErrDecode):
		kind = "decode error"
	case errors.Is(err, ErrStorageUnavailable):
		kind = "storage unavailable"
	case errors.Is(err, ErrNotFound):
		kind = "not found"
	}
	message := strings.TrimSpace(err.Error())
	if prefix := kind + ": "; strings.HasPrefix(message, prefix) {
		message = strings.TrimSpace(strings.TrimPrefix(message, prefix))
	}
	return ErrorDetails{Kind: kind, Message: message}
}

// IsFatal reports whether an error must not be retried by queue retry
// sweeps: bad configuration and broken coordination do not heal on their own.
func IsFatal(err error) bool {
	return errors.Is(err, ErrInvalidParameter) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrStorageUnavailable)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "stage failure"
	}
	return strings.Join(parts, ": ")
}
