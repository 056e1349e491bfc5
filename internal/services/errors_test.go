package services_test

import (
	"errors"
	"testing"

	"roundel/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	err := services.Wrap(services.ErrDecode, "blur", "read input", "Stored bytes are not a valid image", errors.New("png: invalid format"))
	if !errors.Is(err, services.ErrDecode) {
		t.Fatalf("expected ErrDecode marker, got %v", err)
	}
	details := services.Details(err)
	if details.Kind != "decode error" {
		t.Fatalf("unexpected kind %q", details.Kind)
	}
	if details.Message == "" {
		t.Fatal("expected non-empty message")
	}
}

func TestWrapDefaultsToProcessing(t *testing.T) {
	err := services.Wrap(nil, "mask", "", "", nil)
	if !errors.Is(err, services.ErrProcessing) {
		t.Fatalf("expected ErrProcessing default, got %v", err)
	}
}

func TestIsFatal(t *testing.T) {
	cases := []struct {
		name   string
		marker error
		fatal  bool
	}{
		{"invalid parameter", services.ErrInvalidParameter, true},
		{"not found", services.ErrNotFound, true},
		{"storage unavailable", services.ErrStorageUnavailable, true},
		{"decode", services.ErrDecode, false},
		{"processing", services.ErrProcessing, false},
	}
	for _, tc := range cases {
		err := services.Wrap(tc.marker, "stage", "op", "msg", nil)
		if services.IsFatal(err) != tc.fatal {
			t.Fatalf("%s: expected fatal=%v", tc.name, tc.fatal)
		}
	}
}
