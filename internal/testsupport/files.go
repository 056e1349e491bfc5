package testsupport

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// PNGBytes encodes a solid-color PNG of the given dimensions.
func PNGBytes(t testing.TB, width, height int, fill color.Color) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, fill)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// GradientPNGBytes encodes a PNG whose red channel ramps left to right and
// green channel ramps top to bottom. Useful when a test needs spatial
// variation that blur or crop operations will visibly change.
func GradientPNGBytes(t testing.TB, width, height int) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r := uint8(0)
			if width > 1 {
				r = uint8(x * 255 / (width - 1))
			}
			g := uint8(0)
			if height > 1 {
				g = uint8(y * 255 / (height - 1))
			}
			img.SetNRGBA(x, y, color.NRGBA{R: r, G: g, B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// WritePNG writes a solid-color PNG to the target path, creating parent
// directories as needed, and returns the path.
func WritePNG(t testing.TB, path string, width, height int, fill color.Color) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, PNGBytes(t, width, height, fill), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
