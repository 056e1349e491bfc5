package imaging_test

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"roundel/internal/imaging"
)

func TestCircleMaskCanvasIsInscribedSquare(t *testing.T) {
	cases := []struct {
		name   string
		width  int
		height int
		side   int
	}{
		{"landscape", 400, 300, 300},
		{"portrait", 300, 400, 300},
		{"square", 128, 128, 128},
	}
	for _, tc := range cases {
		src := solidImage(tc.width, tc.height, color.NRGBA{R: 10, G: 200, B: 30, A: 255})
		out, err := imaging.CircleMask(src)
		if err != nil {
			t.Fatalf("%s: CircleMask failed: %v", tc.name, err)
		}
		if out.Bounds().Dx() != tc.side || out.Bounds().Dy() != tc.side {
			t.Fatalf("%s: expected %dx%d canvas, got %dx%d", tc.name, tc.side, tc.side, out.Bounds().Dx(), out.Bounds().Dy())
		}
	}
}

func TestCircleMaskAlphaBoundary(t *testing.T) {
	fill := color.NRGBA{R: 90, G: 45, B: 200, A: 255}
	src := solidImage(400, 300, fill)
	out, err := imaging.CircleMask(src)
	if err != nil {
		t.Fatalf("CircleMask failed: %v", err)
	}

	side := out.Bounds().Dx()
	center := float64(side) / 2
	radius := center

	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			dx := float64(x) + 0.5 - center
			dy := float64(y) + 0.5 - center
			distance := math.Sqrt(dx*dx + dy*dy)
			px := out.NRGBAAt(x, y)

			switch {
			case distance >= radius+1:
				if px.A != 0 {
					t.Fatalf("pixel (%d,%d) outside circle has alpha %d", x, y, px.A)
				}
			case distance <= radius-1:
				if px.A != 255 {
					t.Fatalf("pixel (%d,%d) inside circle has alpha %d", x, y, px.A)
				}
				if px.R != fill.R || px.G != fill.G || px.B != fill.B {
					t.Fatalf("pixel (%d,%d) lost source color: %v", x, y, px)
				}
			}
		}
	}

	corners := [][2]int{{0, 0}, {side - 1, 0}, {0, side - 1}, {side - 1, side - 1}}
	for _, corner := range corners {
		if a := out.NRGBAAt(corner[0], corner[1]).A; a != 0 {
			t.Fatalf("corner (%d,%d) should be transparent, alpha=%d", corner[0], corner[1], a)
		}
	}
}

func TestCircleMaskCropsCenter(t *testing.T) {
	// Left half red, right half blue: a 400x300 input crops the middle
	// 300x300, so both halves remain visible in the output.
	src := image.NewNRGBA(image.Rect(0, 0, 400, 300))
	for y := 0; y < 300; y++ {
		for x := 0; x < 400; x++ {
			if x < 200 {
				src.SetNRGBA(x, y, color.NRGBA{R: 255, A: 255})
			} else {
				src.SetNRGBA(x, y, color.NRGBA{B: 255, A: 255})
			}
		}
	}
	out, err := imaging.CircleMask(src)
	if err != nil {
		t.Fatalf("CircleMask failed: %v", err)
	}
	left := out.NRGBAAt(20, 150)
	right := out.NRGBAAt(280, 150)
	if left.R != 255 || left.B != 0 {
		t.Fatalf("expected red on the left edge of the crop, got %v", left)
	}
	if right.B != 255 || right.R != 0 {
		t.Fatalf("expected blue on the right edge of the crop, got %v", right)
	}
}

func TestCircleMaskAlwaysProducesAlpha(t *testing.T) {
	// Opaque grayscale input still yields an NRGBA canvas with transparency
	// outside the circle.
	src := image.NewGray(image.Rect(0, 0, 60, 60))
	for y := 0; y < 60; y++ {
		for x := 0; x < 60; x++ {
			src.SetGray(x, y, color.Gray{Y: 128})
		}
	}
	out, err := imaging.CircleMask(src)
	if err != nil {
		t.Fatalf("CircleMask failed: %v", err)
	}
	if out.NRGBAAt(0, 0).A != 0 {
		t.Fatal("expected transparent corner on converted grayscale input")
	}
	if out.NRGBAAt(30, 30).A != 255 {
		t.Fatal("expected opaque center on converted grayscale input")
	}
}

func TestCircleMaskRejectsEmptyImage(t *testing.T) {
	for _, rect := range []image.Rectangle{image.Rect(0, 0, 0, 100), image.Rect(0, 0, 100, 0), image.Rectangle{}} {
		_, err := imaging.CircleMask(image.NewNRGBA(rect))
		if !errors.Is(err, imaging.ErrEmpty) {
			t.Fatalf("rect %v: expected ErrEmpty, got %v", rect, err)
		}
	}
}

func TestCodecRoundTrip(t *testing.T) {
	src := solidImage(10, 10, color.NRGBA{R: 1, G: 2, B: 3, A: 255})
	data, err := imaging.EncodePNG(src)
	if err != nil {
		t.Fatalf("EncodePNG failed: %v", err)
	}
	decoded, err := imaging.Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if decoded.Bounds().Dx() != 10 || decoded.Bounds().Dy() != 10 {
		t.Fatalf("unexpected decoded bounds %v", decoded.Bounds())
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := imaging.Decode([]byte("not an image")); err == nil {
		t.Fatal("expected decode error")
	}
}
