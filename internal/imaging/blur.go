package imaging

import (
	"errors"
	"fmt"
	"image"
	"math"
)

// MaxRadius is the largest radius the blur primitive accepts.
const MaxRadius = 25

// ErrRadius reports a blur radius outside the primitive's valid range.
var ErrRadius = errors.New("blur radius out of range")

// GaussianBlur returns a blurred copy of src. The output has identical
// dimensions and channel layout; src is never modified. The kernel is a
// separable Gaussian with sigma = radius/2 and clamped edge sampling.
func GaussianBlur(src image.Image, radius int) (*image.NRGBA, error) {
	if radius <= 0 || radius > MaxRadius {
		return nil, fmt.Errorf("%w: %d (valid range 1..%d)", ErrRadius, radius, MaxRadius)
	}
	if src == nil {
		return nil, errors.New("blur: nil image")
	}

	in := toNRGBA(src)
	width := in.Rect.Dx()
	height := in.Rect.Dy()
	if width == 0 || height == 0 {
		return in, nil
	}

	kernel := gaussianKernel(radius)

	horizontal := image.NewNRGBA(image.Rect(0, 0, width, height))
	convolve(in, horizontal, kernel, width, height, true)

	out := image.NewNRGBA(image.Rect(0, 0, width, height))
	convolve(horizontal, out, kernel, width, height, false)

	return out, nil
}

func gaussianKernel(radius int) []float64 {
	sigma := float64(radius) / 2
	if sigma < 0.5 {
		sigma = 0.5
	}
	kernel := make([]float64, 2*radius+1)
	sum := 0.0
	for i := -radius; i <= radius; i++ {
		w := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		kernel[i+radius] = w
		sum += w
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

// convolve applies a one-dimensional kernel along either axis with clamped
// edge sampling.
func convolve(in, out *image.NRGBA, kernel []float64, width, height int, horizontal bool) {
	radius := (len(kernel) - 1) / 2
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var r, g, b, a float64
			for k := -radius; k <= radius; k++ {
				sx, sy := x, y
				if horizontal {
					sx = clamp(x+k, 0, width-1)
				} else {
					sy = clamp(y+k, 0, height-1)
				}
				offset := in.PixOffset(sx, sy)
				weight := kernel[k+radius]
				r += weight * float64(in.Pix[offset])
				g += weight * float64(in.Pix[offset+1])
				b += weight * float64(in.Pix[offset+2])
				a += weight * float64(in.Pix[offset+3])
			}
			offset := out.PixOffset(x, y)
			out.Pix[offset] = roundByte(r)
			out.Pix[offset+1] = roundByte(g)
			out.Pix[offset+2] = roundByte(b)
			out.Pix[offset+3] = roundByte(a)
		}
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func roundByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
