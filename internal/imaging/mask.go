package imaging

import (
	"errors"
	"image"
	"image/draw"
	"math"
)

// ErrEmpty reports an input raster with zero width or height.
var ErrEmpty = errors.New("image has zero width or height")

// CircleMask crops src to its largest centered square and makes every pixel
// outside the inscribed circle fully transparent. The output canvas is
// side x side where side = min(width, height), always with an alpha channel,
// and carries a one-pixel anti-alias band at the circle boundary.
func CircleMask(src image.Image) (*image.NRGBA, error) {
	if src == nil {
		return nil, errors.New("mask: nil image")
	}
	bounds := src.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width == 0 || height == 0 {
		return nil, ErrEmpty
	}

	side := width
	if height < side {
		side = height
	}

	// Centered crop: the side x side canvas picks up the middle of the
	// longer axis.
	cropOrigin := image.Pt(bounds.Min.X+(width-side)/2, bounds.Min.Y+(height-side)/2)
	dst := image.NewNRGBA(image.Rect(0, 0, side, side))
	draw.Draw(dst, dst.Bounds(), src, cropOrigin, draw.Src)

	center := float64(side) / 2
	radius := center
	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			dx := float64(x) + 0.5 - center
			dy := float64(y) + 0.5 - center
			distance := math.Sqrt(dx*dx + dy*dy)

			var factor float64
			switch {
			case distance <= radius-0.5:
				continue // fully inside, keep source alpha
			case distance >= radius+0.5:
				factor = 0
			default:
				factor = radius + 0.5 - distance
			}

			offset := dst.PixOffset(x, y)
			dst.Pix[offset+3] = roundByte(factor * float64(dst.Pix[offset+3]))
		}
	}

	return dst, nil
}
