package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	_ "image/gif"
	_ "image/jpeg"
)

// Decode parses stored bytes into an in-memory raster.
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// EncodePNG serializes an image to the pipeline's fixed lossless format.
func EncodePNG(img image.Image) ([]byte, error) {
	if img == nil {
		return nil, fmt.Errorf("encode image: nil image")
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// toNRGBA returns src as an NRGBA buffer, copying even when src already is
// one so callers can write to the result without aliasing the input.
func toNRGBA(src image.Image) *image.NRGBA {
	bounds := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), src, bounds.Min, draw.Src)
	return dst
}
