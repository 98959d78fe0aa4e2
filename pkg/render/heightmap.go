package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
)

// HeightmapPNG encodes a row-major grid of noise values as a grayscale PNG.
// Values are mapped linearly from [-1, 1] to black..white; values outside
// the canonical range are clamped.
func HeightmapPNG(values []float64, width, height int) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid grid size %dx%d", width, height)
	}
	if len(values) != width*height {
		return nil, fmt.Errorf("grid has %d values, expected %d", len(values), width*height)
	}

	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := values[y*width+x]
			if v < -1 {
				v = -1
			} else if v > 1 {
				v = 1
			}
			img.SetGray(x, y, color.Gray{Y: uint8((v + 1) / 2 * 255)})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
