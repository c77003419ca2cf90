package fingerprint

import (
	"errors"
	"image"

	"golang.org/x/image/draw"
)

// ErrDegenerateImage is returned when an image has no pixels to sample.
var ErrDegenerateImage = errors.New("image has zero width or height")

// ResampleGray scales an image to width x height using bilinear interpolation
// and converts every pixel to a BT.601 luma intensity in [0, 255].
// The result is indexed [x][y]. Pure function of the input image and target size.
func ResampleGray(img image.Image, width, height int) ([][]float64, error) {
	if img == nil {
		return nil, errors.New("nil image")
	}
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, ErrDegenerateImage
	}
	if width <= 0 || height <= 0 {
		return nil, errors.New("target size must be positive")
	}

	// Bilinear rather than nearest-neighbor keeps the hashes stable across
	// small rescaling artifacts.
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	gray := make([][]float64, width)
	for x := range width {
		gray[x] = make([]float64, height)
		for y := range height {
			r, g, b, _ := dst.At(x, y).RGBA()
			// ITU-R BT.601 luma formula.
			gray[x][y] = 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)
		}
	}
	return gray, nil
}
