package fingerprint

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func solidImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestResampleGrayDimensions(t *testing.T) {
	img := solidImage(100, 60, color.White)

	gray, err := ResampleGray(img, 32, 32)
	if err != nil {
		t.Fatalf("ResampleGray failed: %v", err)
	}

	if len(gray) != 32 {
		t.Errorf("width = %d; want 32", len(gray))
	}
	if len(gray[0]) != 32 {
		t.Errorf("height = %d; want 32", len(gray[0]))
	}
}

func TestResampleGrayLuma(t *testing.T) {
	tests := []struct {
		name     string
		c        color.RGBA
		expected float64
	}{
		{"red", color.RGBA{255, 0, 0, 255}, 0.299 * 255},
		{"green", color.RGBA{0, 255, 0, 255}, 0.587 * 255},
		{"blue", color.RGBA{0, 0, 255, 255}, 0.114 * 255},
		{"white", color.RGBA{255, 255, 255, 255}, 255},
		{"black", color.RGBA{0, 0, 0, 255}, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gray, err := ResampleGray(solidImage(20, 20, tc.c), 4, 4)
			if err != nil {
				t.Fatalf("ResampleGray failed: %v", err)
			}

			// Allow for 8-bit quantization in the scaler.
			const tolerance = 1.0
			if gray[0][0] < tc.expected-tolerance || gray[0][0] > tc.expected+tolerance {
				t.Errorf("luma = %.2f; want ~%.2f", gray[0][0], tc.expected)
			}
		})
	}
}

func TestResampleGrayDeterminism(t *testing.T) {
	img := solidImage(50, 50, color.RGBA{120, 33, 210, 255})

	a, err := ResampleGray(img, 9, 8)
	if err != nil {
		t.Fatalf("first ResampleGray failed: %v", err)
	}
	b, err := ResampleGray(img, 9, 8)
	if err != nil {
		t.Fatalf("second ResampleGray failed: %v", err)
	}

	for x := range a {
		for y := range a[x] {
			if a[x][y] != b[x][y] {
				t.Fatalf("resample not deterministic at (%d,%d): %f vs %f", x, y, a[x][y], b[x][y])
			}
		}
	}
}

func TestResampleGrayDegenerate(t *testing.T) {
	empty := image.NewRGBA(image.Rect(0, 0, 0, 0))
	if _, err := ResampleGray(empty, 32, 32); !errors.Is(err, ErrDegenerateImage) {
		t.Errorf("expected ErrDegenerateImage, got %v", err)
	}

	if _, err := ResampleGray(nil, 32, 32); err == nil {
		t.Error("expected error for nil image")
	}

	if _, err := ResampleGray(solidImage(10, 10, color.White), 0, 8); err == nil {
		t.Error("expected error for zero target width")
	}
}
