package fingerprint

import (
	"image"
	"image/color"
	"strings"
	"testing"
)

func gradientImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			v := uint8((x + y) * 255 / (width + height))
			img.Set(x, y, color.RGBA{v, v, v, 255})
		}
	}
	return img
}

// brighten scales every channel by factor, clamping at 255.
func brighten(img *image.RGBA, factor float64) *image.RGBA {
	bounds := img.Bounds()
	out := image.NewRGBA(bounds)
	for x := bounds.Min.X; x < bounds.Max.X; x++ {
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			r, g, b, _ := img.At(x, y).RGBA()
			out.Set(x, y, color.RGBA{
				clamp8(float64(r>>8) * factor),
				clamp8(float64(g>>8) * factor),
				clamp8(float64(b>>8) * factor),
				255,
			})
		}
	}
	return out
}

func clamp8(v float64) uint8 {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return uint8(v)
}

func TestComputeHashesFormat(t *testing.T) {
	result, err := ComputeHashes(gradientImage(100, 100))
	if err != nil {
		t.Fatalf("ComputeHashes failed: %v", err)
	}

	for _, hash := range []string{result.PHash, result.DHash} {
		if len(hash) != 16 {
			t.Errorf("hash %q should be 16 hex digits", hash)
		}
		if hash != strings.ToUpper(hash) {
			t.Errorf("hash %q should be uppercase", hash)
		}
	}

	if result.Width != 100 || result.Height != 100 {
		t.Errorf("dimensions = %dx%d; want 100x100", result.Width, result.Height)
	}
}

func TestComputeHashesDeterminism(t *testing.T) {
	img := gradientImage(120, 80)

	first, err := ComputeHashes(img)
	if err != nil {
		t.Fatalf("first ComputeHashes failed: %v", err)
	}
	second, err := ComputeHashes(img)
	if err != nil {
		t.Fatalf("second ComputeHashes failed: %v", err)
	}

	if first.PHashBits != second.PHashBits {
		t.Errorf("frequency hash not deterministic: %016X vs %016X", first.PHashBits, second.PHashBits)
	}
	if first.DHashBits != second.DHashBits {
		t.Errorf("gradient hash not deterministic: %016X vs %016X", first.DHashBits, second.DHashBits)
	}
}

func TestComputeHashesSelfSimilarity(t *testing.T) {
	result, err := ComputeHashes(gradientImage(64, 64))
	if err != nil {
		t.Fatalf("ComputeHashes failed: %v", err)
	}

	if s := Similarity(result.PHashBits, result.PHashBits); s != 100 {
		t.Errorf("frequency hash self-similarity = %f; want 100", s)
	}
	if s := Similarity(result.DHashBits, result.DHashBits); s != 100 {
		t.Errorf("gradient hash self-similarity = %f; want 100", s)
	}
}

func TestFrequencyHashDCBitAlwaysZero(t *testing.T) {
	// The 64th bit corresponds to the skipped DC coefficient and must stay 0.
	images := []image.Image{
		gradientImage(100, 100),
		solidImage(50, 50, color.White),
		solidImage(50, 50, color.Black),
		brighten(gradientImage(80, 60), 1.3),
	}

	for i, img := range images {
		result, err := ComputeHashes(img)
		if err != nil {
			t.Fatalf("ComputeHashes failed for image %d: %v", i, err)
		}
		if result.PHashBits&1 != 0 {
			t.Errorf("image %d: DC slot bit set in frequency hash %016X", i, result.PHashBits)
		}
	}
}

func TestGradientHashKnownPattern(t *testing.T) {
	// Strictly decreasing intensity left to right: every left > right
	// comparison is true, so all 64 bits are set.
	decreasing := image.NewRGBA(image.Rect(0, 0, 9, 8))
	for x := 0; x < 9; x++ {
		for y := 0; y < 8; y++ {
			v := uint8(255 - x*28)
			decreasing.Set(x, y, color.RGBA{v, v, v, 255})
		}
	}

	result, err := ComputeHashes(decreasing)
	if err != nil {
		t.Fatalf("ComputeHashes failed: %v", err)
	}
	if result.DHashBits != 0xFFFFFFFFFFFFFFFF {
		t.Errorf("gradient hash = %016X; want FFFFFFFFFFFFFFFF", result.DHashBits)
	}

	// Strictly increasing: no comparison is true.
	increasing := image.NewRGBA(image.Rect(0, 0, 9, 8))
	for x := 0; x < 9; x++ {
		for y := 0; y < 8; y++ {
			v := uint8(x * 28)
			increasing.Set(x, y, color.RGBA{v, v, v, 255})
		}
	}

	result, err = ComputeHashes(increasing)
	if err != nil {
		t.Fatalf("ComputeHashes failed: %v", err)
	}
	if result.DHashBits != 0 {
		t.Errorf("gradient hash = %016X; want 0", result.DHashBits)
	}
}

func TestFrequencyHashBrightnessInvariance(t *testing.T) {
	// Median thresholding makes the frequency hash largely invariant to a
	// uniform brightness shift.
	base := gradientImage(256, 256)
	bright := brighten(base, 1.5)

	baseResult, err := ComputeHashes(base)
	if err != nil {
		t.Fatalf("ComputeHashes failed for base image: %v", err)
	}
	brightResult, err := ComputeHashes(bright)
	if err != nil {
		t.Fatalf("ComputeHashes failed for brightened image: %v", err)
	}

	similarity := Similarity(baseResult.PHashBits, brightResult.PHashBits)
	if similarity <= 85 {
		t.Errorf("frequency hash similarity after brightness shift = %f; want > 85", similarity)
	}
}

func TestComputeHashesDegenerate(t *testing.T) {
	if _, err := ComputeHashes(nil); err == nil {
		t.Error("expected error for nil image")
	}

	empty := image.NewRGBA(image.Rect(0, 0, 0, 0))
	if _, err := ComputeHashes(empty); err == nil {
		t.Error("expected error for zero-sized image")
	}
}

func TestMedianOf(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{"odd count", []float64{1, 2, 3, 4, 5}, 3},
		{"even count", []float64{1, 2, 3, 4}, 2.5},
		{"single value", []float64{42}, 42},
		{"unsorted", []float64{5, 1, 3, 2, 4}, 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := medianOf(tc.values)
			if result != tc.expected {
				t.Errorf("medianOf(%v) = %f; want %f", tc.values, result, tc.expected)
			}

			// Input must not be mutated.
			if tc.name == "unsorted" && tc.values[0] != 5 {
				t.Error("medianOf mutated its input")
			}
		})
	}
}
