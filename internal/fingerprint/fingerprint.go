// Package fingerprint computes 64-bit perceptual hashes for images and scores
// their similarity. Two independent hash families are used: a frequency hash
// (DCT-based pHash) and a gradient hash (dHash). Using both reduces false
// positives on images with similar overall tone but different content.
package fingerprint

import (
	"fmt"
	"image"
	"sort"
)

const (
	phashGridSize = 32 // DCT input grid for the frequency hash
	phashBlock    = 8  // low-frequency block taken from the DCT grid
	dhashWidth    = 9  // gradient hash samples 8 horizontal pairs per row
	dhashHeight   = 8
)

// HashResult contains the computed perceptual hashes for one image.
type HashResult struct {
	PHash     string `json:"phash"` // frequency hash, 16 uppercase hex digits
	DHash     string `json:"dhash"` // gradient hash, 16 uppercase hex digits
	PHashBits uint64 `json:"-"`
	DHashBits uint64 `json:"-"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

// ComputeHashes computes both the frequency hash and the gradient hash for a
// decoded image. It fails on nil or zero-sized images rather than returning an
// all-zero hash, so callers can exclude the image from their candidate set.
func ComputeHashes(img image.Image) (*HashResult, error) {
	phash, err := computePHash(img)
	if err != nil {
		return nil, err
	}
	dhash, err := computeDHash(img)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	return &HashResult{
		PHash:     FormatHash(phash),
		DHash:     FormatHash(dhash),
		PHashBits: phash,
		DHashBits: dhash,
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
	}, nil
}

// FormatHash renders a 64-bit hash as a fixed-width uppercase hex string.
func FormatHash(hash uint64) string {
	return fmt.Sprintf("%016X", hash)
}

// computePHash derives the frequency hash: resample to 32x32 grayscale, apply
// the DCT, take the top-left 8x8 coefficient block minus the DC term at (0,0),
// and emit one bit per coefficient above the median of the remaining 63.
// Thresholding against the median makes the hash largely invariant to uniform
// brightness shifts.
func computePHash(img image.Image) (uint64, error) {
	gray, err := ResampleGray(img, phashGridSize, phashGridSize)
	if err != nil {
		return 0, err
	}
	dct := DCT2D(gray)

	// 63 low-frequency coefficients, row-major, skipping the DC slot.
	coeffs := make([]float64, 0, phashBlock*phashBlock-1)
	for u := range phashBlock {
		for v := range phashBlock {
			if u == 0 && v == 0 {
				continue
			}
			coeffs = append(coeffs, dct[u][v])
		}
	}
	median := medianOf(coeffs)

	// One bit per coefficient position, MSB first. The 64th bit, corresponding
	// to the skipped DC slot, stays 0.
	var hash uint64
	for i, coeff := range coeffs {
		if coeff > median {
			hash |= 1 << (63 - i)
		}
	}
	return hash, nil
}

// computeDHash derives the gradient hash: resample to 9x8 grayscale and emit
// one bit per adjacent horizontal pixel pair (left > right), row-major,
// left to right. 8 rows * 8 pairs = exactly 64 bits.
func computeDHash(img image.Image) (uint64, error) {
	gray, err := ResampleGray(img, dhashWidth, dhashHeight)
	if err != nil {
		return 0, err
	}

	var hash uint64
	bit := 63
	for y := range dhashHeight {
		for x := range dhashWidth - 1 {
			if gray[x][y] > gray[x+1][y] {
				hash |= 1 << bit
			}
			bit--
		}
	}
	return hash, nil
}

// medianOf returns the median of a slice without mutating it.
func medianOf(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}
