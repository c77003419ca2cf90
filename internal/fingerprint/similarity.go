package fingerprint

import "math/bits"

const hashBits = 64

// HammingDistance returns the number of differing bits between two hashes.
func HammingDistance(a, b uint64) int {
	return bits.OnesCount64(a ^ b)
}

// Similarity converts the Hamming distance between two hashes of the same
// family into a score in [0, 100], where 100 means bit-identical.
func Similarity(a, b uint64) float64 {
	return 100 * float64(hashBits-HammingDistance(a, b)) / hashBits
}

// BlendedSimilarity is the arithmetic mean of the frequency-hash and
// gradient-hash similarities between two images. Both families must belong to
// the same two images, in the same order.
func BlendedSimilarity(phashA, dhashA, phashB, dhashB uint64) float64 {
	return (Similarity(phashA, phashB) + Similarity(dhashA, dhashB)) / 2
}
