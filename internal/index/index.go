// Package index provides approximate nearest-neighbor lookup over perceptual
// hashes. Each image's pHash and dHash bits are unpacked into a 128-dim
// signed vector; cosine distance on those vectors is monotone with Hamming
// distance on the bits, so the graph's neighbors are also the closest images
// by fingerprint. Used for "find images like this one" queries where scoring
// every pair would be too slow.
package index

import (
	"errors"
	"math"
	"sync"

	"github.com/coder/hnsw"
)

// maxNeighbors is the HNSW M parameter.
const maxNeighbors = 16

// vectorDim is 64 pHash bits plus 64 dHash bits.
const vectorDim = 128

// Match is one nearest-neighbor result.
type Match struct {
	Path     string
	Distance float64
}

// Index is a thread-safe approximate nearest-neighbor index over image
// fingerprints, keyed by file path.
type Index struct {
	mu    sync.RWMutex
	graph *hnsw.Graph[string]
	size  int
}

func New() *Index {
	g := hnsw.NewGraph[string]()
	g.M = maxNeighbors
	g.Ml = 1.0 / float64(maxNeighbors)
	g.Distance = hnsw.CosineDistance
	return &Index{graph: g}
}

// Vector unpacks a pHash/dHash pair into the signed vector the index stores:
// +1 for a set bit, -1 for a clear bit, pHash bits first.
func Vector(phash, dhash uint64) []float32 {
	v := make([]float32, vectorDim)
	for i := 0; i < 64; i++ {
		if phash&(1<<(63-i)) != 0 {
			v[i] = 1
		} else {
			v[i] = -1
		}
		if dhash&(1<<(63-i)) != 0 {
			v[64+i] = 1
		} else {
			v[64+i] = -1
		}
	}
	return v
}

// Add inserts or replaces the fingerprint for path.
func (ix *Index) Add(path string, phash, dhash uint64) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	ix.graph.Add(hnsw.MakeNode(path, Vector(phash, dhash)))
	ix.size = ix.graph.Len()
}

// Search returns up to k paths closest to the given fingerprint, nearest
// first.
func (ix *Index) Search(phash, dhash uint64, k int) ([]Match, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if ix.size == 0 {
		return nil, errors.New("index is empty")
	}

	query := Vector(phash, dhash)
	neighbors := ix.graph.Search(query, k)

	matches := make([]Match, 0, len(neighbors))
	for _, n := range neighbors {
		matches = append(matches, Match{
			Path:     n.Key,
			Distance: cosineDistance(query, n.Value),
		})
	}
	return matches, nil
}

// Len returns the number of indexed fingerprints.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.size
}

// cosineDistance computes the cosine distance between two vectors.
// Returns a value between 0 (identical) and 2 (opposite).
func cosineDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 2.0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 2.0
	}

	similarity := dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
	if similarity > 1 {
		similarity = 1
	}
	if similarity < -1 {
		similarity = -1
	}
	return 1 - similarity
}
