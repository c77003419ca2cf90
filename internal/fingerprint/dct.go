package fingerprint

import "math"

// DCT2D computes the two-dimensional type-II DCT of a square intensity grid
// using the direct double-sum definition:
//
//	F(u,v) = 0.25 * C(u) * C(v) * sum_x sum_y f(x,y) * cos((2x+1)u*pi/2N) * cos((2y+1)v*pi/2N)
//
// with C(0) = 1/sqrt(2) and C(k) = 1 for k > 0. This is O(N^4), which is fine
// for the fixed N=32 grid the frequency hash uses. The input is indexed [x][y]
// and must be square.
func DCT2D(grid [][]float64) [][]float64 {
	n := len(grid)
	if n == 0 {
		return nil
	}

	// Precompute cosine values for efficiency.
	cosTable := make([][]float64, n)
	for u := range cosTable {
		cosTable[u] = make([]float64, n)
		for x := range n {
			cosTable[u][x] = math.Cos((2*float64(x) + 1) * float64(u) * math.Pi / (2 * float64(n)))
		}
	}

	c := make([]float64, n)
	c[0] = 1 / math.Sqrt2
	for k := 1; k < n; k++ {
		c[k] = 1
	}

	dct := make([][]float64, n)
	for u := range n {
		dct[u] = make([]float64, n)
		for v := range n {
			var sum float64
			for x := range n {
				for y := range n {
					sum += grid[x][y] * cosTable[u][x] * cosTable[v][y]
				}
			}
			dct[u][v] = 0.25 * c[u] * c[v] * sum
		}
	}
	return dct
}
