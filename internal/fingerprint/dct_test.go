package fingerprint

import (
	"math"
	"testing"
)

func constantGrid(n int, value float64) [][]float64 {
	grid := make([][]float64, n)
	for x := range grid {
		grid[x] = make([]float64, n)
		for y := range grid[x] {
			grid[x][y] = value
		}
	}
	return grid
}

func TestDCT2DConstantGrid(t *testing.T) {
	// A constant grid has all its energy in the DC coefficient:
	// F(0,0) = 0.25 * (1/sqrt(2))^2 * N^2 * c = N^2 * c / 8.
	const n = 4
	const c = 100.0
	dct := DCT2D(constantGrid(n, c))

	wantDC := float64(n*n) * c / 8
	if math.Abs(dct[0][0]-wantDC) > 1e-9 {
		t.Errorf("DC coefficient = %f; want %f", dct[0][0], wantDC)
	}

	for u := range n {
		for v := range n {
			if u == 0 && v == 0 {
				continue
			}
			if math.Abs(dct[u][v]) > 1e-9 {
				t.Errorf("AC coefficient (%d,%d) = %g; want 0", u, v, dct[u][v])
			}
		}
	}
}

func TestDCT2DLinearity(t *testing.T) {
	const n = 8
	grid := make([][]float64, n)
	for x := range grid {
		grid[x] = make([]float64, n)
		for y := range grid[x] {
			grid[x][y] = float64(x*7 + y*3)
		}
	}

	doubled := make([][]float64, n)
	for x := range doubled {
		doubled[x] = make([]float64, n)
		for y := range doubled[x] {
			doubled[x][y] = 2 * grid[x][y]
		}
	}

	a := DCT2D(grid)
	b := DCT2D(doubled)
	for u := range n {
		for v := range n {
			if math.Abs(b[u][v]-2*a[u][v]) > 1e-9 {
				t.Errorf("DCT not linear at (%d,%d): %f vs 2*%f", u, v, b[u][v], a[u][v])
			}
		}
	}
}

func TestDCT2DUniformShiftOnlyMovesDC(t *testing.T) {
	// Adding a constant to every pixel changes only the DC coefficient. This
	// is the property that makes the median-thresholded frequency hash robust
	// to uniform brightness shifts.
	const n = 8
	grid := make([][]float64, n)
	shifted := make([][]float64, n)
	for x := range grid {
		grid[x] = make([]float64, n)
		shifted[x] = make([]float64, n)
		for y := range grid[x] {
			grid[x][y] = float64((x*13 + y*5) % 97)
			shifted[x][y] = grid[x][y] + 50
		}
	}

	a := DCT2D(grid)
	b := DCT2D(shifted)
	for u := range n {
		for v := range n {
			if u == 0 && v == 0 {
				if b[0][0] <= a[0][0] {
					t.Errorf("DC coefficient should grow with brightness: %f vs %f", b[0][0], a[0][0])
				}
				continue
			}
			if math.Abs(b[u][v]-a[u][v]) > 1e-9 {
				t.Errorf("AC coefficient (%d,%d) moved under uniform shift: %f vs %f", u, v, b[u][v], a[u][v])
			}
		}
	}
}

func TestDCT2DEmptyGrid(t *testing.T) {
	if got := DCT2D(nil); got != nil {
		t.Errorf("DCT2D(nil) = %v; want nil", got)
	}
}
