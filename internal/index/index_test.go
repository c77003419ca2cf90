package index

import (
	"math"
	"testing"
)

func TestVector(t *testing.T) {
	v := Vector(0, ^uint64(0))
	if len(v) != 128 {
		t.Fatalf("vector length = %d; want 128", len(v))
	}
	for i := 0; i < 64; i++ {
		if v[i] != -1 {
			t.Fatalf("pHash component %d = %v; want -1", i, v[i])
		}
		if v[64+i] != 1 {
			t.Fatalf("dHash component %d = %v; want 1", i, v[64+i])
		}
	}
}

func TestVectorBitOrder(t *testing.T) {
	// Bit 63 is the first component.
	v := Vector(1<<63, 0)
	if v[0] != 1 {
		t.Errorf("highest pHash bit should map to component 0, got %v", v[0])
	}
	if v[63] != -1 {
		t.Errorf("lowest pHash bit should map to component 63, got %v", v[63])
	}
}

func TestSearchFindsClosest(t *testing.T) {
	ix := New()
	ix.Add("identical", 0xFF00FF00FF00FF00, 0xAAAAAAAAAAAAAAAA)
	ix.Add("close", 0xFF00FF00FF00FF01, 0xAAAAAAAAAAAAAAAB)
	ix.Add("far", 0x00FF00FF00FF00FF, 0x5555555555555555)

	matches, err := ix.Search(0xFF00FF00FF00FF00, 0xAAAAAAAAAAAAAAAA, 2)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("got %d matches; want 2", len(matches))
	}
	if matches[0].Path != "identical" {
		t.Errorf("closest match = %q; want identical", matches[0].Path)
	}
	if matches[0].Distance > 1e-6 {
		t.Errorf("identical fingerprint distance = %v; want ~0", matches[0].Distance)
	}
	if matches[1].Path != "close" {
		t.Errorf("second match = %q; want close", matches[1].Path)
	}
	if matches[1].Distance <= matches[0].Distance {
		t.Errorf("matches not sorted by distance: %v then %v", matches[0].Distance, matches[1].Distance)
	}
}

func TestSearchEmptyIndex(t *testing.T) {
	ix := New()
	if _, err := ix.Search(0, 0, 5); err == nil {
		t.Error("expected error searching an empty index")
	}
}

func TestLen(t *testing.T) {
	ix := New()
	if ix.Len() != 0 {
		t.Fatalf("new index Len = %d; want 0", ix.Len())
	}
	ix.Add("a", 1, 2)
	ix.Add("b", 3, 4)
	if ix.Len() != 2 {
		t.Errorf("Len = %d; want 2", ix.Len())
	}
}

func TestCosineDistanceOppositeVectors(t *testing.T) {
	a := Vector(0, 0)
	b := Vector(^uint64(0), ^uint64(0))
	d := cosineDistance(a, b)
	if math.Abs(d-2.0) > 1e-6 {
		t.Errorf("opposite vectors distance = %v; want 2", d)
	}
}
