package vecindex

import (
	"errors"
	"math"
	"testing"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float32
	}{
		{
			name:     "identical vectors",
			a:        []float32{1, 0, 0},
			b:        []float32{1, 0, 0},
			expected: 1.0,
		},
		{
			name:     "orthogonal vectors",
			a:        []float32{1, 0},
			b:        []float32{0, 1},
			expected: 0.0,
		},
		{
			name:     "opposite vectors",
			a:        []float32{1, 0},
			b:        []float32{-1, 0},
			expected: -1.0,
		},
		{
			name:     "similar vectors",
			a:        []float32{1, 1},
			b:        []float32{1, 0},
			expected: 0.7071067, // cos(45 degrees)
		},
		{
			name:     "empty vectors",
			a:        []float32{},
			b:        []float32{},
			expected: 0.0,
		},
		{
			name:     "different lengths",
			a:        []float32{1, 0},
			b:        []float32{1, 0, 0},
			expected: 0.0,
		},
		{
			name:     "zero vector",
			a:        []float32{0, 0, 0},
			b:        []float32{1, 0, 0},
			expected: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			if math.Abs(float64(got-tt.expected)) > 0.0001 {
				t.Errorf("CosineSimilarity(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func loadSearchIndex(t *testing.T, vectors [][]float32) *Index {
	t.Helper()
	records := testRecords()
	indexPath, metaPath := writeTestIndex(t, t.TempDir(), vectors, records[:len(vectors)])
	idx, err := Load(indexPath, metaPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return idx
}

func TestSearch(t *testing.T) {
	idx := loadSearchIndex(t, [][]float32{
		{1, 0, 0},     // sdcm: exact match for query
		{0.9, 0.1, 0}, // sdbim: close
		{0, 1, 0},     // sdfm: orthogonal
	})
	query := []float32{1, 0, 0}

	t.Run("returns sorted hits", func(t *testing.T) {
		hits, err := idx.Search(query, 3)
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		if len(hits) != 3 {
			t.Fatalf("expected 3 hits, got %d", len(hits))
		}
		if hits[0].Ordinal != 0 {
			t.Errorf("top hit ordinal = %d, want 0", hits[0].Ordinal)
		}
		if math.Abs(float64(hits[0].Score-1.0)) > 0.0001 {
			t.Errorf("top hit score = %v, want 1.0", hits[0].Score)
		}
		for i := 1; i < len(hits); i++ {
			if hits[i].Score > hits[i-1].Score {
				t.Errorf("hits not sorted at %d: %v > %v", i, hits[i].Score, hits[i-1].Score)
			}
		}
	})

	t.Run("respects k", func(t *testing.T) {
		hits, err := idx.Search(query, 2)
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		if len(hits) != 2 {
			t.Errorf("expected 2 hits with k=2, got %d", len(hits))
		}
	})

	t.Run("k larger than index", func(t *testing.T) {
		hits, err := idx.Search(query, 10)
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		if len(hits) != 3 {
			t.Errorf("expected 3 hits, got %d", len(hits))
		}
	})

	t.Run("zero k returns nothing", func(t *testing.T) {
		hits, err := idx.Search(query, 0)
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		if hits != nil {
			t.Errorf("expected nil hits with k=0, got %v", hits)
		}
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		_, err := idx.Search([]float32{1, 0}, 3)
		if !errors.Is(err, ErrDimensionMismatch) {
			t.Errorf("expected ErrDimensionMismatch, got %v", err)
		}
	})
}

func TestSearchTieBreakByOrdinal(t *testing.T) {
	// Two identical vectors tie exactly; the lower ordinal must win.
	idx := loadSearchIndex(t, [][]float32{
		{0, 1, 0},
		{1, 0, 0},
		{1, 0, 0},
	})

	hits, err := idx.Search([]float32{1, 0, 0}, 3)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if hits[0].Ordinal != 1 || hits[1].Ordinal != 2 {
		t.Errorf("tie not broken by ordinal: got %d then %d, want 1 then 2",
			hits[0].Ordinal, hits[1].Ordinal)
	}
}

func TestSearchDeterminism(t *testing.T) {
	idx := loadSearchIndex(t, [][]float32{
		{0.5, 0.5, 0},
		{0.4, 0.6, 0},
		{0.6, 0.4, 0},
	})
	query := []float32{1, 1, 0}

	first, err := idx.Search(query, 3)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := idx.Search(query, 3)
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		for j := range first {
			if again[j].Ordinal != first[j].Ordinal {
				t.Fatalf("run %d: ordering changed at position %d", i, j)
			}
		}
	}
}
