package vecindex

import (
	"math"
	"sort"
)

// CosineSimilarity computes the cosine similarity between two vectors.
// Returns a value between -1 and 1, where 1 means identical direction.
func CosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float32
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	denominator := float32(math.Sqrt(float64(normA))) * float32(math.Sqrt(float64(normB)))
	if denominator == 0 {
		return 0
	}

	return dot / denominator
}

// Search returns the k entries most similar to the query vector, sorted
// by score descending. Equal scores are ordered by ascending ordinal so
// repeated searches over the same artifact are deterministic.
func (idx *Index) Search(query []float32, k int) ([]Hit, error) {
	if len(query) != idx.dimensions {
		return nil, ErrDimensionMismatch
	}
	if k <= 0 || len(idx.vectors) == 0 {
		return nil, nil
	}

	hits := make([]Hit, 0, len(idx.vectors))
	for ordinal, vec := range idx.vectors {
		hits = append(hits, Hit{
			Ordinal: ordinal,
			Score:   CosineSimilarity(query, vec),
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Ordinal < hits[j].Ordinal
	})

	if k < len(hits) {
		hits = hits[:k]
	}

	return hits, nil
}
