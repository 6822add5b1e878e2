// Package embedding provides vector embedding generation for text.
package embedding

import "errors"

// ErrUnavailable indicates the embedding backend could not be reached.
// Callers may retry the request; the failure is not a data error.
var ErrUnavailable = errors.New("embedding provider unavailable")

// Embedding represents a vector embedding of text.
type Embedding struct {
	Vector []float32 // The embedding vector (e.g., 384 dimensions for all-minilm)
}

// Dimensions returns the dimensionality of the embedding.
func (e Embedding) Dimensions() int {
	return len(e.Vector)
}
