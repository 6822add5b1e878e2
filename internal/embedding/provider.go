package embedding

import "context"

// Provider generates embeddings from text. The same provider (model and
// dimensions) must be used for index building and query resolution;
// mixing them makes the index artifact unusable.
type Provider interface {
	// Embed generates an embedding for the given text.
	Embed(ctx context.Context, text string) (Embedding, error)

	// ModelName returns the name of the embedding model.
	ModelName() string

	// Dimensions returns the expected vector dimensions.
	Dimensions() int
}
