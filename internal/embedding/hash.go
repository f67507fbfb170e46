package embedding

import (
	"context"
	"crypto/sha256"
)

// HashEmbedder is the dependency-free fallback embedder. It derives a vector
// from the SHA-256 digest of the text: element i is digest[i mod 32] mapped
// from [0, 255] into [-1, 1]. The same text always yields the same vector;
// different texts yield different vectors with high probability. The vectors
// carry no semantic meaning, but they keep the full matching pipeline running
// when no model is available.
type HashEmbedder struct {
	dimensions int
}

// NewHashEmbedder returns a hash embedder producing vectors of the given
// dimensions (defaults to 32 for non-positive values).
func NewHashEmbedder(dimensions int) *HashEmbedder {
	if dimensions <= 0 {
		dimensions = 32
	}
	return &HashEmbedder{dimensions: dimensions}
}

// Embed returns the deterministic hash-derived embedding for text.
func (e *HashEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	digest := sha256.Sum256([]byte(text))
	emb := make([]float32, e.dimensions)
	for i := 0; i < e.dimensions; i++ {
		emb[i] = float32(digest[i%len(digest)])/255*2 - 1
	}
	return emb, nil
}

// EmbedBatch calls Embed for each text, preserving order.
func (e *HashEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		emb, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		embeddings[i] = emb
	}
	return embeddings, nil
}

// Dimensions returns the embedding dimension.
func (e *HashEmbedder) Dimensions() int {
	return e.dimensions
}

// Close is a no-op for HashEmbedder.
func (e *HashEmbedder) Close() error {
	return nil
}
