// Package embedding provides text embedding via ONNX with a deterministic hash fallback.
package embedding

import "context"

// Embedder produces fixed-dimension vector embeddings for text. Which
// implementation runs is a process-level choice made once at startup; it never
// changes per call.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Close() error
}
