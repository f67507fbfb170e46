// Package store provides in-memory candidate storage with similarity-ranked queries.
package store

import (
	"context"
	"errors"

	"github.com/hyperjump/awase/internal/models"
)

// ErrDimensionMismatch is returned when an embedding's length differs from
// the store's fixed dimension. It should never fire when a single Embedder
// produced all vectors, but it is checked defensively on every Add and Query.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// CandidateStore defines candidate persistence for the process lifetime.
// Implementations are append-only: records are never mutated or removed.
type CandidateStore interface {
	// Add appends a candidate record. IDs are assumed unique by the caller;
	// duplicates create duplicate rows, both visible to Query.
	Add(ctx context.Context, c *models.Candidate) error
	// Query returns the topN stored candidates ranked by cosine similarity to
	// embedding, scores rounded to 4 decimals, ties kept in insertion order.
	Query(ctx context.Context, embedding []float32, topN int) ([]*Result, error)
	// Get returns the first record with the given ID.
	Get(ctx context.Context, id string) (*models.Candidate, error)
	// List returns stored candidates in insertion order.
	List(ctx context.Context, offset, limit int) ([]*models.Candidate, error)
	// Count returns the number of stored records.
	Count(ctx context.Context) int
}

// Result is a single similarity query hit.
type Result struct {
	Candidate *models.Candidate
	Score     float64
}
