// Package keyword provides keyword (BM25) search over ingested resumes.
package keyword

import (
	"context"

	"github.com/hyperjump/awase/internal/models"
)

// Index defines keyword search operations over candidate resumes.
type Index interface {
	Index(ctx context.Context, c *models.Candidate) error
	Search(ctx context.Context, query string, limit int) ([]*Hit, error)
	// DocCount returns the total number of indexed resumes.
	DocCount() (uint64, error)
	Close() error
}

// Hit is a single keyword search result.
type Hit struct {
	ID    string
	Score float64
}
