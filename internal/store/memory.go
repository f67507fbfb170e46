package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/hyperjump/awase/internal/models"

	"github.com/hyperjump/awase/pkg/utils"
)

// MemoryStore is an in-memory candidate store using a brute-force cosine
// scan. O(n) per query, which is fine at the demo-sized pools this service
// targets; it is a stand-in for a real vector database, not an index.
type MemoryStore struct {
	dimensions int
	rows       []*models.Candidate
	mu         sync.RWMutex
}

// NewMemoryStore creates a store expecting embeddings of the given dimension.
func NewMemoryStore(dimensions int) (*MemoryStore, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("dimensions must be positive")
	}
	return &MemoryStore{dimensions: dimensions}, nil
}

// Add appends a candidate record.
func (m *MemoryStore) Add(ctx context.Context, c *models.Candidate) error {
	if len(c.Embedding) != m.dimensions {
		return fmt.Errorf("%w: got %d, expected %d", ErrDimensionMismatch, len(c.Embedding), m.dimensions)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, c)
	return nil
}

// Query scans every stored row, scores it by cosine similarity to embedding
// (rounded to 4 decimals), sorts descending with insertion order preserved on
// ties, and returns the first topN.
func (m *MemoryStore) Query(ctx context.Context, embedding []float32, topN int) ([]*Result, error) {
	if len(embedding) != m.dimensions {
		return nil, fmt.Errorf("%w: query vector has %d, expected %d", ErrDimensionMismatch, len(embedding), m.dimensions)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if topN <= 0 || len(m.rows) == 0 {
		return nil, nil
	}
	scored := make([]*Result, len(m.rows))
	for i, row := range m.rows {
		scored[i] = &Result{
			Candidate: row,
			Score:     utils.Round4(Cosine(embedding, row.Embedding)),
		}
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if topN > len(scored) {
		topN = len(scored)
	}
	return scored[:topN], nil
}

// Get returns the first stored record with the given ID.
func (m *MemoryStore) Get(ctx context.Context, id string) (*models.Candidate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, row := range m.rows {
		if row.ID == id {
			return row, nil
		}
	}
	return nil, fmt.Errorf("candidate %s not found", id)
}

// List returns stored candidates in insertion order. A non-positive limit
// means no limit.
func (m *MemoryStore) List(ctx context.Context, offset, limit int) ([]*models.Candidate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if offset < 0 {
		offset = 0
	}
	if offset >= len(m.rows) {
		return nil, nil
	}
	end := len(m.rows)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	out := make([]*models.Candidate, end-offset)
	copy(out, m.rows[offset:end])
	return out, nil
}

// Count returns the number of stored records.
func (m *MemoryStore) Count(ctx context.Context) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rows)
}

// Dimensions returns the expected embedding dimension.
func (m *MemoryStore) Dimensions() int {
	return m.dimensions
}
