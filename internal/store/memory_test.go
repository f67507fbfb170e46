package store

import (
	"context"
	"errors"
	"testing"

	"github.com/hyperjump/awase/internal/models"
)

func candidate(id string, emb []float32) *models.Candidate {
	return &models.Candidate{ID: id, Text: "resume " + id, Embedding: emb}
}

func TestMemoryStoreAddQuery(t *testing.T) {
	s, err := NewMemoryStore(3)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	rows := []*models.Candidate{
		candidate("a", []float32{1, 0, 0}),
		candidate("b", []float32{0.9, 0.1, 0}),
		candidate("c", []float32{0, 1, 0}),
	}
	for _, c := range rows {
		if err := s.Add(ctx, c); err != nil {
			t.Fatal(err)
		}
	}
	if s.Count(ctx) != 3 {
		t.Errorf("Count = %d", s.Count(ctx))
	}

	results, err := s.Query(ctx, []float32{1, 0, 0}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Candidate.ID != "a" {
		t.Errorf("top result should be a, got %s", results[0].Candidate.ID)
	}
	if results[0].Score != 1.0 {
		t.Errorf("top score = %v, want 1.0", results[0].Score)
	}
}

func TestMemoryStoreScoresRounded(t *testing.T) {
	s, _ := NewMemoryStore(2)
	ctx := context.Background()
	_ = s.Add(ctx, candidate("a", []float32{1, 1}))

	results, err := s.Query(ctx, []float32{1, 0}, 1)
	if err != nil {
		t.Fatal(err)
	}
	// cos = 1/sqrt(2) = 0.70710678... rounded to 4 decimals
	if results[0].Score != 0.7071 {
		t.Errorf("score = %v, want 0.7071", results[0].Score)
	}
}

func TestMemoryStoreStableTies(t *testing.T) {
	s, _ := NewMemoryStore(2)
	ctx := context.Background()
	// Identical embeddings score identically; insertion order must hold.
	for _, id := range []string{"first", "second", "third"} {
		_ = s.Add(ctx, candidate(id, []float32{1, 0}))
	}
	results, err := s.Query(ctx, []float32{1, 0}, 3)
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range []string{"first", "second", "third"} {
		if results[i].Candidate.ID != want {
			t.Errorf("position %d: got %s, want %s", i, results[i].Candidate.ID, want)
		}
	}
}

func TestMemoryStoreDuplicateIDs(t *testing.T) {
	s, _ := NewMemoryStore(2)
	ctx := context.Background()
	_ = s.Add(ctx, candidate("dup", []float32{1, 0}))
	_ = s.Add(ctx, candidate("dup", []float32{0, 1}))

	if s.Count(ctx) != 2 {
		t.Errorf("Count = %d, want 2 (duplicate IDs create duplicate rows)", s.Count(ctx))
	}
	results, _ := s.Query(ctx, []float32{1, 0}, 10)
	if len(results) != 2 {
		t.Errorf("both duplicate rows should be retrievable, got %d", len(results))
	}
}

func TestMemoryStoreDimensionMismatch(t *testing.T) {
	s, _ := NewMemoryStore(3)
	ctx := context.Background()
	if err := s.Add(ctx, candidate("a", []float32{1, 0})); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("Add err = %v, want ErrDimensionMismatch", err)
	}
	if _, err := s.Query(ctx, []float32{1, 0}, 5); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("Query err = %v, want ErrDimensionMismatch", err)
	}
}

func TestMemoryStoreZeroMagnitude(t *testing.T) {
	s, _ := NewMemoryStore(2)
	ctx := context.Background()
	_ = s.Add(ctx, candidate("zero", []float32{0, 0}))
	results, err := s.Query(ctx, []float32{1, 0}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if results[0].Score != 0 {
		t.Errorf("zero-magnitude row score = %v, want 0", results[0].Score)
	}
}

func TestMemoryStoreGetAndList(t *testing.T) {
	s, _ := NewMemoryStore(2)
	ctx := context.Background()
	_ = s.Add(ctx, candidate("a", []float32{1, 0}))
	_ = s.Add(ctx, candidate("b", []float32{0, 1}))

	c, err := s.Get(ctx, "b")
	if err != nil || c.ID != "b" {
		t.Errorf("Get(b) = %v, %v", c, err)
	}
	if _, err := s.Get(ctx, "nope"); err == nil {
		t.Error("Get of unknown ID should fail")
	}

	listed, err := s.List(ctx, 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(listed) != 1 || listed[0].ID != "b" {
		t.Errorf("List(1,10) = %v", listed)
	}
}

func TestNewMemoryStoreInvalidDimensions(t *testing.T) {
	if _, err := NewMemoryStore(0); err == nil {
		t.Error("expected error for zero dimensions")
	}
}
