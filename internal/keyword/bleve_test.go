package keyword

import (
	"context"
	"testing"

	"github.com/hyperjump/awase/internal/models"
)

func TestMemIndexSearch(t *testing.T) {
	idx, err := NewMemIndex()
	if err != nil {
		t.Fatal(err)
	}
	defer idx.Close()
	ctx := context.Background()

	candidates := []*models.Candidate{
		{ID: "a", Text: "Python FastAPI engineer with cloud experience", Skills: []string{"fastapi", "python"}},
		{ID: "b", Text: "React frontend developer", Skills: []string{"react"}},
	}
	for _, c := range candidates {
		if err := idx.Index(ctx, c); err != nil {
			t.Fatal(err)
		}
	}

	count, err := idx.DocCount()
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("DocCount = %d", count)
	}

	hits, err := idx.Search(ctx, "fastapi", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0].ID != "a" {
		t.Errorf("hits = %+v, want single hit for a", hits)
	}
	if hits[0].Score <= 0 {
		t.Errorf("score = %v", hits[0].Score)
	}
}

func TestMemIndexSearchNoResults(t *testing.T) {
	idx, err := NewMemIndex()
	if err != nil {
		t.Fatal(err)
	}
	defer idx.Close()

	hits, err := idx.Search(context.Background(), "haskell", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 0 {
		t.Errorf("expected no hits, got %d", len(hits))
	}
}

func TestMemIndexReindexReplaces(t *testing.T) {
	idx, err := NewMemIndex()
	if err != nil {
		t.Fatal(err)
	}
	defer idx.Close()
	ctx := context.Background()

	_ = idx.Index(ctx, &models.Candidate{ID: "a", Text: "java developer"})
	_ = idx.Index(ctx, &models.Candidate{ID: "a", Text: "go developer"})

	count, _ := idx.DocCount()
	if count != 1 {
		t.Errorf("DocCount after reindex = %d, want 1", count)
	}
	hits, _ := idx.Search(ctx, "java", 10)
	if len(hits) != 0 {
		t.Errorf("old content should be replaced, got %d hits", len(hits))
	}
}
