package keyword

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"

	"github.com/hyperjump/awase/internal/models"
)

// MemIndex implements Index on an in-memory Bleve index. Like the candidate
// store it lives for the process lifetime only; nothing is written to disk.
type MemIndex struct {
	index bleve.Index
}

// candidateDoc is the shape indexed per candidate.
type candidateDoc struct {
	Text   string `json:"text"`
	Skills string `json:"skills"`
}

// NewMemIndex creates an in-memory keyword index over resume text and skills.
func NewMemIndex() (*MemIndex, error) {
	im := bleve.NewIndexMapping()

	docMapping := bleve.NewDocumentMapping()
	textFieldMapping := bleve.NewTextFieldMapping()
	// Standard analyzer (lowercase + tokenize, no stemming) so queries like
	// "kubernetes" match the exact word; the English analyzer stems terms and
	// makes skill names miss.
	textFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt("text", textFieldMapping)
	docMapping.AddFieldMappingsAt("skills", textFieldMapping)
	im.AddDocumentMapping("candidate", docMapping)
	im.DefaultType = "candidate"
	im.DefaultMapping = docMapping

	index, err := bleve.NewMemOnly(im)
	if err != nil {
		return nil, fmt.Errorf("create keyword index: %w", err)
	}
	return &MemIndex{index: index}, nil
}

// Index adds a candidate's resume to the keyword index. Re-indexing the same
// ID replaces the previous entry.
func (m *MemIndex) Index(ctx context.Context, c *models.Candidate) error {
	doc := candidateDoc{
		Text:   c.Text,
		Skills: strings.Join(c.Skills, " "),
	}
	if err := m.index.Index(c.ID, doc); err != nil {
		return fmt.Errorf("index candidate %s: %w", c.ID, err)
	}
	return nil
}

// Search runs a match query over resume text and skills and returns up to
// limit hits sorted by BM25 score descending.
func (m *MemIndex) Search(ctx context.Context, query string, limit int) ([]*Hit, error) {
	if limit <= 0 {
		limit = 10
	}
	mq := bleve.NewMatchQuery(query)
	req := bleve.NewSearchRequestOptions(mq, limit, 0, false)
	res, err := m.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("keyword search: %w", err)
	}
	hits := make([]*Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		hits = append(hits, &Hit{ID: h.ID, Score: h.Score})
	}
	return hits, nil
}

// DocCount returns the number of indexed resumes.
func (m *MemIndex) DocCount() (uint64, error) {
	return m.index.DocCount()
}

// Close closes the underlying index.
func (m *MemIndex) Close() error {
	return m.index.Close()
}
