// Package matching implements the candidate ingestion and job matching core.
package matching

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/awase/internal/config"
	"github.com/hyperjump/awase/internal/embedding"
	"github.com/hyperjump/awase/internal/keyword"
	"github.com/hyperjump/awase/internal/models"
	"github.com/hyperjump/awase/internal/profile"
	"github.com/hyperjump/awase/internal/store"
	"github.com/hyperjump/awase/pkg/utils"
)

// Service wires the embedder, candidate store, attribute extractor, and
// optional keyword index into the two operations the HTTP surface needs:
// ingesting a candidate and matching a job. It is purely functional per call;
// all state lives in the store and index it was constructed with.
type Service struct {
	embedder embedding.Embedder
	store    store.CandidateStore
	keyword  keyword.Index // may be nil; disables SearchCandidates
	profiles *profile.Extractor
	cfg      *config.MatchingConfig
	logger   *zap.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets a logger for debug events (ingested candidates, match timings).
func WithLogger(l *zap.Logger) ServiceOption {
	return func(s *Service) { s.logger = l }
}

// WithKeywordIndex enables keyword search over ingested resumes.
func WithKeywordIndex(idx keyword.Index) ServiceOption {
	return func(s *Service) { s.keyword = idx }
}

// NewService creates the matching service with the given dependencies.
func NewService(
	embedder embedding.Embedder,
	candidates store.CandidateStore,
	profiles *profile.Extractor,
	cfg *config.MatchingConfig,
	opts ...ServiceOption,
) *Service {
	s := &Service{
		embedder: embedder,
		store:    candidates,
		profiles: profiles,
		cfg:      cfg,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IngestCandidate embeds the resume text, derives attributes, and appends a
// candidate record. Fields set on input override the derived attributes.
// Returns ErrEmptyInput when the text is blank after trimming or undecodable.
func (s *Service) IngestCandidate(ctx context.Context, input *models.CandidateInput) (*models.Candidate, error) {
	text := strings.TrimSpace(strings.ToValidUTF8(input.Text, ""))
	if text == "" {
		return nil, fmt.Errorf("%w: nothing left after trimming", ErrEmptyInput)
	}

	emb, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed resume: %w", err)
	}

	lowered := strings.ToLower(text)
	c := &models.Candidate{
		ID:              input.ID,
		Text:            text,
		Embedding:       emb,
		ExperienceYears: s.profiles.ExperienceYears(lowered),
		Skills:          s.profiles.Skills(lowered),
		CreatedAt:       time.Now(),
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if input.ExperienceYears != nil {
		if *input.ExperienceYears < 0 {
			return nil, fmt.Errorf("%w: experience_years cannot be negative", ErrInvalidInput)
		}
		c.ExperienceYears = *input.ExperienceYears
	}
	if input.Skills != nil {
		c.Skills = normalizeSkills(input.Skills)
	}

	if err := s.store.Add(ctx, c); err != nil {
		return nil, fmt.Errorf("store candidate: %w", err)
	}
	if s.keyword != nil {
		// Keyword indexing is best-effort; a failure must not lose the candidate.
		if err := s.keyword.Index(ctx, c); err != nil {
			s.logger.Warn("keyword indexing failed", zap.String("id", c.ID), zap.Error(err))
		}
	}

	s.logger.Debug("candidate ingested",
		zap.String("id", c.ID),
		zap.Int("experience_years", c.ExperienceYears),
		zap.Strings("skills", c.Skills),
	)
	return c, nil
}

// MatchJob ranks stored candidates against the job query. The store's cosine
// scan prefilters the top candidates by semantic similarity; those are then
// re-ranked by the weighted composite of skill overlap, experience fit, and
// semantic score. Returns ErrNoCandidates when nothing has been ingested and
// ErrInvalidInput when the query fails validation.
func (s *Service) MatchJob(ctx context.Context, job *models.JobQuery) ([]*models.MatchResult, error) {
	start := time.Now()
	if err := job.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if s.store.Count(ctx) == 0 {
		return nil, fmt.Errorf("%w: ingest resumes first", ErrNoCandidates)
	}

	jobEmb, err := s.embedder.Embed(ctx, job.Description)
	if err != nil {
		return nil, fmt.Errorf("embed job description: %w", err)
	}
	prefilter, err := s.store.Query(ctx, jobEmb, s.cfg.PrefilterTopK)
	if err != nil {
		return nil, fmt.Errorf("semantic prefilter: %w", err)
	}

	required := job.NormalizedRequiredSkills()
	minYears := job.MinExperienceYears
	if minYears < 1 {
		// Floor the denominator so zero required experience does not divide by
		// zero; any experience >= 1 year then already scores 1.0.
		minYears = 1
	}

	results := make([]*models.MatchResult, 0, len(prefilter))
	for _, hit := range prefilter {
		c := hit.Candidate

		expScore := float64(c.ExperienceYears) / float64(minYears)
		if expScore > 1.0 {
			expScore = 1.0
		}

		overlap := 0
		for _, skill := range c.Skills {
			if _, ok := required[skill]; ok {
				overlap++
			}
		}
		denom := len(required)
		if denom < 1 {
			// With no required skills the intersection is empty, so this
			// always yields 0 rather than full credit. Intentionally kept
			// to stay score-compatible with prior deployments.
			denom = 1
		}
		skillScore := float64(overlap) / float64(denom)

		final := utils.Round4(s.cfg.SkillWeight*skillScore +
			s.cfg.ExperienceWeight*expScore +
			s.cfg.SemanticWeight*hit.Score)

		results = append(results, &models.MatchResult{
			CandidateID:     c.ID,
			SemanticScore:   hit.Score,
			SkillScore:      utils.Round4(skillScore),
			ExperienceScore: utils.Round4(expScore),
			FinalScore:      final,
		})
	}

	// Stable: equal final scores keep the semantic prefilter order.
	sort.SliceStable(results, func(i, j int) bool { return results[i].FinalScore > results[j].FinalScore })
	if len(results) > s.cfg.TopMatches {
		results = results[:s.cfg.TopMatches]
	}

	s.logger.Debug("job matched",
		zap.Int("results", len(results)),
		zap.Duration("took", time.Since(start)),
	)
	return results, nil
}

// CandidateHit is a keyword search result joined with its stored candidate.
type CandidateHit struct {
	Candidate *models.Candidate `json:"candidate"`
	Score     float64           `json:"score"`
}

// SearchCandidates runs a keyword (BM25) search over ingested resumes.
// Returns an error when the keyword index is disabled or the query is empty.
func (s *Service) SearchCandidates(ctx context.Context, query string, limit int) ([]*CandidateHit, error) {
	if s.keyword == nil {
		return nil, fmt.Errorf("keyword search is not enabled")
	}
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query cannot be empty", ErrInvalidInput)
	}
	hits, err := s.keyword.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	out := make([]*CandidateHit, 0, len(hits))
	for _, h := range hits {
		c, err := s.store.Get(ctx, h.ID)
		if err != nil {
			// Index and store can only disagree transiently during ingestion.
			continue
		}
		out = append(out, &CandidateHit{Candidate: c, Score: h.Score})
	}
	return out, nil
}

// Stats describes the current state of the matching core.
type Stats struct {
	Candidates          int    `json:"candidates"`
	EmbeddingDimensions int    `json:"embedding_dimensions"`
	KeywordDocs         uint64 `json:"keyword_docs"`
	KeywordEnabled      bool   `json:"keyword_enabled"`
}

// Stats returns candidate and index counts.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	st := &Stats{
		Candidates:          s.store.Count(ctx),
		EmbeddingDimensions: s.embedder.Dimensions(),
		KeywordEnabled:      s.keyword != nil,
	}
	if s.keyword != nil {
		n, err := s.keyword.DocCount()
		if err != nil {
			return nil, fmt.Errorf("keyword doc count: %w", err)
		}
		st.KeywordDocs = n
	}
	return st, nil
}

// Candidate returns a stored candidate by ID.
func (s *Service) Candidate(ctx context.Context, id string) (*models.Candidate, error) {
	return s.store.Get(ctx, id)
}

func normalizeSkills(skills []string) []string {
	seen := make(map[string]struct{}, len(skills))
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
