package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/hyperjump/awase/internal/config"
	"github.com/hyperjump/awase/internal/embedding"
	"github.com/hyperjump/awase/internal/extract"
	"github.com/hyperjump/awase/internal/keyword"
	"github.com/hyperjump/awase/internal/matching"
	"github.com/hyperjump/awase/internal/models"
	"github.com/hyperjump/awase/internal/profile"
	"github.com/hyperjump/awase/internal/store"
)

func newTestServer(t *testing.T) (*Server, *matching.Service) {
	t.Helper()
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	embedder := embedding.NewHashEmbedder(cfg.Embedding.Dimensions)
	candidates, err := store.NewMemoryStore(embedder.Dimensions())
	if err != nil {
		t.Fatalf("NewMemoryStore: %v", err)
	}
	kwIdx, err := keyword.NewMemIndex()
	if err != nil {
		t.Fatalf("NewMemIndex: %v", err)
	}
	t.Cleanup(func() { kwIdx.Close() })
	svc := matching.NewService(
		embedder,
		candidates,
		profile.NewExtractor(cfg.Matching.SkillVocabulary),
		&cfg.Matching,
		matching.WithKeywordIndex(kwIdx),
	)
	srv := NewServer(svc, extract.NewExtractor(), &cfg.Server, zap.NewNop())
	return srv, svc
}

func TestHandleIngestCandidate(t *testing.T) {
	srv, _ := newTestServer(t)
	body, _ := json.Marshal(map[string]string{
		"text": "Python FastAPI engineer with 5 years experience in AWS",
	})
	r := httptest.NewRequest(http.MethodPost, "/api/v1/candidates", bytes.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.handleIngestCandidate(w, r)
	if w.Code != http.StatusCreated {
		t.Fatalf("status: got %d, body: %s", w.Code, w.Body.String())
	}
	var c models.Candidate
	if err := json.NewDecoder(w.Body).Decode(&c); err != nil {
		t.Fatal(err)
	}
	if c.ID == "" {
		t.Error("expected a generated candidate ID")
	}
	if c.ExperienceYears != 5 {
		t.Errorf("experience_years: got %d, want 5", c.ExperienceYears)
	}
	if len(c.Skills) != 3 {
		t.Errorf("skills: got %v, want [aws fastapi python]", c.Skills)
	}
}

func TestHandleIngestCandidate_EmptyText(t *testing.T) {
	srv, _ := newTestServer(t)
	body, _ := json.Marshal(map[string]string{"text": "   "})
	r := httptest.NewRequest(http.MethodPost, "/api/v1/candidates", bytes.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.handleIngestCandidate(w, r)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", w.Code)
	}
}

func TestHandleIngestCandidate_BadJSON(t *testing.T) {
	srv, _ := newTestServer(t)
	r := httptest.NewRequest(http.MethodPost, "/api/v1/candidates", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()
	srv.handleIngestCandidate(w, r)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", w.Code)
	}
}

func TestHandleUploadResume(t *testing.T) {
	srv, _ := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "jane.txt")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write([]byte("React developer with 4 years of experience in docker"))
	mw.WriteField("id", "upload-1")
	mw.Close()

	r := httptest.NewRequest(http.MethodPost, "/api/v1/candidates/upload", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	srv.handleUploadResume(w, r)
	if w.Code != http.StatusCreated {
		t.Fatalf("status: got %d, body: %s", w.Code, w.Body.String())
	}
	var c models.Candidate
	if err := json.NewDecoder(w.Body).Decode(&c); err != nil {
		t.Fatal(err)
	}
	if c.ID != "upload-1" {
		t.Errorf("id: got %q, want upload-1", c.ID)
	}
	if c.ExperienceYears != 4 {
		t.Errorf("experience_years: got %d, want 4", c.ExperienceYears)
	}
}

func TestHandleUploadResume_FilenameAsID(t *testing.T) {
	srv, _ := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "john_smith.md")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write([]byte("Node developer with 2 years on AWS"))
	mw.Close()

	r := httptest.NewRequest(http.MethodPost, "/api/v1/candidates/upload", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	srv.handleUploadResume(w, r)
	if w.Code != http.StatusCreated {
		t.Fatalf("status: got %d, body: %s", w.Code, w.Body.String())
	}
	var c models.Candidate
	if err := json.NewDecoder(w.Body).Decode(&c); err != nil {
		t.Fatal(err)
	}
	if c.ID != "john_smith.md" {
		t.Errorf("id: got %q, want filename john_smith.md", c.ID)
	}
}

func TestHandleUploadResume_MissingFile(t *testing.T) {
	srv, _ := newTestServer(t)
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("id", "nothing")
	mw.Close()

	r := httptest.NewRequest(http.MethodPost, "/api/v1/candidates/upload", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	srv.handleUploadResume(w, r)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", w.Code)
	}
}

func TestHandleGetCandidate(t *testing.T) {
	srv, svc := newTestServer(t)
	if _, err := svc.IngestCandidate(context.Background(), &models.CandidateInput{
		ID:   "cand-get",
		Text: "Node developer with 2 years in react",
	}); err != nil {
		t.Fatalf("IngestCandidate: %v", err)
	}

	r := httptest.NewRequest(http.MethodGet, "/api/v1/candidates/cand-get", nil)
	w := httptest.NewRecorder()
	router := srv.Router()
	router.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body: %s", w.Code, w.Body.String())
	}
	var c models.Candidate
	if err := json.NewDecoder(w.Body).Decode(&c); err != nil {
		t.Fatal(err)
	}
	if c.ID != "cand-get" {
		t.Errorf("id: got %q, want cand-get", c.ID)
	}
}

func TestHandleGetCandidate_NotFound(t *testing.T) {
	srv, _ := newTestServer(t)
	r := httptest.NewRequest(http.MethodGet, "/api/v1/candidates/missing", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, r)
	if w.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", w.Code)
	}
}

func TestHandleMatch(t *testing.T) {
	srv, svc := newTestServer(t)
	ctx := context.Background()
	if _, err := svc.IngestCandidate(ctx, &models.CandidateInput{
		ID:   "a",
		Text: "React and FastAPI developer with 4 years building web apps",
	}); err != nil {
		t.Fatalf("ingest a: %v", err)
	}
	if _, err := svc.IngestCandidate(ctx, &models.CandidateInput{
		ID:   "b",
		Text: "Mechanical engineer with 8 years in manufacturing",
	}); err != nil {
		t.Fatalf("ingest b: %v", err)
	}

	body, _ := json.Marshal(models.JobQuery{
		Description:        "Looking for React and FastAPI developer",
		RequiredSkills:     []string{"react", "fastapi"},
		MinExperienceYears: 3,
	})
	r := httptest.NewRequest(http.MethodPost, "/api/v1/matches", bytes.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.handleMatch(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body: %s", w.Code, w.Body.String())
	}
	var out struct {
		TopMatches []map[string]interface{} `json:"top_matches"`
	}
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if len(out.TopMatches) != 2 {
		t.Fatalf("top_matches: got %d, want 2", len(out.TopMatches))
	}
	top := out.TopMatches[0]
	for _, field := range []string{"resume_id", "semantic_score", "skill_score", "experience_score", "final_score"} {
		if _, ok := top[field]; !ok {
			t.Errorf("missing field %q in match result", field)
		}
	}
	if top["resume_id"] != "a" {
		t.Errorf("top resume_id: got %v, want a", top["resume_id"])
	}
}

func TestHandleMatch_NoCandidates(t *testing.T) {
	srv, _ := newTestServer(t)
	body, _ := json.Marshal(models.JobQuery{Description: "Hiring a backend engineer now"})
	r := httptest.NewRequest(http.MethodPost, "/api/v1/matches", bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.handleMatch(w, r)
	if w.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", w.Code)
	}
}

func TestHandleMatch_InvalidQuery(t *testing.T) {
	srv, svc := newTestServer(t)
	if _, err := svc.IngestCandidate(context.Background(), &models.CandidateInput{
		Text: "Python developer with 2 years experience",
	}); err != nil {
		t.Fatalf("IngestCandidate: %v", err)
	}
	body, _ := json.Marshal(models.JobQuery{Description: "short"})
	r := httptest.NewRequest(http.MethodPost, "/api/v1/matches", bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.handleMatch(w, r)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", w.Code)
	}
}

func TestHandleSearchCandidates(t *testing.T) {
	srv, svc := newTestServer(t)
	if _, err := svc.IngestCandidate(context.Background(), &models.CandidateInput{
		ID:   "kw-1",
		Text: "Kubernetes platform engineer with 5 years running clusters",
	}); err != nil {
		t.Fatalf("IngestCandidate: %v", err)
	}

	r := httptest.NewRequest(http.MethodGet, "/api/v1/candidates/search?q=kubernetes", nil)
	w := httptest.NewRecorder()
	srv.handleSearchCandidates(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body: %s", w.Code, w.Body.String())
	}
	var out struct {
		Query string `json:"query"`
		Hits  []struct {
			Candidate models.Candidate `json:"candidate"`
			Score     float64          `json:"score"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if len(out.Hits) != 1 || out.Hits[0].Candidate.ID != "kw-1" {
		t.Errorf("hits: got %+v, want one hit for kw-1", out.Hits)
	}
}

func TestHandleSearchCandidates_BadLimit(t *testing.T) {
	srv, _ := newTestServer(t)
	r := httptest.NewRequest(http.MethodGet, "/api/v1/candidates/search?q=python&limit=zero", nil)
	w := httptest.NewRecorder()
	srv.handleSearchCandidates(w, r)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", w.Code)
	}
}

func TestHandleStatus(t *testing.T) {
	srv, svc := newTestServer(t)
	if _, err := svc.IngestCandidate(context.Background(), &models.CandidateInput{
		Text: "Data engineer with 3 years of postgresql",
	}); err != nil {
		t.Fatalf("IngestCandidate: %v", err)
	}

	r := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	w := httptest.NewRecorder()
	srv.handleStatus(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body: %s", w.Code, w.Body.String())
	}
	var out struct {
		Candidates          int  `json:"candidates"`
		EmbeddingDimensions int  `json:"embedding_dimensions"`
		KeywordEnabled      bool `json:"keyword_enabled"`
	}
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Candidates != 1 {
		t.Errorf("candidates: got %d, want 1", out.Candidates)
	}
	if out.EmbeddingDimensions != 32 {
		t.Errorf("embedding_dimensions: got %d, want 32", out.EmbeddingDimensions)
	}
	if !out.KeywordEnabled {
		t.Error("keyword_enabled: got false, want true")
	}
}

func TestHandleHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	r := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.handleHealth(w, r)
	if w.Code != http.StatusOK {
		t.Errorf("status: got %d", w.Code)
	}
}
