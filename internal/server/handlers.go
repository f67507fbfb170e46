package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hyperjump/awase/internal/matching"
	"github.com/hyperjump/awase/internal/models"
)

// maxUploadBytes caps multipart resume uploads at 10 MiB.
const maxUploadBytes = 10 << 20

func (s *Server) handleIngestCandidate(w http.ResponseWriter, r *http.Request) {
	var input models.CandidateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("ingest candidate request", zap.String("id", input.ID), zap.Int("text_len", len(input.Text)))
	c, err := s.service.IngestCandidate(r.Context(), &input)
	if err != nil {
		s.respondServiceError(w, err, "ingestion failed")
		return
	}
	s.respondJSON(w, http.StatusCreated, c)
}

func (s *Server) handleUploadResume(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "multipart field 'file' is required")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "failed to read upload")
		return
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	text, err := s.extractor.ExtractBytes(content, ext)
	if err != nil {
		s.logger.Warn("resume extraction failed", zap.String("filename", header.Filename), zap.Error(err))
		s.respondError(w, http.StatusUnprocessableEntity, "could not extract text from file")
		return
	}

	// Uploaded resumes keep the filename as their ID unless the client sends
	// an explicit one.
	id := r.FormValue("id")
	if id == "" {
		id = header.Filename
	}
	input := models.CandidateInput{
		ID:   id,
		Text: text,
	}
	s.logger.Debug("upload resume request",
		zap.String("filename", header.Filename),
		zap.String("id", input.ID),
	)
	c, err := s.service.IngestCandidate(r.Context(), &input)
	if err != nil {
		s.respondServiceError(w, err, "ingestion failed")
		return
	}
	s.respondJSON(w, http.StatusCreated, c)
}

func (s *Server) handleGetCandidate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	c, err := s.service.Candidate(r.Context(), id)
	if err != nil {
		s.respondError(w, http.StatusNotFound, "candidate not found")
		return
	}
	s.respondJSON(w, http.StatusOK, c)
}

func (s *Server) handleSearchCandidates(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	hits, err := s.service.SearchCandidates(r.Context(), query, limit)
	if err != nil {
		s.respondServiceError(w, err, "search failed")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"query": query,
		"hits":  hits,
	})
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	var query models.JobQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("match request",
		zap.Int("description_len", len(query.Description)),
		zap.Strings("required_skills", query.RequiredSkills),
		zap.Int("min_experience_years", query.MinExperienceYears),
	)
	results, err := s.service.MatchJob(r.Context(), &query)
	if err != nil {
		s.respondServiceError(w, err, "matching failed")
		return
	}
	s.respondJSON(w, http.StatusOK, &models.MatchResponse{TopMatches: results})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	stats, err := s.service.Stats(r.Context())
	if err != nil {
		s.logger.Error("status failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, stats)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// respondServiceError maps the matching error taxonomy onto HTTP statuses.
// Validation failures are the client's fault; an empty candidate pool reads as
// "nothing to match against" and gets 404 like a missing resource.
func (s *Server) respondServiceError(w http.ResponseWriter, err error, logMsg string) {
	switch {
	case errors.Is(err, matching.ErrInvalidInput), errors.Is(err, matching.ErrEmptyInput):
		s.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, matching.ErrNoCandidates):
		s.respondError(w, http.StatusNotFound, err.Error())
	default:
		s.logger.Error(logMsg, zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
