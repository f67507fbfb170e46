// Package models defines core data structures for candidates, job queries, and match results.
package models

import "time"

// Candidate is a stored resume record eligible for matching. Records are
// append-only: once ingested they are never mutated, and they live for the
// process lifetime only.
type Candidate struct {
	ID              string    `json:"id"`
	Text            string    `json:"text"`
	Embedding       []float32 `json:"-"`
	ExperienceYears int       `json:"experience_years"`
	Skills          []string  `json:"skills"`
	CreatedAt       time.Time `json:"created_at"`
}

// CandidateInput is the ingestion request. Text is required; the remaining
// fields override the heuristically derived attributes when set.
type CandidateInput struct {
	ID              string   `json:"id,omitempty"`
	Text            string   `json:"text"`
	ExperienceYears *int     `json:"experience_years,omitempty"`
	Skills          []string `json:"skills,omitempty"`
}
