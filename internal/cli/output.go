// Package cli provides output rendering for the Awase command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/hyperjump/awase/internal/matching"
	"github.com/hyperjump/awase/internal/models"
	"github.com/hyperjump/awase/pkg/utils"
)

// OutputFormat is the format for CLI result output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseOutputFormat validates a --output flag value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch s {
	case "text", "":
		return OutputText, nil
	case "json":
		return OutputJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text or json", s)
	}
}

// WriteMatchResults writes ranked match results to w in the given format.
func WriteMatchResults(w io.Writer, response *models.MatchResponse, format OutputFormat) error {
	if format == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(response)
	}
	writeMatchResultsText(w, response)
	return nil
}

func writeMatchResultsText(w io.Writer, response *models.MatchResponse) {
	fmt.Fprintf(w, "\nTop %d match(es)\n\n", len(response.TopMatches))
	for i, m := range response.TopMatches {
		fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
		fmt.Fprintf(w, "Rank: %d | Final: %.4f (Skill: %.4f, Experience: %.4f, Semantic: %.4f)\n",
			i+1, m.FinalScore, m.SkillScore, m.ExperienceScore, m.SemanticScore)
		fmt.Fprintf(w, "Resume: %s\n\n", m.CandidateID)
	}
}

// WriteSearchHits writes keyword search hits to w in the given format.
func WriteSearchHits(w io.Writer, query string, hits []*matching.CandidateHit, format OutputFormat) error {
	if format == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]interface{}{"query": query, "hits": hits})
	}
	fmt.Fprintf(w, "\nFound %d candidate(s) for %q\n\n", len(hits), query)
	for _, h := range hits {
		fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
		fmt.Fprintf(w, "Score: %.4f | ID: %s\n", h.Score, h.Candidate.ID)
		if h.Candidate.ExperienceYears > 0 {
			fmt.Fprintf(w, "Experience: %d year(s)\n", h.Candidate.ExperienceYears)
		}
		if len(h.Candidate.Skills) > 0 {
			fmt.Fprintf(w, "Skills: %v\n", h.Candidate.Skills)
		}
		fmt.Fprintf(w, "\n%s\n\n", utils.Truncate(h.Candidate.Text, 200))
	}
	return nil
}

// WriteCandidate writes a single ingested candidate to w.
func WriteCandidate(w io.Writer, c *models.Candidate, format OutputFormat) error {
	if format == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(c)
	}
	fmt.Fprintf(w, "Candidate ingested: %s\n", c.ID)
	fmt.Fprintf(w, "  experience_years: %d\n", c.ExperienceYears)
	fmt.Fprintf(w, "  skills:           %v\n", c.Skills)
	return nil
}
