package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/hyperjump/awase/internal/matching"
	"github.com/hyperjump/awase/internal/models"
)

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"text", OutputText, false},
		{"", OutputText, false},
		{"json", OutputJSON, false},
		{"yaml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseOutputFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseOutputFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseOutputFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriteMatchResultsText(t *testing.T) {
	var buf bytes.Buffer
	resp := &models.MatchResponse{TopMatches: []*models.MatchResult{
		{CandidateID: "a", SkillScore: 1, ExperienceScore: 1, SemanticScore: 0.5, FinalScore: 0.9},
	}}
	if err := WriteMatchResults(&buf, resp, OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "Resume: a") {
		t.Errorf("missing resume ID in output:\n%s", out)
	}
	if !strings.Contains(out, "0.9000") {
		t.Errorf("missing final score in output:\n%s", out)
	}
}

func TestWriteMatchResultsJSON(t *testing.T) {
	var buf bytes.Buffer
	resp := &models.MatchResponse{TopMatches: []*models.MatchResult{
		{CandidateID: "a", FinalScore: 0.9},
	}}
	if err := WriteMatchResults(&buf, resp, OutputJSON); err != nil {
		t.Fatal(err)
	}
	var decoded struct {
		TopMatches []struct {
			ResumeID string `json:"resume_id"`
		} `json:"top_matches"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded.TopMatches) != 1 || decoded.TopMatches[0].ResumeID != "a" {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestWriteSearchHitsText(t *testing.T) {
	var buf bytes.Buffer
	hits := []*matching.CandidateHit{
		{
			Candidate: &models.Candidate{
				ID:              "kw-1",
				Text:            "Kubernetes engineer",
				ExperienceYears: 5,
				Skills:          []string{"kubernetes"},
			},
			Score: 1.23,
		},
	}
	if err := WriteSearchHits(&buf, "kubernetes", hits, OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"kw-1", "Kubernetes engineer", "5 year(s)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteCandidate(t *testing.T) {
	var buf bytes.Buffer
	c := &models.Candidate{ID: "c1", ExperienceYears: 3, Skills: []string{"python"}}
	if err := WriteCandidate(&buf, c, OutputText); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "c1") {
		t.Errorf("output missing candidate ID:\n%s", buf.String())
	}
}
