package models

import (
	"fmt"
	"strings"
)

// MinDescriptionLength is the minimum number of characters a job description
// must have to be matchable.
const MinDescriptionLength = 10

// JobQuery is a job post to match candidates against. It is constructed per
// request and never stored.
type JobQuery struct {
	Description        string   `json:"description"`
	RequiredSkills     []string `json:"required_skills,omitempty"`
	MinExperienceYears int      `json:"min_experience_years,omitempty"`
}

// Validate checks the query fields. It returns a descriptive error when the
// description is shorter than MinDescriptionLength or the minimum experience
// is negative.
func (q *JobQuery) Validate() error {
	if len(strings.TrimSpace(q.Description)) < MinDescriptionLength {
		return fmt.Errorf("description must be at least %d characters", MinDescriptionLength)
	}
	if q.MinExperienceYears < 0 {
		return fmt.Errorf("min_experience_years cannot be negative")
	}
	return nil
}

// NormalizedRequiredSkills returns the required skills lowercased and
// deduplicated, as a set.
func (q *JobQuery) NormalizedRequiredSkills() map[string]struct{} {
	set := make(map[string]struct{}, len(q.RequiredSkills))
	for _, s := range q.RequiredSkills {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			set[s] = struct{}{}
		}
	}
	return set
}
