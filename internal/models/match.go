package models

// MatchResult is one ranked candidate for a job query. All scores are in
// [0, 1] and rounded to 4 decimal places. Ordering by FinalScore descending
// is the only invariant callers may rely on.
type MatchResult struct {
	CandidateID     string  `json:"resume_id"`
	SemanticScore   float64 `json:"semantic_score"`
	SkillScore      float64 `json:"skill_score"`
	ExperienceScore float64 `json:"experience_score"`
	FinalScore      float64 `json:"final_score"`
}

// MatchResponse is the HTTP response for a match request.
type MatchResponse struct {
	TopMatches []*MatchResult `json:"top_matches"`
}
