// Package profile derives coarse structured signals (experience years, known
// skills) from raw resume text via simple heuristics. These are deliberately
// not NLP: order-dependent token scans and substring matches against a closed
// vocabulary.
package profile

import (
	"sort"
	"strings"
)

// Extractor extracts candidate attributes from lowercased resume text.
type Extractor struct {
	vocabulary []string
}

// NewExtractor returns an extractor using the given skill vocabulary.
// Entries are normalized to lowercase.
func NewExtractor(vocabulary []string) *Extractor {
	vocab := make([]string, 0, len(vocabulary))
	for _, v := range vocabulary {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			vocab = append(vocab, v)
		}
	}
	return &Extractor{vocabulary: vocab}
}

// ExperienceYears scans whitespace-delimited tokens in order and returns the
// first all-digit token with a value in 1..50, or 0 when none is found.
// First plausible number wins; "5 years experience" yields 5, but so would a
// street number appearing earlier in the text.
func (e *Extractor) ExperienceYears(textLower string) int {
	for _, token := range strings.Fields(textLower) {
		if !isDigits(token) {
			continue
		}
		value := 0
		for _, r := range token {
			value = value*10 + int(r-'0')
			if value > 50 {
				break
			}
		}
		if value > 0 && value < 51 {
			return value
		}
	}
	return 0
}

// Skills returns the vocabulary entries present as substrings of the
// lowercased text, sorted ascending. The result is always a subset of the
// vocabulary.
func (e *Extractor) Skills(textLower string) []string {
	matched := make([]string, 0, len(e.vocabulary))
	for _, skill := range e.vocabulary {
		if strings.Contains(textLower, skill) {
			matched = append(matched, skill)
		}
	}
	sort.Strings(matched)
	return matched
}

// Vocabulary returns the extractor's skill vocabulary.
func (e *Extractor) Vocabulary() []string {
	return append([]string(nil), e.vocabulary...)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
