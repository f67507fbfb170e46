package matching

import "errors"

// Core error taxonomy. All are local validation failures surfaced directly to
// the caller; nothing here is retried. The HTTP layer translates them into
// status codes with errors.Is.
var (
	// ErrEmptyInput means the resume text was blank after trimming, or could
	// not be decoded as text.
	ErrEmptyInput = errors.New("resume text is empty")
	// ErrInvalidInput means the job query is malformed (e.g. description too short).
	ErrInvalidInput = errors.New("invalid job query")
	// ErrNoCandidates means matching was attempted before any ingestion.
	ErrNoCandidates = errors.New("no candidates available")
)
