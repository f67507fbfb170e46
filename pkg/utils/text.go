// Package utils provides shared utilities for text, math, and logging.
package utils

// Truncate shortens s to at most maxLen bytes, appending "..." when anything
// was cut. Used to keep resume excerpts readable in CLI output. A non-positive
// maxLen disables truncation.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
