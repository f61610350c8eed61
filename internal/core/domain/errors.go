package domain

import (
	"fmt"
	"strings"
)

// ValidationError reports a request that was rejected before any extractor
// ran: missing or malformed URL, or a platform outside the accepted set.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// ParseError reports output from yt-dlp that could not be decoded as JSON.
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string {
	return e.Message
}

// ExhaustedError is the terminal failure returned when every extractor
// either failed or produced no media URLs. Failures are ordered by
// extractor attempt.
type ExhaustedError struct {
	Failures []ExtractionFailure
}

func (e *ExhaustedError) Error() string {
	reasons := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		reasons = append(reasons, fmt.Sprintf("%s: %s", f.Source, f.Reason))
	}
	return "all extractors failed: " + strings.Join(reasons, "; ")
}
