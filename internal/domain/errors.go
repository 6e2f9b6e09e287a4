package domain

import (
	"errors"
	"fmt"
)

// ErrorKind names a stage of per-URL processing that can fail.
type ErrorKind string

const (
	ErrFetch   ErrorKind = "FETCH_FAILED"
	ErrExtract ErrorKind = "EXTRACT_FAILED"
	ErrScore   ErrorKind = "SCORE_FAILED"
	ErrPersist ErrorKind = "PERSIST_FAILED"
)

// ScrapeError carries the failure taxonomy across the adapter boundary so
// the orchestrator can record the right kind without string matching.
type ScrapeError struct {
	Kind ErrorKind
	URL  string
	Err  error
}

// NewScrapeError wraps err with its processing stage and URL.
func NewScrapeError(kind ErrorKind, url string, err error) *ScrapeError {
	return &ScrapeError{Kind: kind, URL: url, Err: err}
}

func (e *ScrapeError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Kind, e.URL, e.Err)
}

func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// KindOf extracts the error kind, falling back when err carries none.
func KindOf(err error, fallback ErrorKind) ErrorKind {
	var scrapeErr *ScrapeError
	if errors.As(err, &scrapeErr) {
		return scrapeErr.Kind
	}
	return fallback
}
