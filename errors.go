package caselaw

import "errors"

var (
	// ErrNoMetadata is returned when a PDF has no matching metadata row.
	ErrNoMetadata = errors.New("caselaw: no metadata row for case file")

	// ErrParsingFailed is returned when PDF text extraction fails.
	ErrParsingFailed = errors.New("caselaw: parsing failed")

	// ErrExtractionFailed is returned when LLM extraction fails after retry.
	ErrExtractionFailed = errors.New("caselaw: extraction failed")

	// ErrEmbeddingFailed is returned when embedding generation fails.
	ErrEmbeddingFailed = errors.New("caselaw: embedding generation failed")

	// ErrIndexingFailed is returned when word or phrase indexing fails.
	ErrIndexingFailed = errors.New("caselaw: indexing failed")

	// ErrDatabaseFailed is returned when a case transaction cannot commit.
	ErrDatabaseFailed = errors.New("caselaw: database operation failed")

	// ErrCaseNotFound is returned when a case ID does not exist.
	ErrCaseNotFound = errors.New("caselaw: case not found")

	// ErrInvalidConfig is returned for invalid configuration values.
	ErrInvalidConfig = errors.New("caselaw: invalid configuration")
)
