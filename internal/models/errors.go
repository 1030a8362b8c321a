package models

import "errors"

var (
	// ErrModelUnavailable marks a model that could not be loaded or
	// reached; callers degrade to a fallback where one exists.
	ErrModelUnavailable = errors.New("model unavailable")

	// ErrInputFormat marks an unreadable or malformed dataset.
	ErrInputFormat = errors.New("invalid input format")

	// ErrEmptyInput marks a comment with no analyzable text after
	// cleaning.
	ErrEmptyInput = errors.New("empty input")

	// ErrExportFailure marks a report that could not be written.
	ErrExportFailure = errors.New("export failure")
)
