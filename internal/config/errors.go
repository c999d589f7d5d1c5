package config

import "errors"

// Errors returned by configuration operations.
var (
	// ErrValidationFailed indicates a setting outside its allowed range.
	ErrValidationFailed = errors.New("validation failed")

	// ErrUnknownPatternKind indicates a pattern table that does not exist.
	ErrUnknownPatternKind = errors.New("unknown pattern kind")
)
