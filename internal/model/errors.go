package model

import "errors"

// Error taxonomy of the analysis engine. Callers branch with errors.Is;
// everything else coming out of the engine is an internal failure.
var (
	// ErrInvalidConfig marks a rejected analysis configuration.
	ErrInvalidConfig = errors.New("invalid analysis config")

	// ErrMalformedInput marks a payload whose event stream is present but
	// not a sequence of records.
	ErrMalformedInput = errors.New("malformed trace input")
)
