package services

import "errors"

// Failure taxonomy for ranking runs. Resolver failures never appear here:
// they are absorbed by the geometric fallback inside the resolver.
var (
	// Client is unknown or has no usable location. Not retried; the
	// reference data must be fixed by an operator.
	ErrClientNotAnalyzable = errors.New("client not analyzable")

	// No provider in the candidate set has a usable location.
	ErrNoCandidates = errors.New("no candidate providers")

	// Writing the rank set failed; the previously persisted set is intact
	// and the whole client run may be retried.
	ErrPersistenceFailed = errors.New("ranking persistence failed")
)
