package types

import "github.com/m-mizutani/goerr/v2"

// Error tags classify pipeline failures so that callers can map them to
// outcomes and exit codes without string matching.
var (
	// ErrTagAnalysis marks failures of the static analyzer itself
	// (empty or unreadable code set, broken analyzer output). Fatal:
	// the pipeline halts before any deployment attempt.
	ErrTagAnalysis = goerr.NewTag("analysis")

	// ErrTagAuth marks a missing or malformed deployment credential.
	// Fatal, and raised before any network call is made.
	ErrTagAuth = goerr.NewTag("auth")

	// ErrTagConfig marks invalid configuration or trigger input.
	ErrTagConfig = goerr.NewTag("config")

	// ErrTagTransient marks retryable delivery failures (timeout,
	// connection error, 5xx response).
	ErrTagTransient = goerr.NewTag("transient")

	// ErrTagPermanent marks non-retryable delivery failures (4xx).
	ErrTagPermanent = goerr.NewTag("permanent")
)
