package types

import "github.com/m-mizutani/goerr/v2"

// Error tags classify failures so the request boundary can translate
// them into a structured response with the right status code.
var (
	// ErrTagAuth marks a webhook signature mismatch or missing signature
	ErrTagAuth = goerr.NewTag("authentication")

	// ErrTagConfig marks a missing credential for a selected provider
	ErrTagConfig = goerr.NewTag("configuration")

	// ErrTagProvider marks a transport or response failure from an LLM backend
	ErrTagProvider = goerr.NewTag("provider_call")

	// ErrTagStorage marks a metadata record read/write failure
	ErrTagStorage = goerr.NewTag("storage")

	// ErrTagValidation marks missing or malformed caller-supplied identifiers
	ErrTagValidation = goerr.NewTag("validation")
)
