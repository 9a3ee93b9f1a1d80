package model

import "encoding/json"

// ProvenanceSuggestion is the provider's hint about where the generated
// text came from. Every provider must set Confidence within [0, 1].
type ProvenanceSuggestion struct {
	SourceID    string  `json:"source_id"`
	SourceTitle string  `json:"source_title"`
	SourceURL   string  `json:"source_url"`
	Confidence  float64 `json:"confidence"`
}

// ProviderResponse is the canonical reply shape shared by every LLM
// backend. Citations are opaque source descriptors passed through
// untouched; the slice is never nil.
type ProviderResponse struct {
	Text                  string               `json:"text"`
	ProvenanceSuggestions ProvenanceSuggestion `json:"provenance_suggestions"`
	Citations             []json.RawMessage    `json:"citations"`
}

// CallOptions carries per-call context into a provider
type CallOptions struct {
	RunID  string
	Intent string
	Goal   string
}

// SummarizeRequest is the body of POST /llm/summarizeRun. Provider
// comes from the query string, not the body.
type SummarizeRequest struct {
	RunID     string            `json:"run_id"`
	Artifacts []json.RawMessage `json:"artifacts"`
	Intent    string            `json:"intent"`
	Provider  string            `json:"-"`
}

// ExplainRequest is the body of POST /llm/explainChange
type ExplainRequest struct {
	RunID    string `json:"run_id"`
	DiffText string `json:"diff_text"`
	Goal     string `json:"goal"`
	Provider string `json:"-"`
}

// GatewayResult pairs a canonical response with the provider kind that
// actually served it (the resolved kind, not the requested name).
type GatewayResult struct {
	Provider string
	Response *ProviderResponse
}
