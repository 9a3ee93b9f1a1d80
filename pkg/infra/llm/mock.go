package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/m-mizutani/drover/pkg/domain/model"
)

// MockProvider is a deterministic, network-free provider. It serves as
// the fallback backend for unknown names and as a test fixture: the
// output shape depends only on the intent option.
type MockProvider struct{}

// Call implements interfaces.LLMProvider
func (p *MockProvider) Call(ctx context.Context, prompt string, opts model.CallOptions) (*model.ProviderResponse, error) {
	intent := opts.Intent
	if intent == "" {
		intent = "none"
	}

	return &model.ProviderResponse{
		Text: fmt.Sprintf("MOCK RESPONSE for intent=%s", intent),
		ProvenanceSuggestions: model.ProvenanceSuggestion{
			SourceID:    "mock-1",
			SourceTitle: "Mock run",
			SourceURL:   "runs/mock/meta.yaml",
			Confidence:  0.5,
		},
		Citations: []json.RawMessage{},
	}, nil
}
