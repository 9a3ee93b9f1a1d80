package llm

import (
	"context"
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/m-mizutani/drover/pkg/domain/model"
	"github.com/m-mizutani/drover/pkg/domain/types"
)

const (
	openAIDefaultModel = "gpt-4o-mini"
	openAISystemPrompt = "You are a helpful assistant."
	openAIMaxTokens    = 800
)

type openAIProvider struct {
	apiKey    string
	modelName string
	client    openai.Client
}

func newOpenAIProvider(cfg Config) *openAIProvider {
	modelName := cfg.OpenAIModel
	if modelName == "" {
		modelName = openAIDefaultModel
	}

	clientOpts := []option.RequestOption{option.WithAPIKey(cfg.OpenAIAPIKey)}
	if cfg.OpenAIBaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(cfg.OpenAIBaseURL))
	}

	return &openAIProvider{
		apiKey:    cfg.OpenAIAPIKey,
		modelName: modelName,
		client:    openai.NewClient(clientOpts...),
	}
}

// Call posts a single chat completion request and maps the first
// choice's message content into the canonical response.
func (p *openAIProvider) Call(ctx context.Context, prompt string, opts model.CallOptions) (*model.ProviderResponse, error) {
	if p.apiKey == "" {
		return nil, goerr.New("OpenAI API key is not configured", goerr.T(types.ErrTagConfig))
	}

	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: p.modelName,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(openAISystemPrompt),
			openai.UserMessage(prompt),
		},
		MaxCompletionTokens: openai.Int(openAIMaxTokens),
	})
	if err != nil {
		return nil, goerr.Wrap(err, "openai chat completion failed", goerr.T(types.ErrTagProvider))
	}
	if len(resp.Choices) == 0 {
		return nil, goerr.New("openai returned no choices", goerr.T(types.ErrTagProvider))
	}

	sourceID := opts.RunID
	if sourceID == "" {
		sourceID = "openai-run"
	}

	return &model.ProviderResponse{
		Text: resp.Choices[0].Message.Content,
		ProvenanceSuggestions: model.ProvenanceSuggestion{
			SourceID:    sourceID,
			SourceTitle: "OpenAI summary",
			Confidence:  0.8,
		},
		Citations: []json.RawMessage{},
	}, nil
}
