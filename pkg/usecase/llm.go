package usecase

import (
	"bytes"
	"context"
	_ "embed"
	"text/template"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/drover/pkg/domain/interfaces"
	"github.com/m-mizutani/drover/pkg/domain/model"
	"github.com/m-mizutani/drover/pkg/utils/async"
)

//go:embed prompts/summarize_run.md
var summarizePromptTemplate string

//go:embed prompts/explain_change.md
var explainPromptTemplate string

type llmUseCase struct {
	registry      interfaces.ProviderRegistry
	store         interfaces.MetadataStore
	summarizeTmpl *template.Template
	explainTmpl   *template.Template
}

// NewLLM creates the use case behind the /llm endpoints
func NewLLM(registry interfaces.ProviderRegistry, store interfaces.MetadataStore) (interfaces.LLMUseCase, error) {
	summarizeTmpl, err := template.New("summarize_run").Parse(summarizePromptTemplate)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse summarize prompt template")
	}

	explainTmpl, err := template.New("explain_change").Parse(explainPromptTemplate)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse explain prompt template")
	}

	return &llmUseCase{
		registry:      registry,
		store:         store,
		summarizeTmpl: summarizeTmpl,
		explainTmpl:   explainTmpl,
	}, nil
}

// SummarizeRun asks the selected provider to summarize one run
func (uc *llmUseCase) SummarizeRun(ctx context.Context, req *model.SummarizeRequest) (*model.GatewayResult, error) {
	prompt, err := renderPrompt(uc.summarizeTmpl, map[string]any{
		"RunID":         req.RunID,
		"ArtifactCount": len(req.Artifacts),
		"Intent":        req.Intent,
	})
	if err != nil {
		return nil, err
	}

	return uc.call(ctx, prompt, req.Provider, model.CallOptions{
		RunID:  req.RunID,
		Intent: req.Intent,
	})
}

// ExplainChange asks the selected provider to explain a diff
func (uc *llmUseCase) ExplainChange(ctx context.Context, req *model.ExplainRequest) (*model.GatewayResult, error) {
	prompt, err := renderPrompt(uc.explainTmpl, map[string]any{
		"RunID":    req.RunID,
		"Goal":     req.Goal,
		"DiffText": req.DiffText,
	})
	if err != nil {
		return nil, err
	}

	return uc.call(ctx, prompt, req.Provider, model.CallOptions{
		RunID: req.RunID,
		Goal:  req.Goal,
	})
}

func (uc *llmUseCase) call(ctx context.Context, prompt, providerName string, opts model.CallOptions) (*model.GatewayResult, error) {
	logger := ctxlog.From(ctx)

	provider, kind := uc.registry.Select(providerName)

	logger.Debug("Calling LLM provider",
		"provider", kind,
		"run_id", opts.RunID,
		"prompt_length", len(prompt),
	)

	resp, err := provider.Call(ctx, prompt, opts)
	if err != nil {
		logger.Error("LLM provider call failed", "provider", kind, "error", err)
		return nil, err
	}

	uc.recordProvenance(ctx, opts.RunID, resp)

	return &model.GatewayResult{Provider: kind, Response: resp}, nil
}

// recordProvenance persists the provider's provenance hint for the
// run. The first summarization creates the record; the write happens
// off the request path so storage latency never delays the reply.
func (uc *llmUseCase) recordProvenance(ctx context.Context, runID string, resp *model.ProviderResponse) {
	if !model.ValidRunID(runID) {
		return
	}

	patch := &model.MetadataPatch{
		SourceID:    resp.ProvenanceSuggestions.SourceID,
		SourceTitle: resp.ProvenanceSuggestions.SourceTitle,
		SourceURL:   resp.ProvenanceSuggestions.SourceURL,
		Confidence:  model.ConfidenceFromScore(resp.ProvenanceSuggestions.Confidence),
		CreatedBy:   "llm-gateway",
	}

	async.Dispatch(ctx, func(ctx context.Context) error {
		if _, err := uc.store.Upsert(ctx, runID, patch); err != nil {
			return goerr.Wrap(err, "failed to record provenance", goerr.V("run_id", runID))
		}
		return nil
	})
}

func renderPrompt(tmpl *template.Template, data map[string]any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", goerr.Wrap(err, "failed to execute prompt template")
	}
	return buf.String(), nil
}
