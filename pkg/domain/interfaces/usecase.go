package interfaces

import (
	"context"

	"github.com/m-mizutani/drover/pkg/domain/model"
)

// WebhookUseCase defines the interface for pipeline event processing
type WebhookUseCase interface {
	// ProcessEvent normalizes a verified event into a run summary
	ProcessEvent(ctx context.Context, event *model.WebhookEvent) (*model.RunSummary, error)
}

// LLMUseCase drives the provider gateway
type LLMUseCase interface {
	// SummarizeRun asks a provider to summarize one pipeline run
	SummarizeRun(ctx context.Context, req *model.SummarizeRequest) (*model.GatewayResult, error)

	// ExplainChange asks a provider to explain a diff against a goal
	ExplainChange(ctx context.Context, req *model.ExplainRequest) (*model.GatewayResult, error)
}

// ApproveUseCase stamps an approver identity onto a run's metadata
type ApproveUseCase interface {
	Approve(ctx context.Context, req *model.ApproveRequest) (*model.ApproveResult, error)
}
