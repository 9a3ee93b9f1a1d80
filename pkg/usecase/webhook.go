package usecase

import (
	"context"
	"encoding/json"

	"github.com/m-mizutani/ctxlog"

	"github.com/m-mizutani/drover/pkg/domain/model"
)

type webhookUseCase struct{}

// NewWebhook creates a new instance of WebhookUseCase
func NewWebhook() *webhookUseCase {
	return &webhookUseCase{}
}

// ProcessEvent normalizes a verified pipeline event into the canonical
// run summary. Normalization is total: any payload, including an empty
// or non-object one, yields a summary with defaults filled in.
func (uc *webhookUseCase) ProcessEvent(ctx context.Context, event *model.WebhookEvent) (*model.RunSummary, error) {
	logger := ctxlog.From(ctx)

	var payload map[string]any
	if len(event.RawPayload) > 0 {
		// Non-object JSON (array, string, ...) normalizes to pure defaults
		if err := json.Unmarshal(event.RawPayload, &payload); err != nil {
			payload = nil
		}
	}

	summary := model.NormalizeRun(payload)

	logger.Info("Processed pipeline event",
		"id", event.ID,
		"run_id", summary.RunID,
		"workflow_name", summary.WorkflowName,
		"status", summary.Status,
		"duration_ms", summary.DurationMS,
		"highlights", len(summary.Highlights),
		"top_logs", len(summary.TopLogs),
	)

	return summary, nil
}
