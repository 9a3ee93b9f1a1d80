package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/drover/pkg/domain/interfaces"
	"github.com/m-mizutani/drover/pkg/domain/model"
	"github.com/m-mizutani/drover/pkg/domain/types"
)

// DefaultProject is the run id prefix used when no project is configured
const DefaultProject = "drover"

type approveUseCase struct {
	store   interfaces.MetadataStore
	project string
}

// NewApprove creates the use case behind POST /metadata/approve
func NewApprove(store interfaces.MetadataStore, project string) interfaces.ApproveUseCase {
	if project == "" {
		project = DefaultProject
	}
	return &approveUseCase{
		store:   store,
		project: project,
	}
}

// Approve stamps the approver identity onto the run's metadata,
// creating the record when none exists. The approver is required and
// validated before any side effect.
func (uc *approveUseCase) Approve(ctx context.Context, req *model.ApproveRequest) (*model.ApproveResult, error) {
	logger := ctxlog.From(ctx)

	if req.Approver == "" {
		return nil, goerr.New("approver is required", goerr.T(types.ErrTagValidation))
	}

	runID := req.RunID
	generated := false
	if runID == "" {
		runID = model.NewApprovalRunID(uc.project, req.Kind, time.Now().UTC())
		generated = true
	}

	patch := &model.MetadataPatch{
		SourceTitle:  req.Title,
		Confidence:   req.Confidence,
		RoundingRule: req.RoundingRule,
		CreatedBy:    req.Approver,
		Approver:     req.Approver,
		Note:         req.Note,
	}

	meta, err := uc.store.Upsert(ctx, runID, patch)
	if err != nil {
		return nil, err
	}

	logger.Info("Recorded push authorization",
		"run_id", runID,
		"approver", req.Approver,
		"generated_run_id", generated,
	)

	return &model.ApproveResult{
		RunID:    runID,
		MetaPath: uc.store.Path(runID),
		Metadata: meta,
	}, nil
}
