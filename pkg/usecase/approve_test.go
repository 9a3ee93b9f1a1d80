package usecase_test

import (
	"context"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/drover/pkg/domain/model"
	"github.com/m-mizutani/drover/pkg/usecase"
)

func TestApproveUseCase_Approve(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	uc := usecase.NewApprove(store, "drover")

	result, err := uc.Approve(ctx, &model.ApproveRequest{
		RunID:    "run-20",
		Approver: "alice",
		Note:     "good to push",
		Title:    "Release build",
	})
	gt.NoError(t, err)

	gt.Value(t, result.RunID).Equal("run-20")
	gt.Value(t, result.MetaPath).Equal("runs/run-20/meta.yaml")

	patch := store.patchFor("run-20")
	gt.NotNil(t, patch)
	gt.Value(t, patch.Approver).Equal("alice")
	gt.Value(t, patch.Note).Equal("good to push")
	gt.Value(t, patch.SourceTitle).Equal("Release build")
	gt.Value(t, patch.CreatedBy).Equal("alice")
}

func TestApproveUseCase_MissingApprover(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	uc := usecase.NewApprove(store, "drover")

	result, err := uc.Approve(ctx, &model.ApproveRequest{RunID: "run-21"})
	gt.Error(t, err)
	gt.Nil(t, result)

	// Validation happens before any write
	gt.Nil(t, store.patchFor("run-21"))
}

func TestApproveUseCase_GeneratesRunID(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	uc := usecase.NewApprove(store, "drover")

	result, err := uc.Approve(ctx, &model.ApproveRequest{
		Approver: "alice",
		Kind:     "hotfix",
	})
	gt.NoError(t, err)

	gt.True(t, strings.HasPrefix(result.RunID, "drover-"))
	gt.True(t, strings.Contains(result.RunID, "-hotfix-"))
	gt.True(t, model.ValidRunID(result.RunID))
	gt.NotNil(t, store.patchFor(result.RunID))
}

func TestApproveUseCase_DefaultProject(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	uc := usecase.NewApprove(store, "")

	result, err := uc.Approve(ctx, &model.ApproveRequest{Approver: "bob"})
	gt.NoError(t, err)
	gt.True(t, strings.HasPrefix(result.RunID, usecase.DefaultProject+"-"))
}
