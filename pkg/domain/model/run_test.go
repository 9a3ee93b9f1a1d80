package model_test

import (
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/drover/pkg/domain/model"
)

func TestNormalizeRun_Defaults(t *testing.T) {
	tests := []struct {
		name  string
		input map[string]any
	}{
		{
			name:  "Nil input",
			input: nil,
		},
		{
			name:  "Empty object",
			input: map[string]any{},
		},
		{
			name: "Unknown fields only",
			input: map[string]any{
				"foo": "bar",
				"baz": float64(42),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := model.NormalizeRun(tt.input)

			if summary.RunID == "" {
				t.Error("RunID should be generated, got empty")
			}
			if !strings.HasPrefix(summary.RunID, "run-") {
				t.Errorf("Generated RunID = %v, want run- prefix", summary.RunID)
			}
			if summary.WorkflowName != model.DefaultWorkflowName {
				t.Errorf("WorkflowName = %v, want %v", summary.WorkflowName, model.DefaultWorkflowName)
			}
			if summary.Status != model.DefaultStatus {
				t.Errorf("Status = %v, want %v", summary.Status, model.DefaultStatus)
			}
			if summary.DurationMS != 0 {
				t.Errorf("DurationMS = %v, want 0", summary.DurationMS)
			}
			if summary.Highlights == nil || len(summary.Highlights) != 0 {
				t.Errorf("Highlights = %v, want empty non-nil slice", summary.Highlights)
			}
			if summary.TopLogs == nil || len(summary.TopLogs) != 0 {
				t.Errorf("TopLogs = %v, want empty non-nil slice", summary.TopLogs)
			}
			if summary.FetchedAt.IsZero() {
				t.Error("FetchedAt should be set")
			}
		})
	}
}

func TestNormalizeRun_AliasResolution(t *testing.T) {
	tests := []struct {
		name         string
		input        map[string]any
		wantRunID    string
		wantWorkflow string
	}{
		{
			name: "Canonical field names",
			input: map[string]any{
				"run_id":       "run-1",
				"workflowName": "deploy",
			},
			wantRunID:    "run-1",
			wantWorkflow: "deploy",
		},
		{
			name: "executionId alias",
			input: map[string]any{
				"executionId": "exec-9",
			},
			wantRunID:    "exec-9",
			wantWorkflow: model.DefaultWorkflowName,
		},
		{
			name: "run_id wins over executionId",
			input: map[string]any{
				"run_id":      "run-1",
				"executionId": "exec-9",
			},
			wantRunID:    "run-1",
			wantWorkflow: model.DefaultWorkflowName,
		},
		{
			name: "workflow alias",
			input: map[string]any{
				"run_id":   "run-2",
				"workflow": "nightly",
			},
			wantRunID:    "run-2",
			wantWorkflow: "nightly",
		},
		{
			name: "name alias is the last resort",
			input: map[string]any{
				"run_id": "run-3",
				"name":   "release",
			},
			wantRunID:    "run-3",
			wantWorkflow: "release",
		},
		{
			name: "Non-string run_id ignored",
			input: map[string]any{
				"run_id":      float64(123),
				"executionId": "exec-5",
			},
			wantRunID:    "exec-5",
			wantWorkflow: model.DefaultWorkflowName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := model.NormalizeRun(tt.input)

			if summary.RunID != tt.wantRunID {
				t.Errorf("RunID = %v, want %v", summary.RunID, tt.wantRunID)
			}
			if summary.WorkflowName != tt.wantWorkflow {
				t.Errorf("WorkflowName = %v, want %v", summary.WorkflowName, tt.wantWorkflow)
			}
		})
	}
}

func TestNormalizeRun_DurationCoercion(t *testing.T) {
	tests := []struct {
		name  string
		input map[string]any
		want  int64
	}{
		{
			name:  "Number",
			input: map[string]any{"duration_ms": float64(1500)},
			want:  1500,
		},
		{
			name:  "Fractional number truncates",
			input: map[string]any{"duration_ms": float64(1500.9)},
			want:  1500,
		},
		{
			name:  "Numeric string",
			input: map[string]any{"duration_ms": "2500"},
			want:  2500,
		},
		{
			name:  "duration alias",
			input: map[string]any{"duration": float64(300)},
			want:  300,
		},
		{
			name:  "Negative clamps to zero",
			input: map[string]any{"duration_ms": float64(-10)},
			want:  0,
		},
		{
			name:  "Unparseable string falls through to alias",
			input: map[string]any{"duration_ms": "soon", "duration": float64(77)},
			want:  77,
		},
		{
			name:  "Non-numeric value",
			input: map[string]any{"duration_ms": true},
			want:  0,
		},
		{
			name:  "Missing",
			input: map[string]any{},
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := model.NormalizeRun(tt.input)
			if summary.DurationMS != tt.want {
				t.Errorf("DurationMS = %v, want %v", summary.DurationMS, tt.want)
			}
		})
	}
}

func TestNormalizeRun_Lists(t *testing.T) {
	input := map[string]any{
		"run_id": "run-lists",
		"highlights": []any{
			map[string]any{"title": "Build", "excerpt": "ok"},
			"not an object",
			map[string]any{"title": "Test"},
		},
		"logs": []any{
			map[string]any{"level": "error", "message": "boom"},
			float64(1),
		},
	}

	summary := model.NormalizeRun(input)

	if len(summary.Highlights) != 2 {
		t.Fatalf("Highlights length = %v, want 2", len(summary.Highlights))
	}
	if summary.Highlights[0].Title != "Build" || summary.Highlights[0].Excerpt != "ok" {
		t.Errorf("Highlights[0] = %+v", summary.Highlights[0])
	}
	if summary.Highlights[1].Title != "Test" || summary.Highlights[1].Excerpt != "" {
		t.Errorf("Highlights[1] = %+v", summary.Highlights[1])
	}

	if len(summary.TopLogs) != 1 {
		t.Fatalf("TopLogs length = %v, want 1", len(summary.TopLogs))
	}
	if summary.TopLogs[0].Level != "error" || summary.TopLogs[0].Message != "boom" {
		t.Errorf("TopLogs[0] = %+v", summary.TopLogs[0])
	}
}

func TestGeneratedRunID(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

	id := model.GeneratedRunID(now)
	if !strings.HasPrefix(id, "run-20260314-150926-") {
		t.Errorf("GeneratedRunID = %v, want run-20260314-150926- prefix", id)
	}

	other := model.GeneratedRunID(now)
	if id == other {
		t.Error("GeneratedRunID should include a random suffix")
	}
}
