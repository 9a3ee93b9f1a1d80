package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Defaults applied when a caller omits the corresponding field
const (
	DefaultWorkflowName = "pipeline-workflow"
	DefaultStatus       = "completed"
)

// Highlight is one notable excerpt from a pipeline run
type Highlight struct {
	Title   string `json:"title"`
	Excerpt string `json:"excerpt"`
}

// LogEntry is one log line surfaced by the caller
type LogEntry struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// RunSummary is the canonical representation of one pipeline execution
type RunSummary struct {
	RunID        string      `json:"run_id"`
	WorkflowName string      `json:"workflow_name"`
	Status       string      `json:"status"`
	DurationMS   int64       `json:"duration_ms"`
	Highlights   []Highlight `json:"highlights"`
	TopLogs      []LogEntry  `json:"top_logs"`
	FetchedAt    time.Time   `json:"fetched_at"`
}

// NormalizeRun maps arbitrary caller-supplied fields into a RunSummary.
// It is total: missing or malformed fields degrade to defaults instead
// of erroring, and the returned run_id is always non-empty.
func NormalizeRun(input map[string]any) *RunSummary {
	now := time.Now().UTC()

	runID := stringField(input, "run_id", "executionId")
	if runID == "" {
		runID = GeneratedRunID(now)
	}

	workflow := stringField(input, "workflowName", "workflow", "name")
	if workflow == "" {
		workflow = DefaultWorkflowName
	}

	status := stringField(input, "status")
	if status == "" {
		status = DefaultStatus
	}

	return &RunSummary{
		RunID:        runID,
		WorkflowName: workflow,
		Status:       status,
		DurationMS:   durationField(input, "duration_ms", "duration"),
		Highlights:   highlightField(input, "highlights", "highlights_excerpt"),
		TopLogs:      logField(input, "top_logs", "logs"),
		FetchedAt:    now,
	}
}

// GeneratedRunID builds a timestamp-based identifier for callers that
// did not supply one.
func GeneratedRunID(now time.Time) string {
	return fmt.Sprintf("run-%s-%s", now.Format("20060102-150405"), shortID())
}

func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

func stringField(input map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := input[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// durationField coerces the first present alias to a non-negative
// integer. Unparseable values fall through to the next alias.
func durationField(input map[string]any, keys ...string) int64 {
	for _, key := range keys {
		v, ok := input[key]
		if !ok {
			continue
		}

		var d int64
		switch n := v.(type) {
		case float64:
			d = int64(n)
		case int:
			d = int64(n)
		case int64:
			d = n
		case string:
			parsed, err := strconv.ParseFloat(n, 64)
			if err != nil {
				continue
			}
			d = int64(parsed)
		default:
			continue
		}

		if d < 0 {
			return 0
		}
		return d
	}
	return 0
}

func highlightField(input map[string]any, keys ...string) []Highlight {
	out := make([]Highlight, 0)
	for _, entry := range listField(input, keys...) {
		fields, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, Highlight{
			Title:   asString(fields["title"]),
			Excerpt: asString(fields["excerpt"]),
		})
	}
	return out
}

func logField(input map[string]any, keys ...string) []LogEntry {
	out := make([]LogEntry, 0)
	for _, entry := range listField(input, keys...) {
		fields, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, LogEntry{
			Level:   asString(fields["level"]),
			Message: asString(fields["message"]),
		})
	}
	return out
}

func listField(input map[string]any, keys ...string) []any {
	for _, key := range keys {
		if v, ok := input[key].([]any); ok {
			return v
		}
	}
	return nil
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}
