package model

import (
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"
)

// Confidence levels for a run's provenance record
const (
	ConfidenceLow    = "low"
	ConfidenceMedium = "medium"
	ConfidenceHigh   = "high"
)

// Defaults for required metadata fields
const (
	DefaultRoundingRule = "none"
	DefaultCreatedBy    = "unknown"
	DefaultRunKind      = "run"
)

// SourceRef identifies the origin of a run's output
type SourceRef struct {
	ID    string `yaml:"id" json:"id"`
	Title string `yaml:"title" json:"title"`
	Date  string `yaml:"date" json:"date"`
	URL   string `yaml:"url" json:"url"`
}

// RunMetadata is the durable per-run provenance record, one per run_id.
// Required fields are set-once: a later write never replaces a value
// that is already present. Only the push authorization fields may be
// overwritten.
type RunMetadata struct {
	Source             SourceRef `yaml:"source" json:"source"`
	Confidence         string    `yaml:"confidence" json:"confidence"`
	RoundingRule       string    `yaml:"rounding_rule" json:"rounding_rule"`
	CreatedBy          string    `yaml:"created_by" json:"created_by"`
	CreatedAt          string    `yaml:"created_at" json:"created_at"`
	PushAuthorizedBy   string    `yaml:"push_authorized_by,omitempty" json:"push_authorized_by,omitempty"`
	PushAuthorizedNote string    `yaml:"push_authorized_note,omitempty" json:"push_authorized_note,omitempty"`
}

// MetadataPatch holds caller-supplied fields for an upsert. Empty
// fields are ignored by the merge.
type MetadataPatch struct {
	SourceID     string
	SourceTitle  string
	SourceDate   string
	SourceURL    string
	Confidence   string
	RoundingRule string
	CreatedBy    string
	Approver     string
	Note         string
}

// Merge applies the patch to the record. Required fields keep their
// existing value; unset ones are filled from the patch or a default.
// An approver identity always overwrites the authorization fields.
func (m *RunMetadata) Merge(runID string, patch *MetadataPatch, now time.Time) {
	if patch == nil {
		patch = &MetadataPatch{}
	}

	fill(&m.Source.ID, patch.SourceID, runID)
	fill(&m.Source.Title, patch.SourceTitle, runID)
	fill(&m.Source.Date, patch.SourceDate, now.Format("2006-01-02"))
	fill(&m.Source.URL, patch.SourceURL, path.Join("runs", runID, "meta.yaml"))
	fill(&m.Confidence, patch.Confidence, ConfidenceMedium)
	fill(&m.RoundingRule, patch.RoundingRule, DefaultRoundingRule)
	fill(&m.CreatedBy, patch.CreatedBy, DefaultCreatedBy)
	fill(&m.CreatedAt, now.Format(time.RFC3339))

	if patch.Approver != "" {
		m.PushAuthorizedBy = patch.Approver
		if patch.Note != "" {
			m.PushAuthorizedNote = patch.Note
		}
	}
}

func fill(dst *string, candidates ...string) {
	if *dst != "" {
		return
	}
	for _, c := range candidates {
		if c != "" {
			*dst = c
			return
		}
	}
}

var runIDPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// ValidRunID reports whether id is safe to use as a directory name
// under the runs root.
func ValidRunID(id string) bool {
	return id != "" && !strings.HasPrefix(id, ".") && runIDPattern.MatchString(id)
}

// NewApprovalRunID builds `<project>-<YYYYMMDD>-<kind>-<suffix>` for
// approval requests that did not name a run.
func NewApprovalRunID(project, kind string, now time.Time) string {
	if kind == "" {
		kind = DefaultRunKind
	}
	return fmt.Sprintf("%s-%s-%s-%s", project, now.Format("20060102"), kind, shortID())
}

// ConfidenceFromScore buckets a numeric provider confidence into the
// enum used by the metadata record.
func ConfidenceFromScore(score float64) string {
	switch {
	case score < 0.4:
		return ConfidenceLow
	case score < 0.75:
		return ConfidenceMedium
	default:
		return ConfidenceHigh
	}
}

// ApproveRequest is the body of POST /metadata/approve
type ApproveRequest struct {
	RunID        string `json:"runId"`
	Approver     string `json:"approver"`
	Note         string `json:"note"`
	Title        string `json:"title"`
	Confidence   string `json:"confidence"`
	RoundingRule string `json:"rounding_rule"`
	Kind         string `json:"kind"`
}

// ApproveResult reports where the approval landed
type ApproveResult struct {
	RunID    string
	MetaPath string
	Metadata *RunMetadata
}
