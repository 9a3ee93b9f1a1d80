package interfaces

import (
	"context"

	"github.com/m-mizutani/drover/pkg/domain/model"
)

// MetadataStore owns the durable per-run provenance records
type MetadataStore interface {
	// Upsert merges patch into the record for runID, creating it when
	// absent, and writes the full merged record back before returning.
	Upsert(ctx context.Context, runID string, patch *model.MetadataPatch) (*model.RunMetadata, error)

	// Get returns the record for runID, or nil when none exists yet
	Get(ctx context.Context, runID string) (*model.RunMetadata, error)

	// Path returns the record location for runID
	Path(runID string) string
}
