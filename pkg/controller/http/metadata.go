package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/m-mizutani/drover/pkg/domain/interfaces"
	"github.com/m-mizutani/drover/pkg/domain/model"
)

// MetadataHandler handles run provenance requests
type MetadataHandler struct {
	approveUC interfaces.ApproveUseCase
	store     interfaces.MetadataStore
}

// NewMetadataHandler creates a new MetadataHandler
func NewMetadataHandler(approveUC interfaces.ApproveUseCase, store interfaces.MetadataStore) *MetadataHandler {
	return &MetadataHandler{
		approveUC: approveUC,
		store:     store,
	}
}

// Approve handles POST /metadata/approve
func (h *MetadataHandler) Approve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.ApproveRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.approveUC.Approve(ctx, &req)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{
		"ok":       true,
		"runId":    result.RunID,
		"metaPath": result.MetaPath,
	})
}

// Get handles GET /metadata/{runID}
func (h *MetadataHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	runID := chi.URLParam(r, "runID")

	meta, err := h.store.Get(ctx, runID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if meta == nil {
		respondJSON(ctx, w, http.StatusNotFound, map[string]any{
			"ok":    false,
			"error": "run not found",
		})
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{
		"ok":       true,
		"runId":    runID,
		"metadata": meta,
	})
}
