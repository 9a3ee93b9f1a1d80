package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/drover/pkg/domain/interfaces"
	"github.com/m-mizutani/drover/pkg/domain/model"
	"github.com/m-mizutani/drover/pkg/domain/types"
)

// LLMHandler handles provider gateway requests
type LLMHandler struct {
	llmUC interfaces.LLMUseCase
}

// NewLLMHandler creates a new LLMHandler
func NewLLMHandler(llmUC interfaces.LLMUseCase) *LLMHandler {
	return &LLMHandler{llmUC: llmUC}
}

// llmResponse is the wire shape shared by both /llm endpoints
type llmResponse struct {
	OK                    bool                       `json:"ok"`
	Provider              string                     `json:"provider"`
	Text                  string                     `json:"text"`
	ProvenanceSuggestions model.ProvenanceSuggestion `json:"provenance_suggestions"`
	Citations             []json.RawMessage          `json:"citations"`
}

// SummarizeRun handles POST /llm/summarizeRun
func (h *LLMHandler) SummarizeRun(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.SummarizeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	req.Provider = r.URL.Query().Get("provider")

	result, err := h.llmUC.SummarizeRun(ctx, &req)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, newLLMResponse(result))
}

// ExplainChange handles POST /llm/explainChange
func (h *LLMHandler) ExplainChange(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.ExplainRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	req.Provider = r.URL.Query().Get("provider")

	result, err := h.llmUC.ExplainChange(ctx, &req)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, newLLMResponse(result))
}

// decodeBody parses a JSON request body. A missing body is treated as
// an empty request, matching the defaulting behavior of normalization.
func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return goerr.Wrap(err, "invalid request body", goerr.T(types.ErrTagValidation))
	}
	return nil
}

func newLLMResponse(result *model.GatewayResult) *llmResponse {
	return &llmResponse{
		OK:                    true,
		Provider:              result.Provider,
		Text:                  result.Response.Text,
		ProvenanceSuggestions: result.Response.ProvenanceSuggestions,
		Citations:             result.Response.Citations,
	}
}
