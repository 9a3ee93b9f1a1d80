package http

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/drover/pkg/domain/interfaces"
	"github.com/m-mizutani/drover/pkg/domain/model"
	"github.com/m-mizutani/drover/pkg/domain/types"
)

// SignatureHeader carries the keyed digest of the request body
const SignatureHeader = "X-Webhook-Signature"

// WebhookHandler handles pipeline-execution webhooks
type WebhookHandler struct {
	secret    string
	webhookUC interfaces.WebhookUseCase
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(secret string, webhookUC interfaces.WebhookUseCase) *WebhookHandler {
	return &WebhookHandler{
		secret:    secret,
		webhookUC: webhookUC,
	}
}

// Handle processes webhook requests
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := ctxlog.From(ctx)

	// Read payload
	body, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Error("Failed to read request body", "error", err)
		writeError(ctx, w, goerr.Wrap(err, "failed to read request body", goerr.T(types.ErrTagValidation)))
		return
	}
	defer r.Body.Close()

	// Verify signature
	if err := h.verifySignature(body, r.Header.Get(SignatureHeader)); err != nil {
		logger.Warn("Webhook verification failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	if len(body) > 0 && !json.Valid(body) {
		writeError(ctx, w, goerr.New("invalid JSON payload", goerr.T(types.ErrTagValidation)))
		return
	}

	event := &model.WebhookEvent{
		ID:         middleware.GetReqID(ctx),
		ReceivedAt: time.Now(),
		RawPayload: body,
	}

	summary, err := h.webhookUC.ProcessEvent(ctx, event)
	if err != nil {
		logger.Error("Failed to process webhook event", "error", err)
		writeError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, summary)
}

// verifySignature checks the HMAC-SHA256 digest of the payload against
// the shared secret. With a secret configured, requests without a
// signature header are rejected; without a secret, verification is
// disabled and every payload passes.
func (h *WebhookHandler) verifySignature(payload []byte, signature string) error {
	if h.secret == "" {
		return nil
	}
	if signature == "" {
		return goerr.New("missing webhook signature", goerr.T(types.ErrTagAuth))
	}

	// Remove "sha256=" prefix if present
	signature = strings.TrimPrefix(signature, "sha256=")

	mac := hmac.New(sha256.New, []byte(h.secret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return goerr.New("invalid webhook signature", goerr.T(types.ErrTagAuth))
	}

	return nil
}
