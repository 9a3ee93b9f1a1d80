package http_test

import (
	"context"
	"net/http/httptest"
	"testing"

	controller "github.com/m-mizutani/drover/pkg/controller/http"
	"github.com/m-mizutani/drover/pkg/infra/llm"
	"github.com/m-mizutani/drover/pkg/infra/metastore"
	"github.com/m-mizutani/drover/pkg/usecase"
)

// newTestServer builds a server with real use cases, the mock provider
// as default and a store rooted in a temp directory.
func newTestServer(t *testing.T, ctx context.Context, secret string) *httptest.Server {
	t.Helper()

	registry := llm.NewRegistry(llm.Config{})
	store := metastore.New(t.TempDir())

	webhookUC := usecase.NewWebhook()
	llmUC, err := usecase.NewLLM(registry, store)
	if err != nil {
		t.Fatalf("Failed to create LLM use case: %v", err)
	}
	approveUC := usecase.NewApprove(store, "drover")

	server, err := controller.NewServer(
		ctx,
		webhookUC,
		llmUC,
		approveUC,
		store,
		controller.WithAddr("localhost:0"),
		controller.WithWebhookSecret(secret),
	)
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)
	return ts
}
