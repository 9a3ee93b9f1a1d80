package interfaces

import (
	"context"

	"github.com/m-mizutani/drover/pkg/domain/model"
)

// LLMProvider performs a single prompt/response exchange with one
// backend. Implementations make at most one network call per Call and
// never retry.
type LLMProvider interface {
	Call(ctx context.Context, prompt string, opts model.CallOptions) (*model.ProviderResponse, error)
}

// ProviderRegistry resolves a caller-supplied provider name to a
// concrete provider. The returned string is the resolved kind; unknown
// names resolve to the mock provider rather than failing.
type ProviderRegistry interface {
	Select(name string) (LLMProvider, string)
}
