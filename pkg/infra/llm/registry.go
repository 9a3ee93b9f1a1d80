package llm

import (
	"net/http"
	"strings"
	"time"

	"github.com/m-mizutani/drover/pkg/domain/interfaces"
)

// Kind identifies a concrete provider implementation. The set is
// closed: selection never constructs anything outside it.
type Kind string

const (
	KindMock       Kind = "mock"
	KindOpenAI     Kind = "openai"
	KindPerplexity Kind = "perplexity"
)

// callTimeout bounds every outbound provider call
const callTimeout = 60 * time.Second

// Config carries every provider setting, captured once at startup
type Config struct {
	DefaultProvider string

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	PerplexityAPIKey  string
	PerplexityBaseURL string
	PerplexityModel   string
}

// Registry resolves provider names to implementations
type Registry struct {
	mock        *MockProvider
	openAI      *openAIProvider
	perplexity  *perplexityProvider
	defaultKind Kind
}

// NewRegistry creates a registry with all providers constructed from
// the given configuration. Missing credentials surface when the
// corresponding provider is called, not here.
func NewRegistry(cfg Config) *Registry {
	return &Registry{
		mock:        &MockProvider{},
		openAI:      newOpenAIProvider(cfg),
		perplexity:  newPerplexityProvider(cfg, &http.Client{Timeout: callTimeout}),
		defaultKind: resolveKind(cfg.DefaultProvider),
	}
}

// Select returns the provider for name. An empty name resolves to the
// configured default; unregistered names fall back to the mock
// provider. Matching is case-insensitive.
func (r *Registry) Select(name string) (interfaces.LLMProvider, string) {
	kind := r.defaultKind
	if strings.TrimSpace(name) != "" {
		kind = resolveKind(name)
	}

	switch kind {
	case KindOpenAI:
		return r.openAI, string(KindOpenAI)
	case KindPerplexity:
		return r.perplexity, string(KindPerplexity)
	default:
		return r.mock, string(KindMock)
	}
}

func resolveKind(name string) Kind {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "openai":
		return KindOpenAI
	case "perplexity":
		return KindPerplexity
	default:
		return KindMock
	}
}
