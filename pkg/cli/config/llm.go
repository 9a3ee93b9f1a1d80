package config

import (
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/drover/pkg/infra/llm"
)

// LLM holds provider gateway configuration
type LLM struct {
	DefaultProvider string

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	PerplexityAPIKey  string
	PerplexityBaseURL string
	PerplexityModel   string
}

// Flags returns CLI flags for LLM provider configuration
func (c *LLM) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "default-provider",
			Usage:       "LLM provider used when a request names none (mock, openai, perplexity)",
			Value:       "mock",
			Destination: &c.DefaultProvider,
			Sources:     cli.EnvVars("DROVER_DEFAULT_PROVIDER"),
		},
		&cli.StringFlag{
			Name:        "openai-api-key",
			Usage:       "OpenAI API key",
			Destination: &c.OpenAIAPIKey,
			Sources:     cli.EnvVars("DROVER_OPENAI_API_KEY"),
		},
		&cli.StringFlag{
			Name:        "openai-base-url",
			Usage:       "OpenAI API base URL (for compatible endpoints)",
			Destination: &c.OpenAIBaseURL,
			Sources:     cli.EnvVars("DROVER_OPENAI_BASE_URL"),
		},
		&cli.StringFlag{
			Name:        "openai-model",
			Usage:       "OpenAI model to use",
			Value:       "gpt-4o-mini",
			Destination: &c.OpenAIModel,
			Sources:     cli.EnvVars("DROVER_OPENAI_MODEL"),
		},
		&cli.StringFlag{
			Name:        "perplexity-api-key",
			Usage:       "Perplexity API key",
			Destination: &c.PerplexityAPIKey,
			Sources:     cli.EnvVars("DROVER_PERPLEXITY_API_KEY"),
		},
		&cli.StringFlag{
			Name:        "perplexity-base-url",
			Usage:       "Perplexity API base URL",
			Destination: &c.PerplexityBaseURL,
			Sources:     cli.EnvVars("DROVER_PERPLEXITY_BASE_URL"),
		},
		&cli.StringFlag{
			Name:        "perplexity-model",
			Usage:       "Perplexity model to use",
			Destination: &c.PerplexityModel,
			Sources:     cli.EnvVars("DROVER_PERPLEXITY_MODEL"),
		},
	}
}

// Config captures the flag values into the immutable registry config
func (c *LLM) Config() llm.Config {
	return llm.Config{
		DefaultProvider:   c.DefaultProvider,
		OpenAIAPIKey:      c.OpenAIAPIKey,
		OpenAIBaseURL:     c.OpenAIBaseURL,
		OpenAIModel:       c.OpenAIModel,
		PerplexityAPIKey:  c.PerplexityAPIKey,
		PerplexityBaseURL: c.PerplexityBaseURL,
		PerplexityModel:   c.PerplexityModel,
	}
}
