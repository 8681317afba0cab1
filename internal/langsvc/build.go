package langsvc

import (
	"context"
	"fmt"

	"github.com/dgallion1/docstruct/internal/config"
)

// NewGenerator creates the backend named by the configuration.
func NewGenerator(ctx context.Context, cfg config.Config) (Generator, error) {
	switch cfg.ServiceBackend {
	case "anthropic":
		return NewAnthropicClient(cfg.AnthropicAPIKey, cfg.AnthropicModel), nil
	case "openai":
		return NewOpenAIClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel)
	case "gemini":
		return NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	default:
		return nil, fmt.Errorf("unknown service backend: %q", cfg.ServiceBackend)
	}
}

// Build assembles the production Service: the configured backend with
// latency stats, the shared in-flight call cap, and the retry policy
// layered on. The returned close func releases the backend.
func Build(ctx context.Context, cfg config.Config, stats *CallStats) (Service, func(), error) {
	gen, err := NewGenerator(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	wrapped := WithStats(gen, stats)
	wrapped = WithLimit(wrapped, int64(cfg.ServiceConcurrency))
	wrapped = WithRetry(wrapped, RetryPolicy{
		MaxAttempts:    cfg.RetryCount,
		PerCallTimeout: cfg.PerCallTimeout,
	})

	return FromGenerator(wrapped), gen.Close, nil
}
