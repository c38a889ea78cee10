package oracle

import (
	"context"
	"fmt"
	"stem_tutor_backend/internal/config"
)

// New builds the configured oracle wrapped with request logging.
func New(ctx context.Context, cfg config.AIConfig, recorder Recorder) (Oracle, error) {
	var base Oracle
	var err error

	switch cfg.Provider {
	case "gemini":
		base, err = NewGeminiOracle(ctx, cfg.GeminiAPIKey, cfg.Model, cfg.BaseURL)
	case "openai":
		base, err = NewOpenAIOracle(cfg.OpenAIAPIKey, cfg.Model, cfg.BaseURL)
	case "anthropic":
		base, err = NewAnthropicOracle(cfg.AnthropicAPIKey, cfg.Model, cfg.BaseURL)
	case "mock":
		base = &MockOracle{Default: "This answer is correct."}
	default:
		return nil, fmt.Errorf("unknown AI provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s oracle: %w", cfg.Provider, err)
	}

	return WithLogging(base, recorder), nil
}
