package llm

import (
	"go.uber.org/zap"

	"github.com/xiaot623/gogo/threadreview/internal/config"
)

// NewClientFromConfig returns the client for the configured provider, or
// nil when the provider is missing its credentials.
func NewClientFromConfig(cfg config.AIConfig, logger *zap.Logger) Client {
	if !cfg.ExternalEnabled() {
		logger.Info("No AI credentials configured, using rule-based summarization only",
			zap.String("provider", cfg.Provider))
		return nil
	}

	switch cfg.Provider {
	case config.ProviderMock:
		logger.Info("AI_PROVIDER=mock, using mock LLM client")
		return NewMockClient()
	case config.ProviderAnthropic:
		return NewAnthropicClient(cfg.AnthropicAPIKey, cfg.AnthropicModel, logger)
	default:
		return NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, logger)
	}
}
