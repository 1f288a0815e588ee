package llm

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/agenthands/wikigraph/internal/config"
	"github.com/agenthands/wikigraph/internal/logging"
)

func NewClient(ctx context.Context, cfg config.LLMConfig, logger *zap.Logger) (LLMClient, error) {
	logger = logging.OrNop(logger)
	provider := strings.ToLower(cfg.Provider)

	switch provider {
	case "openai":
		return NewOpenAIClient(cfg.APIKey, cfg.Model, cfg.BaseURL), nil

	case "gemini":
		return NewGeminiClient(ctx, cfg.APIKey, cfg.Model)

	case "claude":
		return NewClaudeClient(cfg.APIKey, cfg.Model, cfg.BaseURL), nil

	case "ollama":
		baseURL := OllamaBaseURL(cfg.BaseURL)
		logger.Info("using Ollama through its OpenAI-compatible API", zap.String("base_url", baseURL))

		// Ollama ignores the key but the client refuses an empty one.
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = "ollama"
		}
		return NewOpenAIClient(apiKey, cfg.Model, baseURL), nil

	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", provider)
	}
}

// OllamaBaseURL points baseURL at the /v1 compatibility endpoint.
func OllamaBaseURL(baseURL string) string {
	if strings.HasSuffix(baseURL, "/v1") {
		return baseURL
	}
	return fmt.Sprintf("%s/v1", strings.TrimRight(baseURL, "/"))
}
