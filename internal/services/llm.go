package services

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"

	"alfredoptarigan/resume-extractor/internal/config"
)

// LLMService is the language-model surface used by the extractors and the
// semantic ranker. Implementations exist for Gemini and OpenAI.
type LLMService interface {
	GenerateText(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
	GenerateTextWithRetry(ctx context.Context, prompt string, opts GenerateOptions, maxRetries int) (string, error)
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
	GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
	EmbeddingDimensions() int
}

type GenerateOptions struct {
	Temperature float32
	MaxTokens   int
	JSON        bool
}

var ErrEmptyResponse = errors.New("empty response from language model")

// maxEmbeddingInput keeps embedding requests under provider token limits.
const maxEmbeddingInput = 40000

func NewLLMService(ctx context.Context, cfg config.LLMConfig, log *zap.Logger) (LLMService, error) {
	if cfg.APIKey() == "" {
		return nil, fmt.Errorf("no API key configured for provider %q", cfg.Provider)
	}

	switch cfg.Provider {
	case config.ProviderOpenAI:
		return NewOpenAIService(cfg, log), nil
	case config.ProviderGemini:
		return NewGeminiService(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", cfg.Provider)
	}
}

// retryGenerate calls generate up to maxRetries times, stopping early when ctx
// is done.
func retryGenerate(ctx context.Context, log *zap.Logger, maxRetries int, generate func() (string, error)) (string, error) {
	if maxRetries < 1 {
		maxRetries = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		result, err := generate()
		if err == nil {
			return result, nil
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("context cancelled: %w", ctx.Err())
		default:
		}

		if attempt < maxRetries {
			log.Warn("⚠️ LLM attempt failed, retrying", zap.Int("attempt", attempt), zap.Error(err))
		}
	}

	return "", fmt.Errorf("failed after %d attempts: %w", maxRetries, lastErr)
}

// truncateForEmbedding caps text at maxEmbeddingInput bytes without splitting
// a multi-byte rune.
func truncateForEmbedding(text string) string {
	if len(text) <= maxEmbeddingInput {
		return text
	}

	cut := maxEmbeddingInput
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}
