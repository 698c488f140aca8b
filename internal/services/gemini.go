package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"alfredoptarigan/resume-extractor/internal/config"
)

type geminiService struct {
	client     *genai.Client
	modelName  string
	embedModel string
	log        *zap.Logger
}

func NewGeminiService(ctx context.Context, cfg config.LLMConfig, log *zap.Logger) (LLMService, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiService{
		client:     client,
		modelName:  cfg.Model,
		embedModel: cfg.EmbeddingModel,
		log:        log.Named("gemini"),
	}, nil
}

// GenerateText implements LLMService.
func (g *geminiService) GenerateText(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	temperature := opts.Temperature
	genConfig := &genai.GenerateContentConfig{
		Temperature: &temperature,
	}
	if opts.MaxTokens > 0 {
		genConfig.MaxOutputTokens = int32(opts.MaxTokens)
	}
	if opts.JSON {
		genConfig.ResponseMIMEType = "application/json"
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), genConfig)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}
	if resp == nil {
		return "", fmt.Errorf("no response generated (nil response)")
	}

	text := resp.Text()
	if text == "" {
		return "", ErrEmptyResponse
	}

	g.log.Debug("📊 Gemini response received", zap.Int("chars", len(text)))
	return text, nil
}

// GenerateTextWithRetry implements LLMService.
func (g *geminiService) GenerateTextWithRetry(ctx context.Context, prompt string, opts GenerateOptions, maxRetries int) (string, error) {
	return retryGenerate(ctx, g.log, maxRetries, func() (string, error) {
		return g.GenerateText(ctx, prompt, opts)
	})
}

// GenerateEmbedding implements LLMService.
func (g *geminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := g.GenerateEmbeddings(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

// GenerateEmbeddings implements LLMService.
func (g *geminiService) GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("no texts provided")
	}

	contents := make([]*genai.Content, 0, len(texts))
	for _, text := range texts {
		contents = append(contents, genai.NewContentFromText(truncateForEmbedding(text), genai.RoleUser))
	}

	result, err := g.client.Models.EmbedContent(ctx, g.embedModel, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}
	if result == nil || len(result.Embeddings) != len(texts) {
		return nil, fmt.Errorf("unexpected embedding result size")
	}

	embeddings := make([][]float32, len(result.Embeddings))
	for i, e := range result.Embeddings {
		embeddings[i] = e.Values
	}
	return embeddings, nil
}

// EmbeddingDimensions implements LLMService.
func (g *geminiService) EmbeddingDimensions() int {
	return 768
}
