package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared/constant"
	"go.uber.org/zap"

	"alfredoptarigan/resume-extractor/internal/config"
)

type openAIService struct {
	client     *openai.Client
	model      string
	embedModel string
	log        *zap.Logger
}

func NewOpenAIService(cfg config.LLMConfig, log *zap.Logger) LLMService {
	client := openai.NewClient(
		option.WithAPIKey(cfg.OpenAIAPIKey),
		option.WithRequestTimeout(cfg.Timeout),
	)

	return &openAIService{
		client:     &client,
		model:      cfg.Model,
		embedModel: cfg.EmbeddingModel,
		log:        log.Named("openai"),
	}
}

// GenerateText implements LLMService.
func (o *openAIService) GenerateText(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model:       openai.ChatModel(o.model),
		Temperature: openai.Float(float64(opts.Temperature)),
	}
	if opts.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(opts.MaxTokens))
	}
	if opts.JSON {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{
				Type: constant.JSONObject("json_object"),
			},
		}
	}

	completion, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai chat completion error: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("no response from openai")
	}

	content := completion.Choices[0].Message.Content
	if content == "" {
		return "", ErrEmptyResponse
	}

	o.log.Debug("📊 OpenAI response received", zap.Int("chars", len(content)), zap.Int64("total_tokens", completion.Usage.TotalTokens))
	return content, nil
}

// GenerateTextWithRetry implements LLMService.
func (o *openAIService) GenerateTextWithRetry(ctx context.Context, prompt string, opts GenerateOptions, maxRetries int) (string, error) {
	return retryGenerate(ctx, o.log, maxRetries, func() (string, error) {
		return o.GenerateText(ctx, prompt, opts)
	})
}

// GenerateEmbedding implements LLMService.
func (o *openAIService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	embeddings, err := o.GenerateEmbeddings(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

// GenerateEmbeddings implements LLMService.
func (o *openAIService) GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("no texts provided")
	}

	inputs := make([]string, len(texts))
	for i, text := range texts {
		inputs[i] = truncateForEmbedding(text)
	}

	resp, err := o.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: inputs,
		},
		Model: openai.EmbeddingModel(o.embedModel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("unexpected embedding result size")
	}

	embeddings := make([][]float32, len(resp.Data))
	for _, data := range resp.Data {
		embedding32 := make([]float32, len(data.Embedding))
		for j, v := range data.Embedding {
			embedding32[j] = float32(v)
		}
		embeddings[data.Index] = embedding32
	}

	return embeddings, nil
}

// EmbeddingDimensions implements LLMService.
func (o *openAIService) EmbeddingDimensions() int {
	if o.embedModel == string(openai.EmbeddingModelTextEmbedding3Large) {
		return 3072
	}
	return 1536
}
