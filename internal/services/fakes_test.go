package services

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// fakeLLM answers prompts from a canned list keyed by a prompt substring.
type fakeLLM struct {
	mu        sync.Mutex
	responses map[string]string
	err       error
	calls     []string
	embedFn   func(text string) []float32
	embedErr  error
}

func (f *fakeLLM) GenerateText(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, prompt)
	f.mu.Unlock()

	if f.err != nil {
		return "", f.err
	}
	for key, response := range f.responses {
		if strings.Contains(prompt, key) {
			return response, nil
		}
	}
	return "", ErrEmptyResponse
}

func (f *fakeLLM) GenerateTextWithRetry(ctx context.Context, prompt string, opts GenerateOptions, maxRetries int) (string, error) {
	return f.GenerateText(ctx, prompt, opts)
}

func (f *fakeLLM) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	if f.embedFn == nil {
		return nil, errors.New("embeddings not configured")
	}
	return f.embedFn(text), nil
}

func (f *fakeLLM) GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for _, text := range texts {
		v, err := f.GenerateEmbedding(ctx, text)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (f *fakeLLM) EmbeddingDimensions() int { return 3 }

func (f *fakeLLM) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}
