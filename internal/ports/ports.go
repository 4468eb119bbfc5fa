// Package ports declares the driven-adapter interfaces the use cases depend
// on, so HTTP handlers and tests can inject doubles.
package ports

import (
	"context"

	"learnpath/internal/domain"
)

// ContentSource runs one category search against the upstream search engine.
type ContentSource interface {
	Search(ctx context.Context, topics []string, category domain.Category) ([]domain.ContentResult, error)
}

// GenerateOptions tune a single model invocation.
type GenerateOptions struct {
	Temperature float64
	TopP        float64
	MaxTokens   int
}

// ModelClient talks to the locally hosted language model.
type ModelClient interface {
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
	ListModels(ctx context.Context) ([]string, error)
	ModelName() string
}

// ResultCache stores category search results between requests. Implementations
// must treat misses and backend errors identically (return ok=false).
type ResultCache interface {
	Get(ctx context.Context, key string) ([]domain.ContentResult, bool)
	Set(ctx context.Context, key string, results []domain.ContentResult)
}
