// Package ai provides factory functions for creating AI service adapters
// and the vector index from application settings.
package ai

import (
	"context"
	"fmt"
	"time"

	ollamaembed "github.com/custodia-labs/docqa/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/docqa/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/docqa/internal/adapters/driven/embedding/ratelimit"
	"github.com/custodia-labs/docqa/internal/adapters/driven/embedding/tfidf"
	anthropicllm "github.com/custodia-labs/docqa/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/docqa/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/docqa/internal/adapters/driven/llm/openai"
	memoryvector "github.com/custodia-labs/docqa/internal/adapters/driven/vector/memory"
	qdrantvector "github.com/custodia-labs/docqa/internal/adapters/driven/vector/qdrant"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// VectorIndexFactory creates an empty index for vectors of the given size.
type VectorIndexFactory = func(ctx context.Context, dimensions int) (driven.VectorIndex, error)

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
func CreateAndValidateEmbeddingService(ctx context.Context, settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(pingCtx); err != nil {
		_ = svc.Close()
		return nil, fmt.Errorf("%w: %s unreachable (%w)", domain.ErrEmbeddingUnavailable, settings.Provider, err)
	}

	return svc, nil
}

// CreateAndValidateLLMService creates an LLM service and validates connectivity.
func CreateAndValidateLLMService(ctx context.Context, settings *domain.LLMSettings) (driven.LLMService, error) {
	svc, err := CreateLLMService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(pingCtx); err != nil {
		_ = svc.Close()
		return nil, fmt.Errorf("%w: %s unreachable (%w)", domain.ErrLLMUnavailable, settings.Provider, err)
	}

	return svc, nil
}

// CreateEmbeddingService creates the embedding service named by settings,
// throttled when RequestsPerSecond is set.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, fmt.Errorf("embedding provider is not configured")
	}

	var (
		svc driven.EmbeddingService
		err error
	)
	switch settings.Provider {
	case domain.AIProviderOllama:
		svc, err = ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: domain.EmbeddingDimensions()[settings.Model],
		})

	case domain.AIProviderOpenAI:
		svc, err = openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderLocal:
		svc = tfidf.NewEmbeddingService()

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
	if err != nil {
		return nil, err
	}

	return ratelimit.Wrap(svc, ratelimit.Config{RequestsPerSecond: settings.RequestsPerSecond}), nil
}

// CreateLLMService creates the LLM service named by settings.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, fmt.Errorf("LLM provider is not configured")
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: settings.Timeout,
		})

	case domain.AIProviderOpenAI:
		return openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: settings.Timeout,
		})

	case domain.AIProviderAnthropic:
		return anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: settings.Timeout,
		})

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}

// NewVectorIndexFactory returns a factory for the configured backend.
// Qdrant failures are reported as domain.ErrVectorIndexUnavailable.
func NewVectorIndexFactory(settings domain.VectorIndexSettings) (VectorIndexFactory, error) {
	switch settings.Backend {
	case domain.VectorBackendMemory:
		return func(_ context.Context, dimensions int) (driven.VectorIndex, error) {
			return memoryvector.NewVectorIndex(dimensions), nil
		}, nil

	case domain.VectorBackendQdrant:
		return func(ctx context.Context, dimensions int) (driven.VectorIndex, error) {
			idx, err := qdrantvector.NewVectorIndex(ctx, qdrantvector.Config{
				URL:        settings.URL,
				Collection: settings.Collection,
				Dimensions: dimensions,
			})
			if err != nil {
				return nil, fmt.Errorf("%w: %w", domain.ErrVectorIndexUnavailable, err)
			}
			return idx, nil
		}, nil

	default:
		return nil, fmt.Errorf("%w: unknown vector backend %q", domain.ErrConfig, settings.Backend)
	}
}

// ValidateVectorIndex checks that the configured backend is reachable.
// The memory backend always is.
func ValidateVectorIndex(ctx context.Context, settings domain.VectorIndexSettings) error {
	if settings.Backend != domain.VectorBackendQdrant {
		return nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := qdrantvector.Ping(pingCtx, settings.URL); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrVectorIndexUnavailable, err)
	}
	return nil
}
