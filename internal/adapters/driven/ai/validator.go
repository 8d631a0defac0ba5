package ai

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// ConfigValidator checks that every configured backend answers a ping.
type ConfigValidator struct{}

// NewConfigValidator creates a new AI config validator.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// ValidateEmbedding pings the embedding provider.
func (v *ConfigValidator) ValidateEmbedding(ctx context.Context, config *domain.EmbeddingSettings) error {
	svc, err := CreateAndValidateEmbeddingService(ctx, config)
	if err != nil {
		return err
	}
	return svc.Close()
}

// ValidateLLM pings the LLM provider.
func (v *ConfigValidator) ValidateLLM(ctx context.Context, config *domain.LLMSettings) error {
	svc, err := CreateAndValidateLLMService(ctx, config)
	if err != nil {
		return err
	}
	return svc.Close()
}

// ValidateVectorIndex pings the vector backend.
func (v *ConfigValidator) ValidateVectorIndex(ctx context.Context, config domain.VectorIndexSettings) error {
	return ValidateVectorIndex(ctx, config)
}

// ValidateAll runs every check and returns the failures keyed by component.
func (v *ConfigValidator) ValidateAll(ctx context.Context, settings domain.AppSettings) map[string]error {
	failures := make(map[string]error)
	if err := v.ValidateEmbedding(ctx, &settings.Embedding); err != nil {
		failures["embedding"] = err
	}
	if err := v.ValidateLLM(ctx, &settings.LLM); err != nil {
		failures["llm"] = err
	}
	if err := v.ValidateVectorIndex(ctx, settings.VectorIndex); err != nil {
		failures["vector_index"] = err
	}
	return failures
}
