package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

func TestConfigValidator_ValidateAll(t *testing.T) {
	srv := newOllamaServer(t)
	v := NewConfigValidator()

	settings := domain.DefaultAppSettings()
	settings.Embedding.BaseURL = srv.URL
	settings.LLM.BaseURL = srv.URL

	assert.Empty(t, v.ValidateAll(context.Background(), settings))
}

func TestConfigValidator_ReportsFailures(t *testing.T) {
	v := NewConfigValidator()

	settings := domain.DefaultAppSettings()
	settings.Embedding = domain.EmbeddingSettings{Provider: domain.AIProviderLocal}
	settings.LLM.BaseURL = deadURL(t)

	failures := v.ValidateAll(context.Background(), settings)
	assert.Len(t, failures, 1)
	assert.ErrorIs(t, failures["llm"], domain.ErrLLMUnavailable)
}
