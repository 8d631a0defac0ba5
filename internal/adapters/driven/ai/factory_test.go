package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/adapters/driven/embedding/ratelimit"
	"github.com/custodia-labs/docqa/internal/adapters/driven/embedding/tfidf"
	memoryvector "github.com/custodia-labs/docqa/internal/adapters/driven/vector/memory"
	"github.com/custodia-labs/docqa/internal/core/domain"
)

// newOllamaServer answers the heartbeat Ollama clients send on Ping.
func newOllamaServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func deadURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	return url
}

func TestCreateEmbeddingService(t *testing.T) {
	tests := []struct {
		name        string
		settings    *domain.EmbeddingSettings
		wantModel   string
		errContains string
	}{
		{
			name:        "nil settings",
			settings:    nil,
			errContains: "not configured",
		},
		{
			name:        "anthropic is not an embedding provider",
			settings:    &domain.EmbeddingSettings{Provider: domain.AIProviderAnthropic, APIKey: "k"},
			errContains: "not configured",
		},
		{
			name:        "openai without key",
			settings:    &domain.EmbeddingSettings{Provider: domain.AIProviderOpenAI},
			errContains: "not configured",
		},
		{
			name:      "ollama",
			settings:  &domain.EmbeddingSettings{Provider: domain.AIProviderOllama, Model: "all-minilm"},
			wantModel: "all-minilm",
		},
		{
			name:      "openai",
			settings:  &domain.EmbeddingSettings{Provider: domain.AIProviderOpenAI, APIKey: "k", Model: "text-embedding-3-small"},
			wantModel: "text-embedding-3-small",
		},
		{
			name:      "local",
			settings:  &domain.EmbeddingSettings{Provider: domain.AIProviderLocal},
			wantModel: tfidf.ModelName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateEmbeddingService(tt.settings)
			if tt.errContains != "" {
				assert.ErrorContains(t, err, tt.errContains)
				assert.Nil(t, svc)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantModel, svc.ModelName())
			assert.NoError(t, svc.Close())
		})
	}
}

func TestCreateEmbeddingService_RateLimited(t *testing.T) {
	svc, err := CreateEmbeddingService(&domain.EmbeddingSettings{
		Provider:          domain.AIProviderLocal,
		RequestsPerSecond: 5,
	})
	require.NoError(t, err)
	assert.IsType(t, &ratelimit.EmbeddingService{}, svc)

	svc, err = CreateEmbeddingService(&domain.EmbeddingSettings{Provider: domain.AIProviderLocal})
	require.NoError(t, err)
	assert.IsType(t, &tfidf.EmbeddingService{}, svc)
}

func TestCreateLLMService(t *testing.T) {
	tests := []struct {
		name        string
		settings    *domain.LLMSettings
		wantModel   string
		errContains string
	}{
		{name: "nil settings", settings: nil, errContains: "not configured"},
		{name: "local cannot generate", settings: &domain.LLMSettings{Provider: domain.AIProviderLocal}, errContains: "not configured"},
		{name: "anthropic without key", settings: &domain.LLMSettings{Provider: domain.AIProviderAnthropic}, errContains: "not configured"},
		{name: "ollama", settings: &domain.LLMSettings{Provider: domain.AIProviderOllama, Model: "llama3.2:1b"}, wantModel: "llama3.2:1b"},
		{name: "openai", settings: &domain.LLMSettings{Provider: domain.AIProviderOpenAI, APIKey: "k", Model: "gpt-4o-mini"}, wantModel: "gpt-4o-mini"},
		{name: "anthropic", settings: &domain.LLMSettings{Provider: domain.AIProviderAnthropic, APIKey: "k"}, wantModel: "claude-3-5-sonnet-latest"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateLLMService(tt.settings)
			if tt.errContains != "" {
				assert.ErrorContains(t, err, tt.errContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantModel, svc.ModelName())
		})
	}
}

func TestCreateAndValidateEmbeddingService(t *testing.T) {
	ctx := context.Background()

	t.Run("reachable", func(t *testing.T) {
		srv := newOllamaServer(t)
		svc, err := CreateAndValidateEmbeddingService(ctx, &domain.EmbeddingSettings{
			Provider: domain.AIProviderOllama,
			BaseURL:  srv.URL,
		})
		require.NoError(t, err)
		assert.NoError(t, svc.Close())
	})

	t.Run("unreachable", func(t *testing.T) {
		_, err := CreateAndValidateEmbeddingService(ctx, &domain.EmbeddingSettings{
			Provider: domain.AIProviderOllama,
			BaseURL:  deadURL(t),
		})
		assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
		assert.ErrorContains(t, err, "unreachable")
	})

	t.Run("not configured", func(t *testing.T) {
		_, err := CreateAndValidateEmbeddingService(ctx, &domain.EmbeddingSettings{})
		assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
	})
}

func TestCreateAndValidateLLMService(t *testing.T) {
	ctx := context.Background()

	srv := newOllamaServer(t)
	svc, err := CreateAndValidateLLMService(ctx, &domain.LLMSettings{
		Provider: domain.AIProviderOllama,
		BaseURL:  srv.URL,
	})
	require.NoError(t, err)
	assert.NoError(t, svc.Close())

	_, err = CreateAndValidateLLMService(ctx, &domain.LLMSettings{
		Provider: domain.AIProviderOllama,
		BaseURL:  deadURL(t),
	})
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestNewVectorIndexFactory(t *testing.T) {
	ctx := context.Background()

	factory, err := NewVectorIndexFactory(domain.VectorIndexSettings{Backend: domain.VectorBackendMemory})
	require.NoError(t, err)
	idx, err := factory(ctx, 3)
	require.NoError(t, err)
	assert.IsType(t, &memoryvector.VectorIndex{}, idx)

	factory, err = NewVectorIndexFactory(domain.VectorIndexSettings{Backend: domain.VectorBackendQdrant})
	require.NoError(t, err)
	assert.NotNil(t, factory)

	_, err = NewVectorIndexFactory(domain.VectorIndexSettings{Backend: "faiss"})
	assert.ErrorIs(t, err, domain.ErrConfig)
}

func TestValidateVectorIndex_Memory(t *testing.T) {
	err := ValidateVectorIndex(context.Background(), domain.VectorIndexSettings{Backend: domain.VectorBackendMemory})
	assert.NoError(t, err)
}
