package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyDocumentPath     = "document.path"
	keyChunkSize        = "chunking.size"
	keyChunkOverlap     = "chunking.overlap"
	keyChunkBoundary    = "chunking.boundary"
	keyRetrievalMaxK    = "retrieval.max_k"
	keyEmbedProvider    = "embedding.provider"
	keyEmbedModel       = "embedding.model"
	keyEmbedBaseURL     = "embedding.base_url"
	keyEmbedAPIKey      = "embedding.api_key"
	keyEmbedBatchSize   = "embedding.batch_size"
	keyEmbedRPS         = "embedding.requests_per_second"
	keyLLMProvider      = "llm.provider"
	keyLLMModel         = "llm.model"
	keyLLMBaseURL       = "llm.base_url"
	keyLLMAPIKey        = "llm.api_key"
	keyLLMTimeout       = "llm.timeout_seconds"
	keyVectorBackend    = "vector_index.backend"
	keyVectorURL        = "vector_index.url"
	keyVectorCollection = "vector_index.collection"
)

// settingKind drives parsing in Set.
type settingKind int

const (
	kindString settingKind = iota
	kindInt
	kindFloat
	kindProvider
	kindBoundary
	kindBackend
)

var settingKinds = map[string]settingKind{
	keyDocumentPath:     kindString,
	keyChunkSize:        kindInt,
	keyChunkOverlap:     kindInt,
	keyChunkBoundary:    kindBoundary,
	keyRetrievalMaxK:    kindInt,
	keyEmbedProvider:    kindProvider,
	keyEmbedModel:       kindString,
	keyEmbedBaseURL:     kindString,
	keyEmbedAPIKey:      kindString,
	keyEmbedBatchSize:   kindInt,
	keyEmbedRPS:         kindFloat,
	keyLLMProvider:      kindProvider,
	keyLLMModel:         kindString,
	keyLLMBaseURL:       kindString,
	keyLLMAPIKey:        kindString,
	keyLLMTimeout:       kindInt,
	keyVectorBackend:    kindBackend,
	keyVectorURL:        kindString,
	keyVectorCollection: kindString,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	env         func(string) string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		env:         func(string) string { return "" },
	}
}

// WithEnv sets the lookup used to fill API keys that are not stored in config,
// typically os.Getenv after a .env file has been loaded.
func (s *SettingsService) WithEnv(lookup func(string) string) *SettingsService {
	if lookup != nil {
		s.env = lookup
	}
	return s
}

// Get retrieves current application settings.
// Missing or invalid stored values fall back to defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Document: domain.DocumentSettings{
			Path: s.getString(keyDocumentPath, defaults.Document.Path),
		},
		Chunking: domain.ChunkingSettings{
			Size:     s.getPositiveInt(keyChunkSize, defaults.Chunking.Size),
			Overlap:  s.getNonNegativeInt(keyChunkOverlap, defaults.Chunking.Overlap),
			Boundary: s.getBoundary(defaults.Chunking.Boundary),
		},
		Retrieval: domain.RetrievalSettings{
			MaxK: s.getPositiveInt(keyRetrievalMaxK, defaults.Retrieval.MaxK),
		},
		Embedding: domain.EmbeddingSettings{
			Provider:          s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			BaseURL:           s.configStore.GetString(keyEmbedBaseURL), // No default - empty means the provider's own
			APIKey:            s.configStore.GetString(keyEmbedAPIKey),
			BatchSize:         s.getPositiveInt(keyEmbedBatchSize, defaults.Embedding.BatchSize),
			RequestsPerSecond: s.getNonNegativeFloat(keyEmbedRPS),
		},
		LLM: domain.LLMSettings{
			Provider: s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL),
			APIKey:   s.configStore.GetString(keyLLMAPIKey),
			Timeout:  time.Duration(s.getNonNegativeInt(keyLLMTimeout, 0)) * time.Second,
		},
		VectorIndex: domain.VectorIndexSettings{
			Backend:    s.getBackend(defaults.VectorIndex.Backend),
			URL:        s.getString(keyVectorURL, defaults.VectorIndex.URL),
			Collection: s.getString(keyVectorCollection, defaults.VectorIndex.Collection),
		},
	}

	// A model only defaults when the provider's default is known.
	settings.Embedding.Model = s.getString(keyEmbedModel, domain.DefaultEmbeddingModels()[settings.Embedding.Provider])
	settings.LLM.Model = s.getString(keyLLMModel, domain.DefaultLLMModels()[settings.LLM.Provider])

	if settings.Embedding.APIKey == "" {
		settings.Embedding.APIKey = s.env(apiKeyEnv(settings.Embedding.Provider))
	}
	if settings.LLM.APIKey == "" {
		settings.LLM.APIKey = s.env(apiKeyEnv(settings.LLM.Provider))
	}
	if settings.Embedding.BaseURL == "" && settings.Embedding.Provider == domain.AIProviderOllama {
		settings.Embedding.BaseURL = s.env("OLLAMA_HOST")
	}
	if settings.LLM.BaseURL == "" && settings.LLM.Provider == domain.AIProviderOllama {
		settings.LLM.BaseURL = s.env("OLLAMA_HOST")
	}

	return settings, nil
}

// Save persists application settings.
// API keys are only written when set, so keys sourced from the
// environment never end up on disk through a round trip.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyDocumentPath, settings.Document.Path},
		{keyChunkSize, settings.Chunking.Size},
		{keyChunkOverlap, settings.Chunking.Overlap},
		{keyChunkBoundary, settings.Chunking.Boundary.String()},
		{keyRetrievalMaxK, settings.Retrieval.MaxK},
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyEmbedBatchSize, settings.Embedding.BatchSize},
		{keyEmbedRPS, settings.Embedding.RequestsPerSecond},
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keyLLMTimeout, int(settings.LLM.Timeout / time.Second)},
		{keyVectorBackend, settings.VectorIndex.Backend.String()},
		{keyVectorURL, settings.VectorIndex.URL},
		{keyVectorCollection, settings.VectorIndex.Collection},
	}

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	if settings.Embedding.APIKey != "" && settings.Embedding.APIKey != s.env(apiKeyEnv(settings.Embedding.Provider)) {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save %s: %w", keyEmbedAPIKey, err)
		}
	}
	if settings.LLM.APIKey != "" && settings.LLM.APIKey != s.env(apiKeyEnv(settings.LLM.Provider)) {
		if err := s.configStore.Set(keyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save %s: %w", keyLLMAPIKey, err)
		}
	}

	return nil
}

// Set parses value for key and stores it.
// Unknown keys and unparsable values return domain.ErrInvalidInput.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := settingKinds[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q (known: %s)", domain.ErrInvalidInput, key, strings.Join(s.Keys(), ", "))
	}

	var parsed any
	switch kind {
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %s must be a non-negative integer, got %q", domain.ErrInvalidInput, key, value)
		}
		parsed = n
	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 {
			return fmt.Errorf("%w: %s must be a non-negative number, got %q", domain.ErrInvalidInput, key, value)
		}
		parsed = f
	case kindProvider:
		if !domain.AIProvider(value).IsValid() {
			return fmt.Errorf("%w: unknown provider %q", domain.ErrInvalidInput, value)
		}
		parsed = value
	case kindBoundary:
		if !domain.ChunkBoundary(value).IsValid() {
			return fmt.Errorf("%w: chunking.boundary must be %q or %q", domain.ErrInvalidInput,
				domain.ChunkBoundarySemantic, domain.ChunkBoundaryNone)
		}
		parsed = value
	case kindBackend:
		if !domain.VectorBackend(value).IsValid() {
			return fmt.Errorf("%w: vector_index.backend must be %q or %q", domain.ErrInvalidInput,
				domain.VectorBackendMemory, domain.VectorBackendQdrant)
		}
		parsed = value
	default:
		parsed = value
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys returns every settable key, sorted.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settingKinds))
	for k := range settingKinds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Validate checks that current settings can start the pipeline.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return settings.Validate()
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// apiKeyEnv names the environment variable holding the provider's API key.
func apiKeyEnv(p domain.AIProvider) string {
	switch p {
	case domain.AIProviderOpenAI:
		return "OPENAI_API_KEY"
	case domain.AIProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	default:
		return ""
	}
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getPositiveInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getNonNegativeInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	val := s.configStore.GetInt(key)
	if val < 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getNonNegativeFloat(key string) float64 {
	val := s.configStore.GetFloat(key)
	if val < 0 {
		return 0
	}
	return val
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getBoundary(defaultVal domain.ChunkBoundary) domain.ChunkBoundary {
	b := domain.ChunkBoundary(s.configStore.GetString(keyChunkBoundary))
	if !b.IsValid() {
		return defaultVal
	}
	return b
}

func (s *SettingsService) getBackend(defaultVal domain.VectorBackend) domain.VectorBackend {
	b := domain.VectorBackend(s.configStore.GetString(keyVectorBackend))
	if !b.IsValid() {
		return defaultVal
	}
	return b
}
