package domain

import (
	"fmt"
	"time"
)

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderLocal is the in-process TF-IDF embedder. Embeddings only.
	AIProviderLocal AIProvider = "local"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic, AIProviderLocal:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs on this machine.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama || p == AIProviderLocal
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderLocal:
		return "TF-IDF (in-process)"
	default:
		return unknownDescription
	}
}

// ChunkBoundary selects how the chunker places window cuts.
type ChunkBoundary string

// Available boundary policies.
const (
	// ChunkBoundaryNone cuts every window at exactly chunk_size runes.
	ChunkBoundaryNone ChunkBoundary = "none"

	// ChunkBoundarySemantic pulls the cut back to the nearest paragraph,
	// line, sentence or word break inside the window.
	ChunkBoundarySemantic ChunkBoundary = "semantic"
)

// IsValid returns true if the boundary policy is recognised.
func (b ChunkBoundary) IsValid() bool {
	return b == ChunkBoundaryNone || b == ChunkBoundarySemantic
}

// String returns the string representation.
func (b ChunkBoundary) String() string {
	return string(b)
}

// VectorBackend identifies the nearest-neighbour store.
type VectorBackend string

// Available vector backends.
const (
	// VectorBackendMemory is the in-process brute-force cosine index.
	VectorBackendMemory VectorBackend = "memory"

	// VectorBackendQdrant is a Qdrant server reached over gRPC.
	VectorBackendQdrant VectorBackend = "qdrant"
)

// IsValid returns true if the backend is recognised.
func (b VectorBackend) IsValid() bool {
	return b == VectorBackendMemory || b == VectorBackendQdrant
}

// String returns the string representation.
func (b VectorBackend) String() string {
	return string(b)
}

// DocumentSettings locates the input document.
type DocumentSettings struct {
	// Path is the plain-text file to answer questions about.
	Path string
}

// ChunkingSettings controls how the document is split.
type ChunkingSettings struct {
	// Size is the maximum chunk length in characters.
	Size int

	// Overlap is the number of characters shared by consecutive chunks.
	Overlap int

	// Boundary is the cut placement policy.
	Boundary ChunkBoundary
}

// Validate checks 0 <= Overlap < Size.
func (c ChunkingSettings) Validate() error {
	if c.Size <= 0 {
		return fmt.Errorf("%w: chunk size must be positive, got %d", ErrConfig, c.Size)
	}
	if c.Overlap < 0 || c.Overlap >= c.Size {
		return fmt.Errorf("%w: overlap must be in [0, %d), got %d", ErrConfig, c.Size, c.Overlap)
	}
	if !c.Boundary.IsValid() {
		return fmt.Errorf("%w: unknown chunk boundary %q", ErrConfig, c.Boundary)
	}
	return nil
}

// RetrievalSettings controls how many chunks back each answer.
type RetrievalSettings struct {
	// MaxK caps the neighbours fetched per query.
	MaxK int
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// BatchSize is how many chunks are embedded per request while indexing.
	BatchSize int

	// RequestsPerSecond throttles embedding calls. Zero disables throttling.
	RequestsPerSecond float64
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() || e.Provider == AIProviderAnthropic {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string

	// Timeout bounds a single generation. Zero leaves it to the adapter.
	Timeout time.Duration
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() || l.Provider == AIProviderLocal {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// VectorIndexSettings holds vector index configuration.
type VectorIndexSettings struct {
	// Backend is the nearest-neighbour store.
	Backend VectorBackend

	// URL is the Qdrant gRPC address (host:port).
	URL string

	// Collection is the Qdrant collection used for this run.
	Collection string
}

// AppSettings holds all application settings.
type AppSettings struct {
	Document    DocumentSettings
	Chunking    ChunkingSettings
	Retrieval   RetrievalSettings
	Embedding   EmbeddingSettings
	LLM         LLMSettings
	VectorIndex VectorIndexSettings
}

// Validate checks the settings the pipeline cannot start without.
func (s AppSettings) Validate() error {
	if err := s.Chunking.Validate(); err != nil {
		return err
	}
	if s.Retrieval.MaxK < 1 {
		return fmt.Errorf("%w: retrieval max_k must be at least 1, got %d", ErrConfig, s.Retrieval.MaxK)
	}
	if !s.Embedding.IsConfigured() {
		return fmt.Errorf("%w: embedding provider %q is not configured", ErrConfig, s.Embedding.Provider)
	}
	if !s.LLM.IsConfigured() {
		return fmt.Errorf("%w: LLM provider %q is not configured", ErrConfig, s.LLM.Provider)
	}
	if !s.VectorIndex.Backend.IsValid() {
		return fmt.Errorf("%w: unknown vector backend %q", ErrConfig, s.VectorIndex.Backend)
	}
	return nil
}

// DefaultAppSettings returns settings that reproduce the reference setup:
// speech.txt, 500/50 chunking, at most 4 neighbours, MiniLM embeddings and
// llama3.2:1b, all served by a local Ollama.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Document: DocumentSettings{
			Path: "speech.txt",
		},
		Chunking: ChunkingSettings{
			Size:     500,
			Overlap:  50,
			Boundary: ChunkBoundarySemantic,
		},
		Retrieval: RetrievalSettings{
			MaxK: 4,
		},
		Embedding: EmbeddingSettings{
			Provider:  AIProviderOllama,
			Model:     "all-minilm",
			BatchSize: 32,
		},
		LLM: LLMSettings{
			Provider: AIProviderOllama,
			Model:    "llama3.2:1b",
		},
		VectorIndex: VectorIndexSettings{
			Backend:    VectorBackendMemory,
			URL:        "localhost:6334",
			Collection: "docqa",
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderLocal,
	}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "all-minilm",
		AIProviderOpenAI: "text-embedding-3-small",
		AIProviderLocal:  "tfidf",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2:1b",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
