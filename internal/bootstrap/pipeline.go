// Package bootstrap wires the driven adapters named by the application
// settings into a ready question-answering pipeline.
//
// Startup mirrors five visible steps, each announced on the progress writer:
//
//	1. Loading text...         DocumentLoader
//	2. Splitting text...       PostProcessorPipeline (chunker)
//	3. Initializing Embeddings EmbeddingService
//	4. Creating Vector Store   Indexer + VectorIndex
//	5. Connecting to <LLM>     LLMService + QAService
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/custodia-labs/docqa/internal/adapters/driven/ai"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/services"
	"github.com/custodia-labs/docqa/internal/logger"
	"github.com/custodia-labs/docqa/internal/normalisers/plaintext"
	"github.com/custodia-labs/docqa/internal/postprocessors"
)

// Pipeline is a built index plus the service answering from it.
type Pipeline struct {
	Document *domain.Document
	Chunks   []domain.Chunk
	QA       *services.QAService

	closers []io.Closer
}

// Close releases the index and the model clients.
func (p *Pipeline) Close() error {
	var errs []error
	for i := len(p.closers) - 1; i >= 0; i-- {
		if err := p.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	p.closers = nil
	return errors.Join(errs...)
}

// Builder assembles a Pipeline from settings.
type Builder struct {
	settings domain.AppSettings
	loader   driven.DocumentLoader
	prompts  driven.PromptStore
	registry *postprocessors.Registry
	progress io.Writer
}

// Option configures a Builder.
type Option func(*Builder)

// WithLoader replaces the plain-text document loader.
func WithLoader(l driven.DocumentLoader) Option {
	return func(b *Builder) {
		b.loader = l
	}
}

// WithPromptStore supplies user-editable prompt templates.
func WithPromptStore(s driven.PromptStore) Option {
	return func(b *Builder) {
		b.prompts = s
	}
}

// WithProgress sets where the startup steps are announced.
func WithProgress(w io.Writer) Option {
	return func(b *Builder) {
		if w != nil {
			b.progress = w
		}
	}
}

// New creates a Builder for settings.
func New(settings domain.AppSettings, opts ...Option) *Builder {
	registry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(registry)

	b := &Builder{
		settings: settings,
		loader:   plaintext.New(),
		registry: registry,
		progress: io.Discard,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Chunk loads and splits the document. A missing file is reported as
// domain.ErrDocumentNotFound.
func (b *Builder) Chunk(ctx context.Context) (*domain.Document, []domain.Chunk, error) {
	b.step("1. Loading text...")
	doc, err := b.loader.Load(ctx, b.settings.Document.Path)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("Loaded %s (%d bytes)", doc.URI, len(doc.Content))

	b.step("2. Splitting text...")
	pipeline, err := postprocessors.Build(b.registry, postprocessors.ChunkingConfig(b.settings.Chunking))
	if err != nil {
		return nil, nil, err
	}
	chunks, err := pipeline.Process(ctx, doc)
	if err != nil {
		return nil, nil, fmt.Errorf("split %s: %w", doc.URI, err)
	}
	b.step(fmt.Sprintf("   Split into %d chunks.", len(chunks)))

	return doc, chunks, nil
}

// Build runs all five startup steps. On failure every adapter created so
// far is closed.
func (b *Builder) Build(ctx context.Context) (_ *Pipeline, err error) {
	if err := b.settings.Validate(); err != nil {
		return nil, err
	}

	doc, chunks, err := b.Chunk(ctx)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{Document: doc, Chunks: chunks}
	defer func() {
		if err != nil {
			_ = p.Close()
		}
	}()

	b.step(fmt.Sprintf("3. Initializing Embeddings (%s)...", b.settings.Embedding.Model))
	embedder, err := ai.CreateAndValidateEmbeddingService(ctx, &b.settings.Embedding)
	if err != nil {
		return nil, err
	}
	p.closers = append(p.closers, embedder)

	b.step(fmt.Sprintf("4. Creating Vector Store (%s)...", b.settings.VectorIndex.Backend))
	factory, err := ai.NewVectorIndexFactory(b.settings.VectorIndex)
	if err != nil {
		return nil, err
	}
	index, err := services.NewIndexer(embedder, factory,
		services.WithBatchSize(b.settings.Embedding.BatchSize),
	).Build(ctx, chunks)
	if err != nil {
		return nil, err
	}
	p.closers = append(p.closers, index)

	b.step(fmt.Sprintf("5. Connecting to %s (%s)...", b.settings.LLM.Provider.Description(), b.settings.LLM.Model))
	llm, err := ai.CreateAndValidateLLMService(ctx, &b.settings.LLM)
	if err != nil {
		return nil, err
	}
	p.closers = append(p.closers, llm)

	p.QA = services.NewQAService(index, services.NewRetriever(embedder), llm, b.settings.Retrieval.MaxK,
		services.WithPromptBuilder(services.NewPromptBuilder(b.prompts)),
		services.WithGenerateTimeout(b.settings.LLM.Timeout),
	)
	return p, nil
}

func (b *Builder) step(line string) {
	fmt.Fprintln(b.progress, line)
}
