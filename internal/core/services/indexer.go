package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/logger"
)

// DefaultBatchSize is how many chunks are embedded per EmbedBatch call.
const DefaultBatchSize = 32

// VectorIndexFactory creates an empty vector store for vectors of the given size.
type VectorIndexFactory func(ctx context.Context, dimensions int) (driven.VectorIndex, error)

// Indexer embeds chunks and loads them into a fresh vector store.
type Indexer struct {
	embedder  driven.EmbeddingService
	newIndex  VectorIndexFactory
	batchSize int
}

// IndexerOption configures an Indexer.
type IndexerOption func(*Indexer)

// WithBatchSize sets the number of chunks embedded per request.
// Values below 1 keep the default.
func WithBatchSize(n int) IndexerOption {
	return func(ix *Indexer) {
		if n > 0 {
			ix.batchSize = n
		}
	}
}

// NewIndexer creates an indexer over the given embedder.
func NewIndexer(embedder driven.EmbeddingService, newIndex VectorIndexFactory, opts ...IndexerOption) *Indexer {
	ix := &Indexer{
		embedder:  embedder,
		newIndex:  newIndex,
		batchSize: DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// Build embeds every chunk in document order and returns the resulting Index.
//
// Zero chunks is an error: an index over nothing cannot serve retrieval.
// Embedding and vector store failures wrap domain.ErrCollaborator.
func (ix *Indexer) Build(ctx context.Context, chunks []domain.Chunk) (*Index, error) {
	logger.Section("Index Build")

	if len(chunks) == 0 {
		return nil, domain.ErrEmptyCorpus
	}
	logger.Debug("Chunks: %d, batch size: %d, model: %s", len(chunks), ix.batchSize, ix.embedder.ModelName())

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}

	if fitter, ok := ix.embedder.(driven.CorpusAware); ok {
		logger.Debug("Fitting embedder to corpus")
		if err := fitter.Fit(ctx, texts); err != nil {
			return nil, fmt.Errorf("%w: fit embedder: %w", domain.ErrCollaborator, err)
		}
	}

	var vectors driven.VectorIndex
	for start := 0; start < len(texts); start += ix.batchSize {
		end := min(start+ix.batchSize, len(texts))

		embeddings, err := ix.embedder.EmbedBatch(ctx, texts[start:end])
		if err != nil {
			closeQuietly(vectors)
			return nil, fmt.Errorf("%w: embed chunks %d-%d: %w", domain.ErrCollaborator, start, end-1, err)
		}
		if len(embeddings) != end-start {
			closeQuietly(vectors)
			return nil, fmt.Errorf("%w: embedder returned %d vectors for %d chunks",
				domain.ErrCollaborator, len(embeddings), end-start)
		}

		if vectors == nil {
			vectors, err = ix.newIndex(ctx, len(embeddings[0]))
			if err != nil {
				return nil, fmt.Errorf("%w: create vector index: %w", domain.ErrCollaborator, err)
			}
		}

		for i, vec := range embeddings {
			if err := vectors.Add(ctx, chunks[start+i].ID, vec); err != nil {
				closeQuietly(vectors)
				return nil, fmt.Errorf("%w: add chunk %s: %w", domain.ErrCollaborator, chunks[start+i].ID, err)
			}
		}
		logger.Debug("Indexed chunks %d-%d", start, end-1)
	}

	logger.Info("Indexed %d chunks", len(chunks))
	return newIndex(chunks, vectors, ix.embedder.ModelName()), nil
}

func closeQuietly(v driven.VectorIndex) {
	if v == nil {
		return
	}
	if err := v.Close(); err != nil {
		logger.Warn("Failed to close vector index: %v", err)
	}
}
