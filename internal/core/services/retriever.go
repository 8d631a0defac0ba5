package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/logger"
)

// ErrEmbeddingMismatch indicates a query embedder that differs from the one
// the index was built with. Vectors from different models are not comparable.
var ErrEmbeddingMismatch = fmt.Errorf("%w: embedding model mismatch", domain.ErrConfig)

// EffectiveK returns min(maxK, total), never negative.
func EffectiveK(maxK, total int) int {
	return max(0, min(maxK, total))
}

// Retriever finds the chunks closest to a query.
type Retriever struct {
	embedder driven.EmbeddingService
}

// NewRetriever creates a retriever that embeds queries with embedder.
// It must be the embedder the index was built with.
func NewRetriever(embedder driven.EmbeddingService) *Retriever {
	return &Retriever{embedder: embedder}
}

// Retrieve returns the EffectiveK(maxK, idx.Len()) chunks most similar to query.
// There is no relevance threshold: the closest chunks come back however
// distant they are.
func (r *Retriever) Retrieve(
	ctx context.Context, query string, idx *Index, maxK int,
) (domain.RetrievalResult, error) {
	result := domain.RetrievalResult{
		Query: query,
		K:     EffectiveK(maxK, idx.Len()),
	}

	if got, want := r.embedder.ModelName(), idx.EmbeddingModel(); got != want {
		return result, fmt.Errorf("%w: index built with %q, query embedder is %q", ErrEmbeddingMismatch, want, got)
	}

	if result.K == 0 {
		result.Chunks = []domain.ScoredChunk{}
		return result, nil
	}

	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return result, fmt.Errorf("%w: embed query: %w", domain.ErrCollaborator, err)
	}

	chunks, err := idx.Search(ctx, vec, result.K)
	if err != nil {
		return result, err
	}
	result.Chunks = chunks

	logger.Debug("Retrieved %d of %d chunks (k=%d)", len(chunks), idx.Len(), result.K)
	for _, sc := range chunks {
		logger.Debug("  #%d score=%.4f", sc.Chunk.Position, sc.Score)
	}
	return result, nil
}
