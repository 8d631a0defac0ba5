package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Index pairs the document's chunks with their vectors.
//
// The chunk list and the id→position map live here; the vector store only
// ever sees chunk IDs. An Index is read-only once Build returns it.
type Index struct {
	chunks    []domain.Chunk
	positions map[string]int
	vectors   driven.VectorIndex
	model     string
}

func newIndex(chunks []domain.Chunk, vectors driven.VectorIndex, model string) *Index {
	positions := make(map[string]int, len(chunks))
	for i, c := range chunks {
		positions[c.ID] = i
	}
	return &Index{
		chunks:    chunks,
		positions: positions,
		vectors:   vectors,
		model:     model,
	}
}

// Len returns the number of indexed chunks.
func (i *Index) Len() int {
	return len(i.chunks)
}

// Chunks returns a copy of the indexed chunks in document order.
func (i *Index) Chunks() []domain.Chunk {
	out := make([]domain.Chunk, len(i.chunks))
	copy(out, i.chunks)
	return out
}

// EmbeddingModel names the model the chunk vectors were produced with.
func (i *Index) EmbeddingModel() string {
	return i.model
}

// Search returns up to k chunks nearest to vec, most similar first.
// Equal scores are ordered by chunk position.
func (i *Index) Search(ctx context.Context, vec []float32, k int) ([]domain.ScoredChunk, error) {
	k = EffectiveK(k, i.Len())
	if k == 0 {
		return []domain.ScoredChunk{}, nil
	}

	// Backends may cut ties at k in any order, so rank the whole document
	// here and truncate afterwards.
	hits, err := i.vectors.Search(ctx, vec, i.Len())
	if err != nil {
		return nil, fmt.Errorf("%w: vector search: %w", domain.ErrCollaborator, err)
	}

	results := make([]domain.ScoredChunk, 0, len(hits))
	for _, hit := range hits {
		pos, ok := i.positions[hit.ChunkID]
		if !ok {
			continue
		}
		results = append(results, domain.ScoredChunk{
			Chunk: i.chunks[pos],
			Score: hit.Similarity,
		})
	}

	sort.SliceStable(results, func(a, b int) bool {
		if results[a].Score != results[b].Score {
			return results[a].Score > results[b].Score
		}
		return results[a].Chunk.Position < results[b].Chunk.Position
	})

	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// Close releases the underlying vector store.
func (i *Index) Close() error {
	if i.vectors == nil {
		return nil
	}
	return i.vectors.Close()
}
