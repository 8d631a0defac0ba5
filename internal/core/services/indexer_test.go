package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

func TestIndexer_Build_EmbedsInBatches(t *testing.T) {
	texts := make([]string, 70)
	for i := range texts {
		texts[i] = fmt.Sprintf("chunk %d", i)
	}
	chunks := makeChunks(texts...)
	embedder := &mockEmbedder{}
	vectors := &mockVectorIndex{}

	idx, err := NewIndexer(embedder, staticIndexFactory(vectors)).Build(context.Background(), chunks)
	require.NoError(t, err)

	require.Len(t, embedder.batches, 3)
	assert.Len(t, embedder.batches[0], DefaultBatchSize)
	assert.Len(t, embedder.batches[1], DefaultBatchSize)
	assert.Len(t, embedder.batches[2], 6)
	assert.Equal(t, "chunk 32", embedder.batches[1][0])

	assert.Equal(t, 70, idx.Len())
	assert.Equal(t, 70, vectors.Len())
	assert.Equal(t, "doc:0", vectors.ids[0])
	assert.Equal(t, "doc:69", vectors.ids[69])
	assert.Equal(t, "mock-embed", idx.EmbeddingModel())
}

func TestIndexer_Build_CustomBatchSize(t *testing.T) {
	embedder := &mockEmbedder{}
	_, err := NewIndexer(embedder, staticIndexFactory(&mockVectorIndex{}), WithBatchSize(2)).
		Build(context.Background(), makeChunks("a", "b", "c"))
	require.NoError(t, err)
	assert.Len(t, embedder.batches, 2)
}

func TestIndexer_Build_IgnoresNonPositiveBatchSize(t *testing.T) {
	ix := NewIndexer(&mockEmbedder{}, staticIndexFactory(&mockVectorIndex{}), WithBatchSize(0))
	assert.Equal(t, DefaultBatchSize, ix.batchSize)
}

func TestIndexer_Build_PassesDimensionsToFactory(t *testing.T) {
	var gotDims int
	factory := func(_ context.Context, dims int) (driven.VectorIndex, error) {
		gotDims = dims
		return &mockVectorIndex{}, nil
	}

	_, err := NewIndexer(&mockEmbedder{}, factory).Build(context.Background(), makeChunks("abc"))
	require.NoError(t, err)
	assert.Equal(t, 26, gotDims)
}

// An empty document file never reaches the embedder.
func TestIndexer_Build_EmptyCorpus(t *testing.T) {
	embedder := &mockEmbedder{}

	idx, err := NewIndexer(embedder, staticIndexFactory(&mockVectorIndex{})).Build(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrEmptyCorpus)
	assert.True(t, domain.IsFatal(err))
	assert.Nil(t, idx)
	assert.Equal(t, 0, embedder.callCount())
}

func TestIndexer_Build_FitsCorpusAwareEmbedder(t *testing.T) {
	embedder := &fittingEmbedder{}

	_, err := NewIndexer(embedder, staticIndexFactory(&mockVectorIndex{})).
		Build(context.Background(), makeChunks("alpha", "beta"))
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, embedder.fitCorpus)
}

func TestIndexer_Build_Errors(t *testing.T) {
	tests := []struct {
		name     string
		embedder driven.EmbeddingService
		vectors  *mockVectorIndex
		factErr  error
	}{
		{"embed fails", &mockEmbedder{batchErr: errBackend}, &mockVectorIndex{}, nil},
		{"short batch", &mockEmbedder{shortBy: 1}, &mockVectorIndex{}, nil},
		{"fit fails", &fittingEmbedder{mockEmbedder{fitErr: errBackend}}, &mockVectorIndex{}, nil},
		{"add fails", &mockEmbedder{}, &mockVectorIndex{addErr: errBackend}, nil},
		{"factory fails", &mockEmbedder{}, nil, errBackend},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factory := func(_ context.Context, _ int) (driven.VectorIndex, error) {
				if tt.factErr != nil {
					return nil, tt.factErr
				}
				return tt.vectors, nil
			}

			_, err := NewIndexer(tt.embedder, factory).Build(context.Background(), makeChunks("a", "b"))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrCollaborator)
			assert.True(t, domain.IsRecoverable(err))
			if tt.name != "short batch" {
				assert.True(t, errors.Is(err, errBackend))
			}
		})
	}
}

func TestIndexer_Build_ClosesIndexOnAddFailure(t *testing.T) {
	vectors := &mockVectorIndex{addErr: errBackend}

	_, err := NewIndexer(&mockEmbedder{}, staticIndexFactory(vectors)).Build(context.Background(), makeChunks("a"))
	require.Error(t, err)
	assert.True(t, vectors.closed)
}
