package driven

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// PostProcessor is one stage of turning a loaded document into chunks.
// The first stage receives nil chunks and creates them; later stages
// receive the previous stage's output.
type PostProcessor interface {
	// Name is the key the stage is registered and configured under.
	Name() string

	Process(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error)
}

// PostProcessorPipeline runs the configured stages in order and returns
// the chunks the last one produced.
type PostProcessorPipeline interface {
	Process(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error)
}
