package driven

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// DocumentLoader reads the input document.
// A missing file is reported as domain.ErrDocumentNotFound.
type DocumentLoader interface {
	Load(ctx context.Context, path string) (*domain.Document, error)
}
