package driving

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// QAService answers questions about the indexed document.
//
// Ask returns a result per query. Errors wrapping domain.ErrEmptyContext or
// domain.ErrCollaborator are scoped to that query; callers report them and
// keep going.
type QAService interface {
	// Ask retrieves context, builds a grounded prompt and generates an answer.
	Ask(ctx context.Context, query string) (*domain.Answer, error)

	// Retrieve returns the chunks that would ground an answer, without
	// calling the language model.
	Retrieve(ctx context.Context, query string) (domain.RetrievalResult, error)
}
