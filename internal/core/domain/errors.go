package domain

import "errors"

// Pipeline errors. The first two are fatal at startup; the next two are
// scoped to a single query and never end an interactive session.
var (
	// ErrConfig indicates invalid chunking or retrieval parameters.
	ErrConfig = errors.New("invalid configuration")

	// ErrEmptyCorpus indicates the document produced zero chunks.
	// An index over zero vectors cannot serve retrieval.
	ErrEmptyCorpus = errors.New("document produced no chunks")

	// ErrEmptyContext indicates a query retrieved no usable text.
	// The language model must not be called when this is returned.
	ErrEmptyContext = errors.New("no context found")

	// ErrCollaborator indicates an embedding, vector index or LLM backend failure.
	ErrCollaborator = errors.New("collaborator failure")
)

// Infrastructure errors.
var (
	// ErrDocumentNotFound indicates the input document does not exist.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrLLMUnavailable indicates the LLM service could not be created or reached.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service could not be created or reached.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorIndexUnavailable indicates the vector index could not be created or reached.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")
)

// IsRecoverable reports whether err is scoped to a single query.
// Recoverable errors are reported to the user and the session continues.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrEmptyContext) || errors.Is(err, ErrCollaborator)
}

// IsFatal reports whether err must abort startup before the session begins.
func IsFatal(err error) bool {
	return errors.Is(err, ErrConfig) || errors.Is(err, ErrEmptyCorpus)
}
