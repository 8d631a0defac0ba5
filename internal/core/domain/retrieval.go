package domain

import "strings"

// ContextSeparator delimits chunk texts inside a QueryContext.
const ContextSeparator = "\n\n"

// ScoredChunk pairs a chunk with its similarity to a query.
type ScoredChunk struct {
	Chunk Chunk
	Score float64
}

// RetrievalResult holds the chunks most similar to one query,
// ordered by descending score. It is recomputed for every query.
type RetrievalResult struct {
	// Query is the raw user question.
	Query string

	// Chunks is ordered best first. len(Chunks) <= K.
	Chunks []ScoredChunk

	// K is the effective neighbour count that was requested.
	K int
}

// IsEmpty reports whether the result carries no usable text.
func (r RetrievalResult) IsEmpty() bool {
	for _, sc := range r.Chunks {
		if !sc.Chunk.IsBlank() {
			return false
		}
	}
	return true
}

// Texts returns the chunk texts in retrieval order.
func (r RetrievalResult) Texts() []string {
	texts := make([]string, len(r.Chunks))
	for i, sc := range r.Chunks {
		texts[i] = sc.Chunk.Content
	}
	return texts
}

// QueryContext joins the chunk texts in retrieval order.
func (r RetrievalResult) QueryContext() string {
	return strings.Join(r.Texts(), ContextSeparator)
}

// Prompt is the fully assembled instruction sent to the language model.
// The model learns about the document only through Context.
type Prompt struct {
	// Text is the final prompt string.
	Text string

	// Context is the QueryContext embedded in Text.
	Context string

	// Query is the literal user question embedded in Text.
	Query string
}

// Answer is the outcome of one successful question.
type Answer struct {
	// Query is the question that was asked.
	Query string

	// Text is the model's reply.
	Text string

	// Chunks are the retrieved chunks the answer was grounded on.
	Chunks []ScoredChunk

	// Model is the name of the model that produced Text.
	Model string
}
