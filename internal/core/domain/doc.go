// Package domain defines the core entities of the docqa pipeline.
//
// This package is the innermost layer of the hexagon. It has NO external
// dependencies and defines the fundamental types:
//
//   - Document: the single source text, loaded once at startup
//   - Chunk: a contiguous, offset-addressed slice of the Document
//   - RetrievalResult: the chunks closest to one query, best first
//   - Prompt and Answer: the per-query artefacts handed to and returned by the LLM
//   - SessionState: the states of the interactive question loop
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
