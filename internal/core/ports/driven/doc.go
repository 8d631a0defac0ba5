// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - DocumentLoader: Reads the single input document
//   - PostProcessor / PostProcessorPipeline: Splits the document into chunks
//   - EmbeddingService: Turns text into vectors (the same model for chunks and queries)
//   - VectorIndex: Nearest-neighbour store over chunk vectors
//   - LLMService: Turns a prompt into an answer
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
//   - PromptStore: User-editable prompt templates. Without it the built-in template is used.
//   - CorpusAware: Embedders that must see the whole corpus before embedding (TF-IDF).
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or postprocessor package
package driven
