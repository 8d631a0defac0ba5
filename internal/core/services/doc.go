// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The retrieval pipeline is built from small parts that are wired
// together by the caller:
//
//	Indexer.Build    chunks -> *Index            (once, at startup)
//	Retriever        query  -> RetrievalResult   (per query)
//	PromptBuilder    result -> Prompt            (per query)
//	QAService        query  -> Answer            (Retriever + PromptBuilder + LLM)
package services
