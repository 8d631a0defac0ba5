package mcp

import (
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// Ports aggregates what the MCP server exposes.
type Ports struct {
	// QA answers questions. Required.
	QA driving.QAService

	// Document is served as a resource when set.
	Document *domain.Document

	// Chunks are served as resources when set.
	Chunks []domain.Chunk
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.QA == nil {
		return ErrMissingQAService
	}
	return nil
}
