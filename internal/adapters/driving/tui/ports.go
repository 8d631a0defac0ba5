// Package tui provides an interactive terminal user interface for asking
// questions about a document. It implements a driving adapter following
// hexagonal architecture principles.
package tui

import (
	"fmt"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// Ports aggregates the driving ports and data the TUI needs.
type Ports struct {
	// QA answers questions. Required.
	QA driving.QAService

	// Document is the indexed document. Optional; without it the document
	// view is unavailable.
	Document *domain.Document

	// Chunks is the chunking of Document, shown as a count.
	Chunks []domain.Chunk
}

// NewPorts creates a new Ports aggregate.
func NewPorts(qa driving.QAService, doc *domain.Document, chunks []domain.Chunk) *Ports {
	return &Ports{QA: qa, Document: doc, Chunks: chunks}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.QA == nil {
		return fmt.Errorf("%w: %w", ErrInvalidPorts, ErrMissingQAService)
	}
	return nil
}

// DocumentName returns a short display name for the document.
func (p *Ports) DocumentName() string {
	if p == nil || p.Document == nil {
		return "the document"
	}
	if p.Document.Title != "" {
		return p.Document.Title
	}
	return p.Document.URI
}
