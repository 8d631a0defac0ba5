package mcp

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// mockQAService is a mock implementation of driving.QAService.
type mockQAService struct {
	answer *domain.Answer
	result domain.RetrievalResult
	err    error
	asked  []string
}

func (m *mockQAService) Ask(_ context.Context, query string) (*domain.Answer, error) {
	m.asked = append(m.asked, query)
	return m.answer, m.err
}

func (m *mockQAService) Retrieve(_ context.Context, query string) (domain.RetrievalResult, error) {
	m.asked = append(m.asked, query)
	return m.result, m.err
}

func scoredChunks() []domain.ScoredChunk {
	return []domain.ScoredChunk{
		{Chunk: domain.Chunk{Position: 2, Content: "Caste is a state of the mind."}, Score: 0.91},
		{Chunk: domain.Chunk{Position: 0, Content: "Destroy the belief in the shastras."}, Score: 0.42},
	}
}
