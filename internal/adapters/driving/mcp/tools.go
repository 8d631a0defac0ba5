package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// QuestionInput is the input schema for the ask and retrieve tools.
type QuestionInput struct {
	Question string `json:"question" jsonschema:"a natural-language question about the document"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer  string          `json:"answer"`
	Model   string          `json:"model"`
	Context []ContextOutput `json:"context"`
}

// RetrieveOutput is the output schema for the retrieve tool.
type RetrieveOutput struct {
	Chunks []ContextOutput `json:"chunks"`
	Count  int             `json:"count"`
	K      int             `json:"k"`
}

// ContextOutput is one retrieved passage.
type ContextOutput struct {
	Position int     `json:"position"`
	Score    float64 `json:"score"`
	Text     string  `json:"text"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question using only passages retrieved from the loaded document",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "retrieve",
		Description: "Return the document passages most similar to a question, without generating an answer",
	}, s.handleRetrieve)
}

func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QuestionInput,
) (*mcp.CallToolResult, AskOutput, error) {
	answer, err := s.ports.QA.Ask(ctx, input.Question)
	if err != nil {
		return nil, AskOutput{}, err
	}

	return nil, AskOutput{
		Answer:  answer.Text,
		Model:   answer.Model,
		Context: contextOutputs(answer.Chunks),
	}, nil
}

func (s *Server) handleRetrieve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QuestionInput,
) (*mcp.CallToolResult, RetrieveOutput, error) {
	result, err := s.ports.QA.Retrieve(ctx, input.Question)
	if err != nil {
		return nil, RetrieveOutput{}, err
	}

	return nil, RetrieveOutput{
		Chunks: contextOutputs(result.Chunks),
		Count:  len(result.Chunks),
		K:      result.K,
	}, nil
}

func contextOutputs(chunks []domain.ScoredChunk) []ContextOutput {
	out := make([]ContextOutput, len(chunks))
	for i, sc := range chunks {
		out[i] = ContextOutput{
			Position: sc.Chunk.Position,
			Score:    sc.Score,
			Text:     sc.Chunk.Content,
		}
	}
	return out
}
