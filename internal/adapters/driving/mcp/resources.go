package mcp

import (
	"context"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const uriScheme = "docqa://"

// registerResources exposes the document and its chunks when they were provided.
func (s *Server) registerResources() {
	if s.ports.Document != nil {
		s.server.AddResource(&mcp.Resource{
			URI:         uriScheme + "document",
			Name:        "document",
			Description: "Full text of " + s.ports.Document.Title,
			MIMEType:    "text/plain",
		}, s.handleDocumentResource)
	}

	if len(s.ports.Chunks) > 0 {
		s.server.AddResourceTemplate(&mcp.ResourceTemplate{
			URITemplate: uriScheme + "chunks/{position}",
			Name:        "chunk",
			Description: "Text of one indexed chunk, by position",
			MIMEType:    "text/plain",
		}, s.handleChunkResource)
	}
}

func (s *Server) handleDocumentResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	return textResult(req.Params.URI, s.ports.Document.Content), nil
}

func (s *Server) handleChunkResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	pos, ok := extractChunkPosition(req.Params.URI)
	if !ok || pos >= len(s.ports.Chunks) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	return textResult(req.Params.URI, s.ports.Chunks[pos].Content), nil
}

func textResult(uri, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     text,
		}},
	}
}

// extractChunkPosition parses the position from docqa://chunks/{position}.
func extractChunkPosition(uri string) (int, bool) {
	const prefix = uriScheme + "chunks/"

	if !strings.HasPrefix(uri, prefix) {
		return 0, false
	}

	pos, err := strconv.Atoi(strings.TrimPrefix(uri, prefix))
	if err != nil || pos < 0 {
		return 0, false
	}
	return pos, true
}
