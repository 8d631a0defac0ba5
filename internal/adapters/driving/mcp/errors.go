// Package mcp provides an MCP (Model Context Protocol) server adapter.
// It lets AI assistants ask questions about the loaded document and inspect
// the passages answers are grounded on.
package mcp

import "errors"

// ErrMissingQAService is returned when the QA service is not provided.
var ErrMissingQAService = errors.New("mcp: QA service is required")
