package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start a Model Context Protocol server exposing the document to AI
assistants.

Tools:
  ask       - answer a question grounded in the document
  retrieve  - return the chunks that would ground an answer

Resources:
  docqa://document            - the full document text
  docqa://chunks/{position}   - a single chunk

By default the server speaks JSON-RPC over stdio. Startup progress goes to
stderr so stdout stays clean for the protocol.

Use --port to serve over HTTP instead, for example with MCP Inspector.

Examples:
  docqa mcp serve
  docqa --file notes.txt mcp serve --port 8080

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "docqa": {
        "command": "/path/to/docqa",
        "args": ["--file", "/path/to/speech.txt", "mcp", "serve"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	settings, err := loadSettings()
	if err != nil {
		return err
	}

	p, err := buildPipeline(cmd, settings, cmd.ErrOrStderr(), cmd.ErrOrStderr())
	if err != nil || p == nil {
		return err
	}
	defer closePipeline(p)

	server, err := mcp.NewServer(&mcp.Ports{
		QA:       p.QA,
		Document: p.Document,
		Chunks:   p.Chunks,
	})
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
