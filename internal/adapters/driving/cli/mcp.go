package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/medrag/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can consult
your medical documents.

By default, the server communicates over stdio using JSON-RPC. Use --port to
serve the streamable HTTP transport instead.

Tools: consult, upload_document, list_documents
Resources: medrag://consultations, medrag://documents,
           medrag://documents/{documentId}/chunks

Examples:
  # Stdio mode (default, for desktop assistants)
  medrag mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  medrag mcp serve --port 8080`,
	RunE: runMCPServe,
}

var mcpPort int

func init() {
	mcpServeCmd.Flags().IntVarP(&mcpPort, "port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	if consultationService == nil {
		return errors.New("consultation service not configured")
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Consultation: consultationService,
		Upload:       uploadService,
		Document:     documentService,
		UserID:       currentUser(),
		UserToken:    identity.UserToken,
	})
	if err != nil {
		return err
	}

	if mcpPort > 0 {
		addr := fmt.Sprintf(":%d", mcpPort)
		cmd.PrintErrf("MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(commandContext(cmd), addr)
	}

	return server.Run(commandContext(cmd))
}
