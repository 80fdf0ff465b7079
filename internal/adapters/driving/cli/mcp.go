package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/WiseAcquire/Risk-Analyzer/internal/adapters/driving/mcp"
)

var mcpAPIKey string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

The server exposes two tools: analyze_procurement_risk runs an analysis over
the input folders and last_report reads the latest written report. Recent runs
are available as riskanalyzer://runs resources.

By default, the server communicates over stdio using JSON-RPC. Use --port to
start an HTTP server instead.

The API key is read from --api-key, then RISK_ANALYZER_API_KEY, then the
provider variable. The server never prompts for it.

Examples:
  # Stdio mode (default, for Claude Desktop)
  riskanalyzer mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  riskanalyzer mcp serve --port 8080`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().StringVar(&mcpAPIKey, "api-key", "", "API key for the configured providers")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	if analyzer == nil || reportReader == nil {
		return errors.New("analysis service not configured")
	}

	apiKey, err := resolveAPIKey(cmd, mcpAPIKey, false)
	if err != nil {
		return err
	}

	ports := &mcp.Ports{
		Analyzer: analyzer,
		Reports:  reportReader,
		Settings: settingsService,
		History:  historyService,
		APIKey:   apiKey,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
