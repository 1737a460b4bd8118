package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/unowned-ai/medtrack/pkg/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the medtrack MCP server (stdio)",
	Long: `Start a Model Context Protocol (MCP) server that exposes the medications and events
as MCP tools via STDIO. Deleting tools require an explicit "confirm": true argument.

The --db flag is optional. If not provided, MEDTRACK_DB_PATH or a system-specific default
location will be used:
- Windows: %USERPROFILE%\AppData\Roaming\medtrack\medtrack.db
- macOS: ~/Library/Application Support/medtrack/medtrack.db
- Linux: ~/.local/share/medtrack/medtrack.db

Example:
  medtrack mcp
  medtrack mcp --db medtrack.db --locale en`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		log := newLogger(cfg)

		srv, err := mcp.OpenMedtrackMCPServer(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer srv.Close()

		// Log to stderr so we don't contaminate the JSON-RPC stream on stdout.
		fmt.Fprintf(os.Stderr, "Medtrack MCP server started. DB: %s (WAL: %t, Sync: %s)\n", srv.DbPath, cfg.WAL, cfg.Sync)
		fmt.Fprintf(os.Stderr, "Available tools: %s\n", strings.Join(mcp.ToolNames, ", "))
		fmt.Fprintln(os.Stderr, "Listening for MCP JSON-RPC on STDIN/STDOUT ... (Ctrl+C to quit)")

		// Run the server (blocks until stdio closes).
		return srv.Start()
	},
}
