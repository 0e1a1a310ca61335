package cmd

import (
	"fmt"

	"github.com/cellplot/cellplot/internal/mcp"
	"github.com/cellplot/cellplot/internal/sink"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the cellplot MCP server",
	Long:  `Launch an MCP server that allows AI agents to browse cell records and render charts via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Logs go to stderr, stdio is reserved for the protocol.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		images, err := sink.NewFileSink(cfg.StaticDir, cfg.BaseURL)
		if err != nil {
			return fmt.Errorf("failed to open image store: %w", err)
		}
		return mcp.StartMCPServer(rootCtx, storeManager, newComposer(), images)
	},
}
