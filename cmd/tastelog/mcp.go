// ABOUTME: MCP server command implementation for tastelog.
// ABOUTME: Starts the MCP server in stdio mode for AI agent integration.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/2389-research/tastelog/internal/logging"
	mcppkg "github.com/2389-research/tastelog/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server (stdio mode)",
	Long: `Start the Model Context Protocol server for AI agent integration.

The MCP server communicates via stdio, allowing AI agents to add, search,
edit and delete reviews in the configured store.`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	server, err := mcppkg.NewServer(globalStore, mcppkg.WithLogger(logging.Component("mcp")))
	if err != nil {
		return err
	}

	logging.Info().Str("store", globalStore.Path()).Msg("starting MCP server on stdio")
	return server.Serve(ctx)
}
