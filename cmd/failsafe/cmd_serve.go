package main

import (
	"context"

	"github.com/spf13/cobra"

	"failsafe/internal/logging"
	mcpserver "failsafe/internal/mcp"
	"failsafe/internal/store"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

var serveFlags struct {
	memory bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP tool server over stdio",
	Long: `Starts an MCP server over stdin/stdout exposing classify_xml,
classify_file, list_runs and get_run. Runs are recorded in the history
database unless --memory is set.

The server exits when its parent process goes away.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveFlags.memory, "memory", false, "Keep run history in memory only")
}

func runServe(cmd *cobra.Command, _ []string) error {
	var st store.Store
	if serveFlags.memory {
		st = store.NewMemStore()
	} else {
		sq, err := openStore()
		if err != nil {
			return err
		}
		st = sq
	}
	srv := mcpserver.NewServer(cfg.Rules, st, version)
	defer srv.Shutdown()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	mcpserver.WatchParent(ctx, cancel)

	logging.New("mcp").Info("starting failsafe MCP server over stdio", "store", cfg.Store, "memory", serveFlags.memory)
	return srv.MCPServer.Run(ctx, &sdkmcp.StdioTransport{})
}
