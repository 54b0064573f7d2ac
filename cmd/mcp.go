package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ncsound919/OG-Glass/internal/config"
	"github.com/ncsound919/OG-Glass/internal/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the MCP server",
	Long: `Run the Model Context Protocol server. The default stdio transport reads
JSON-RPC from stdin and writes to stdout; logs go to stderr. The http
transport is the same as "ogglass serve".

Examples:
  ogglass mcp
  ogglass mcp --transport http --port 3000
  TRANSPORT=http ogglass mcp`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().StringP("transport", "t", "", "Transport (stdio|http)")
	mcpCmd.Flags().IntP("port", "p", 0, "Port for the http transport")

	AddFlagValidation(mcpCmd, "transport", func(value string) error {
		return ValidateChoice("transport", value, []string{config.TransportStdio, config.TransportHTTP})
	})
}

func runMCP(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd, map[string]string{
		"mcp.transport": "transport",
		"server.port":   "port",
	}); err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.config.MCP.Transport == config.TransportHTTP {
		return a.serveHTTP(ctx)
	}

	srv := mcpserver.New(a.studio, mcpserver.Options{Name: a.config.MCP.Name, Logger: a.logger})
	return srv.ServeStdio(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
}
