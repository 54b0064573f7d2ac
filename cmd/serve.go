package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ncsound919/OG-Glass/internal/mcpserver"
	"github.com/ncsound919/OG-Glass/internal/server"
	"github.com/ncsound919/OG-Glass/internal/watcher"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"s"},
	Short:   "Start the REST API, dashboard, live events and the /mcp endpoint",
	Long: `Start the HTTP server. It serves the dashboard at /, the JSON API under
/api, live events over WebSocket at /ws and MCP over streamable HTTP at /mcp.

With --watch, edits under the presets root invalidate cached presets and
reload the active one.

Examples:
  ogglass serve
  ogglass serve --port 8080 --watch
  OGGLASS_SERVER_ALLOWED_ORIGINS=https://studio.example.com ogglass serve`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 0, "Port to serve on")
	serveCmd.Flags().String("host", "", "Host to bind to")
	serveCmd.Flags().BoolP("watch", "w", false, "Reload presets when their files change")
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd, map[string]string{
		"server.port":   "port",
		"server.host":   "host",
		"presets.watch": "watch",
	}); err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return a.serveHTTP(ctx)
}

// serveHTTP runs the HTTP server, plus the preset watcher when enabled,
// until ctx is cancelled.
func (a *app) serveHTTP(ctx context.Context) error {
	if a.config.Presets.Watch {
		w, err := watcher.NewPresetWatcher(a.studio.Store().Root(), a.config.Watcher.Debounce, a.studio, a.logger)
		if err != nil {
			return err
		}
		if err := w.Start(ctx); err != nil {
			return err
		}
		defer w.Stop()
	}

	mcp := mcpserver.New(a.studio, mcpserver.Options{Name: a.config.MCP.Name, Logger: a.logger})

	srv := server.New(a.config, a.studio, server.Options{
		MCPHandler: mcp.HTTPHandler(),
		Logger:     a.logger,
	})

	a.logger.Info(ctx, "Starting ogglass",
		"addr", a.config.Server.Addr(),
		"presets", a.studio.Store().Root(),
		"watch", a.config.Presets.Watch)

	return srv.Start(ctx)
}
