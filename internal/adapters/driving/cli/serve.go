package cli

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/23f2000673/tds-virtual-ta/internal/adapters/driving/httpapi"
	"github.com/23f2000673/tds-virtual-ta/internal/adapters/driving/mcp"
	"github.com/23f2000673/tds-virtual-ta/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the JSON API.

Routes:
  POST /query   {"question": "...", "image": "<base64>"}
  POST /api/    alias of /query
  GET  /health  chunk and embedding counts per source
  /mcp          streamable MCP endpoint (disable with --no-mcp)

Prompt files under the config directory are reloaded when they change.

Examples:
  tds-ta serve
  tds-ta serve --addr 127.0.0.1:9000`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default from settings, :8000)")
	serveCmd.Flags().Bool("no-mcp", false, "do not mount the MCP endpoint at /mcp")
	serveCmd.Flags().Bool("no-watch", false, "do not reload prompt files on change")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	addr, err := cmd.Flags().GetString("addr")
	if err != nil {
		return fmt.Errorf("getting addr flag: %w", err)
	}
	noMCP, err := cmd.Flags().GetBool("no-mcp")
	if err != nil {
		return fmt.Errorf("getting no-mcp flag: %w", err)
	}
	noWatch, err := cmd.Flags().GetBool("no-watch")
	if err != nil {
		return fmt.Errorf("getting no-watch flag: %w", err)
	}

	query, err := requireQueryService()
	if err != nil {
		return err
	}

	if addr == "" && active != nil {
		addr = active.settings.Server.Addr
	}

	ports := &httpapi.Ports{Query: query}
	if !noMCP {
		mcpServer, err := mcp.NewServer(&mcp.Ports{Query: query, Settings: settingsService})
		if err != nil {
			return err
		}
		ports.MCP = mcpServer.Handler()
	}

	if !logger.IsVerbose() {
		gin.SetMode(gin.ReleaseMode)
	}

	server, err := httpapi.NewServer(ports, httpapi.Config{Addr: addr})
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		return server.Run(ctx)
	})
	if !noWatch && active != nil {
		prompts := active.prompts
		g.Go(func() error {
			err := prompts.Watch(ctx, func(name string) {
				logger.Info("Reloaded prompt %s", name)
			})
			if err != nil {
				logger.Warn("Prompt hot reload disabled: %v", err)
			}
			return nil
		})
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Listening on %s\n", server.Addr())
	return g.Wait()
}
