package main

import (
	"context"
	"fmt"

	"github.com/aretw0/switchboard/internal/cli"
	"github.com/aretw0/switchboard/pkg/adapters/mcp"
	"github.com/aretw0/switchboard/pkg/domain"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Expose one domain's operations as Model Context Protocol tools",
	Long: `Starts an MCP server whose tools are the operations of one domain.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		raw, _ := cmd.Flags().GetString("domain")
		d, err := domain.ParseDomain(raw)
		if err != nil {
			return err
		}
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		table, err := cli.ServiceTable(cfg, d, logger)
		if err != nil {
			return err
		}
		srv := mcp.NewServer(table, logger.With("mcp", d.String()))

		switch transport {
		case "stdio":
			logger.Info("starting MCP server", "domain", d.String(), "transport", transport)
			return srv.ServeStdio()
		case "sse":
			ctx := cli.NewSignalContext(context.Background())
			defer ctx.Cancel()
			logger.Info("starting MCP server", "domain", d.String(), "transport", transport, "port", port)
			return srv.ServeSSE(ctx, port)
		}
		return fmt.Errorf("unknown transport %q, supported: stdio, sse", transport)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().String("domain", "math", "Domain whose operations become tools: math, data or text")
	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
}
