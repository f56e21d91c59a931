package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/aretw0/switchboard/internal/cli"
	"github.com/aretw0/switchboard/internal/config"
	"github.com/aretw0/switchboard/internal/presentation/tui"
	"github.com/aretw0/switchboard/pkg/coordinator"
	"github.com/aretw0/switchboard/pkg/domain"
	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Ask questions interactively",
	Long: `Checks that all three services are healthy, then reads one query per line
until exit, quit, q, bye, end of input or Ctrl+C.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		printer := tui.NewPrinter(os.Stdout)
		printer.Banner()

		coord, closer, err := startCoordinator(cmd, printer)
		if err != nil {
			return err
		}
		defer closer.Close()

		printer.Info("All systems operational. Type your query and press Enter; 'exit' to quit.")
		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()
		return cli.RunREPL(ctx, os.Stdin, os.Stdout, printer, coord)
	},
}

var askCmd = &cobra.Command{
	Use:   "ask <query>",
	Short: "Answer a single query",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		printer := tui.NewPrinter(os.Stdout)
		coord, closer, err := startCoordinator(cmd, printer)
		if err != nil {
			return err
		}
		defer closer.Close()

		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()
		return cli.Ask(ctx, printer, coord, strings.Join(args, " "))
	},
}

// startCoordinator wires config, cache, agents and the model client, then refuses
// to continue unless every service answers its health probe.
func startCoordinator(cmd *cobra.Command, printer *tui.Printer) (*coordinator.Coordinator, io.Closer, error) {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return nil, nil, err
	}
	coord, closer, err := buildCoordinator(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	status, err := coord.CheckServices(cmd.Context())
	for _, d := range domain.Domains() {
		printer.Health(d.String()+" service", status[d])
	}
	if err != nil {
		closer.Close()
		return nil, nil, fmt.Errorf("%w; start them with: switchboard serve", err)
	}
	return coord, closer, nil
}

func buildCoordinator(cfg config.Config, logger *slog.Logger) (*coordinator.Coordinator, io.Closer, error) {
	cache, closer, err := cli.NewCache(cfg.Cache)
	if err != nil {
		return nil, nil, err
	}
	agents := cli.NewAgents(cfg, cache, logger)
	coord, err := cli.NewCoordinator(cfg, agents, logger)
	if err != nil {
		closer.Close()
		return nil, nil, err
	}
	return coord, closer, nil
}

func init() {
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(askCmd)
}
