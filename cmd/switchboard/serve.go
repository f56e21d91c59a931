package main

import (
	"context"

	"github.com/aretw0/switchboard/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the operation services",
	Long: `Starts the math, data and text operation services on their configured ports
and blocks until interrupted. Use --domain to start a single service.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		domains, err := domainsFlag(cmd)
		if err != nil {
			return err
		}

		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()

		for _, d := range domains {
			logger.Info("starting service", "service", d.String(), "addr", cfg.Addr(d))
		}
		if err := cli.Serve(ctx, cfg, domains, logger); err != nil {
			return err
		}
		if sig := ctx.Signal(); sig != nil {
			logger.Info("received signal", "signal", sig.String())
		}
		logger.Info("all services stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("domain", "", "Serve a single domain: math, data or text")
}
