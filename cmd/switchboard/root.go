package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/switchboard/internal/cli"
	"github.com/aretw0/switchboard/internal/config"
	"github.com/aretw0/switchboard/pkg/domain"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "switchboard",
	Short: "Switchboard routes natural-language queries to math, data and text services",
	Long: `Switchboard runs three operation services (math, data, text) and a coordinator
that uses a language model to route each query to the right service and phrase the answer.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", config.DefaultPath, "Path to the configuration file")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}

// setup loads the configuration and logger shared by every command.
func setup(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")

	cfg, err := config.Load(path)
	if err != nil {
		return cfg, nil, err
	}
	logger := cli.NewLogger(cfg.Logging.Level, debug)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

// domainsFlag parses --domain. Empty means every domain.
func domainsFlag(cmd *cobra.Command) ([]domain.Domain, error) {
	raw, _ := cmd.Flags().GetString("domain")
	if raw == "" {
		return domain.Domains(), nil
	}
	d, err := domain.ParseDomain(raw)
	if err != nil {
		return nil, err
	}
	return []domain.Domain{d}, nil
}
