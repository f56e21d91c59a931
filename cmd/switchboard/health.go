package main

import (
	"fmt"
	"os"

	"github.com/aretw0/switchboard/internal/cli"
	"github.com/aretw0/switchboard/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Probe the operation services",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		domains, err := domainsFlag(cmd)
		if err != nil {
			return err
		}

		printer := tui.NewPrinter(os.Stdout)
		agents := cli.NewAgents(cfg, nil, logger)
		down := 0
		for _, d := range domains {
			ok := agents[d].Probe(cmd.Context())
			printer.Health(fmt.Sprintf("%s service (%s)", d, agents[d].BaseURL()), ok)
			if !ok {
				down++
			}
		}
		if down > 0 {
			return fmt.Errorf("%d of %d services unavailable", down, len(domains))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
	healthCmd.Flags().String("domain", "", "Probe a single domain")
}
