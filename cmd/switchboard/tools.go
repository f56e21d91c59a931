package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/aretw0/switchboard/internal/cli"
	"github.com/aretw0/switchboard/pkg/domain"
	"github.com/spf13/cobra"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the operations each domain offers",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		domains, err := domainsFlag(cmd)
		if err != nil {
			return err
		}
		asJSON, _ := cmd.Flags().GetBool("json")

		listing := make(map[string][]domain.Tool, len(domains))
		for _, d := range domains {
			table, err := cli.ServiceTable(cfg, d, logger)
			if err != nil {
				return err
			}
			listing[d.String()] = table.Tools()
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(listing)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, d := range domains {
			fmt.Fprintf(w, "%s:\n", d)
			for _, tool := range listing[d.String()] {
				fmt.Fprintf(w, "  %s\t%s\n", tool.Name, tool.Description)
			}
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(toolsCmd)
	toolsCmd.Flags().String("domain", "", "Limit the listing to one domain")
	toolsCmd.Flags().Bool("json", false, "Print JSON")
}
