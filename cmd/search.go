package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/pappers-sync/internal/workflow"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the company registry",
	Long:  "Searches Pappers by name, SIREN or SIRET and marks candidates that already have a Salesforce account.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		query := strings.Join(args, " ")
		candidates := env.orchestrator().Search(ctx, workflow.NewSession(), query)
		if len(candidates) == 0 {
			fmt.Fprintln(os.Stderr, "No results.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SIREN\tSIRET\tNAME\tPOSTAL\tACTIVITY\tIN CRM")
		for _, c := range candidates {
			inCRM := ""
			if c.ExistsInCRM {
				inCRM = "yes"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				c.Siren, c.Siret, c.Name, c.PostalCode, c.ActivityLabel, inCRM)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
