package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/pappers-sync/internal/model"
	"github.com/sells-group/pappers-sync/internal/workflow"
)

var showScoring bool

var showCmd = &cobra.Command{
	Use:   "show <siret>",
	Short: "Show the full profile of a company",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		siret := model.NormalizeSiren(args[0])
		if !model.ValidSiret(siret) {
			return eris.Errorf("not a valid 14-digit siret: %s", args[0])
		}

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		detail, err := env.orchestrator().Preview(ctx, workflow.NewSession(), siret, showScoring)
		if err != nil {
			return err
		}
		if detail == nil {
			return eris.Errorf("no company found for siret %s", siret)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(detail)
	},
}

func init() {
	showCmd.Flags().BoolVar(&showScoring, "scoring", false, "include financial scoring fields")
	rootCmd.AddCommand(showCmd)
}
