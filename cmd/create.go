package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/pappers-sync/internal/model"
	"github.com/sells-group/pappers-sync/internal/workflow"
)

var createEstablishment string

var createCmd = &cobra.Command{
	Use:   "create <siret>",
	Short: "Create the Salesforce account hierarchy for a company",
	Long:  "Creates the siège account with its financial history and cartography. With --establishment, creates the secondary establishment parented under its headquarters, creating the headquarters first when missing.",
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

		orch := env.orchestrator()
		sess := workflow.NewSession()

		detail, err := orch.Preview(ctx, sess, siret, false)
		if err != nil {
			return err
		}
		if detail == nil {
			return eris.Errorf("no company found for siret %s", siret)
		}
		if createEstablishment != "" {
			if err := sess.Select(createEstablishment); err != nil {
				return err
			}
		}

		result, err := orch.CreateAccount(ctx, sess)
		if err != nil {
			return err
		}

		fmt.Printf("Account %s created (run %s)\n", result.AccountID, result.RunID)
		return nil
	},
}

func init() {
	createCmd.Flags().StringVar(&createEstablishment, "establishment", "", "SIRET of a secondary establishment to create instead of the siège")
	rootCmd.AddCommand(createCmd)
}
