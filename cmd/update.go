package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/pappers-sync/internal/model"
	"github.com/sells-group/pappers-sync/internal/workflow"
)

var updateCmd = &cobra.Command{
	Use:   "update <siret|siren>",
	Short: "Refresh the financial history of an existing account",
	Long:  "Re-fetches the company profile with scoring and overwrites the stored financial statements. A SIREN is resolved to the siège SIRET first.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		siret, err := resolveSiret(cmd, env, args[0])
		if err != nil {
			return err
		}

		orch := env.orchestrator()
		sess := workflow.NewSession()

		detail, err := orch.Preview(ctx, sess, siret, true)
		if err != nil {
			return err
		}
		if detail == nil {
			return eris.Errorf("no company found for siret %s", siret)
		}

		result, err := orch.UpdateAccount(ctx, sess)
		if err != nil {
			return err
		}

		fmt.Printf("Account %s updated (run %s)\n", result.AccountID, result.RunID)
		return nil
	},
}

// resolveSiret accepts a SIRET as is and resolves a SIREN to the siège SIRET
// through the establishment list.
func resolveSiret(cmd *cobra.Command, env *env, id string) (string, error) {
	id = model.NormalizeSiren(id)
	if model.ValidSiret(id) {
		return id, nil
	}
	if !model.ValidSiren(id) {
		return "", eris.Errorf("not a valid siren or siret: %s", id)
	}

	establishments, err := env.registry.FetchEstablishments(cmd.Context(), id)
	if err != nil {
		return "", err
	}
	for _, e := range establishments {
		if e.IsHeadquarters {
			return model.NormalizeSiren(e.Siret), nil
		}
	}
	return "", eris.Errorf("no headquarters establishment found for siren %s", id)
}

func init() {
	rootCmd.AddCommand(updateCmd)
}
