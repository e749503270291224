package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/pappers-sync/internal/model"
)

var cartographyAttach string

var cartographyCmd = &cobra.Command{
	Use:   "cartography <siren>",
	Short: "Fetch the ownership graph of a company",
	Long:  "Fetches the relationship graph from the registry and prints it. With --attach, persists the snapshot under the given Salesforce account instead.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		siren := model.NormalizeSiren(args[0])
		if !model.ValidSiren(siren) {
			return eris.Errorf("not a valid 9-digit siren: %s", args[0])
		}

		if cartographyAttach != "" {
			env, err := initEnv(ctx)
			if err != nil {
				return err
			}
			defer env.Close()

			snap, err := env.registry.FetchCartography(ctx, siren)
			if err != nil {
				return err
			}
			if err := env.accounts.AttachCartography(ctx, cartographyAttach, snap); err != nil {
				return err
			}
			fmt.Printf("Cartography attached to account %s (%d entities, %d links)\n",
				cartographyAttach, len(snap.Nodes), len(snap.ValidEdges()))
			return nil
		}

		registry, err := initRegistryOnly()
		if err != nil {
			return err
		}

		snap, err := registry.FetchCartography(ctx, siren)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	},
}

func init() {
	cartographyCmd.Flags().StringVar(&cartographyAttach, "attach", "", "Salesforce account ID to attach the snapshot to")
	rootCmd.AddCommand(cartographyCmd)
}
