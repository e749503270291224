package main

import (
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/pappers-sync/internal/export"
	"github.com/sells-group/pappers-sync/internal/finance"
	"github.com/sells-group/pappers-sync/internal/model"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export <siret>",
	Short: "Export the financial history of a company to XLSX",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		siret := model.NormalizeSiren(args[0])
		if !model.ValidSiret(siret) {
			return eris.Errorf("not a valid 14-digit siret: %s", args[0])
		}

		registry, err := initRegistryOnly()
		if err != nil {
			return err
		}

		detail, err := registry.FetchDetail(cmd.Context(), siret, false)
		if err != nil {
			return err
		}
		if detail == nil {
			return eris.Errorf("no company found for siret %s", siret)
		}

		history := finance.Extract(detail.Finances, time.Now(), cfg.Finance.RetentionYears)

		out := exportOutput
		if out == "" {
			out = fmt.Sprintf("%s.xlsx", detail.Siren)
		}
		if err := export.WriteHistory(out, detail, history); err != nil {
			return err
		}

		fmt.Printf("Wrote %s (%d fiscal years)\n", out, len(history))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file path (default <siren>.xlsx)")
	rootCmd.AddCommand(exportCmd)
}
