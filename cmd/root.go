package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/pappers-sync/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "pappers-sync",
	Short: "Pappers registry lookup and Salesforce account sync",
	Long:  "Searches the Pappers company registry, previews company profiles with financial scoring, and creates or refreshes Salesforce account hierarchies.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
