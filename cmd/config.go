package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long:  "Prints the merged configuration from file, environment and defaults as YAML. Secrets are redacted.",
	RunE: func(cmd *cobra.Command, args []string) error {
		redacted := *cfg
		if redacted.Pappers.APIToken != "" {
			redacted.Pappers.APIToken = "***"
		}

		out, err := yaml.Marshal(redacted)
		if err != nil {
			return eris.Wrap(err, "config: marshal")
		}
		_, err = os.Stdout.Write(out)
		return err
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
