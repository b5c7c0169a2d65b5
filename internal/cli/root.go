package cli

import (
	"inventory/pkg/config"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "inventoryctl",
	Short:         "Maintenance commands for the inventory service",
	Long:          "inventoryctl migrates the configured storage and seeds it with categories and products.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// loadConfig is replaced in tests.
var loadConfig = func() (*config.AppConfig, error) {
	return config.Load(".env")
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}
