package cli

import (
	"fmt"
	"inventory/internal/storage"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	Long:  "Creates or upgrades the categories and products tables of the configured STORAGE_DRIVER",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		store, err := storage.Open(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		m, ok := store.(storage.Migrator)
		if !ok {
			fmt.Fprintf(cmd.OutOrStdout(), "Storage driver %q has no schema to migrate\n", cfg.StorageDriver)
			return nil
		}

		if err := m.Migrate(cmd.Context()); err != nil {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Migrations applied (%s)\n", cfg.StorageDriver)
		return nil
	},
}
