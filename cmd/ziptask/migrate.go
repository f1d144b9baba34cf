package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Enzoamyr17/ZipTask/internal/storage"
)

func migrateCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			store, err := storage.Open(cfg.Storage.Driver, cfg.Storage.DSN)
			if err != nil {
				return fmt.Errorf("open storage: %w", err)
			}
			defer store.Close()

			if err := store.Migrate(); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}

			fmt.Printf("Schema up to date (%s)\n", cfg.Storage.Driver)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "config file")

	return cmd
}
