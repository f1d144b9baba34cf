package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Enzoamyr17/ZipTask/internal/storage"
)

func statusCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show configuration and storage statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			fmt.Println("ZipTask Status")
			fmt.Println(strings.Repeat("=", 40))

			fmt.Println("\nConfiguration:")
			fmt.Printf("  Listen:   %s\n", cfg.Listen)
			fmt.Printf("  Timezone: %s\n", cfg.Timezone)
			fmt.Printf("  Storage:  %s (%s)\n", cfg.Storage.Driver, cfg.Storage.DSN)
			if cfg.Auth.Secret != "" {
				fmt.Println("  Secret:   configured")
			} else {
				fmt.Println("  Secret:   NOT SET")
			}

			fmt.Println("\nConnecting to storage...")
			store, err := storage.Open(cfg.Storage.Driver, cfg.Storage.DSN)
			if err != nil {
				fmt.Printf("  Status:   FAILED (%s)\n", err)
				return nil
			}
			defer store.Close()

			counts, err := store.Counts(context.Background())
			if err != nil {
				fmt.Printf("  Status:   FAILED (%s)\n", err)
				return nil
			}

			fmt.Println("  Status:   OK")
			fmt.Printf("\nCounts:\n")
			fmt.Printf("  Users:    %d\n", counts["users"])
			fmt.Printf("  Projects: %d\n", counts["projects"])
			fmt.Printf("  Tasks:    %d\n", counts["tasks"])
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "config file")

	return cmd
}
