package main

import (
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/moody-backend/internal/database"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := database.Connect(appConfig); err != nil {
			return err
		}
		defer database.Close()

		if err := database.Migrate(); err != nil {
			return err
		}
		slog.Info("migration completed")
		return nil
	},
}
