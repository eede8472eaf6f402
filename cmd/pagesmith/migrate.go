package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"pagesmith/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Args:  cobra.NoArgs,
	RunE:  runMigrate,
}

var (
	migrateSeed   bool
	migrateStatus bool
)

func init() {
	migrateCmd.Flags().BoolVar(&migrateSeed, "seed", false, "create the demo account when the database is empty")
	migrateCmd.Flags().BoolVar(&migrateStatus, "status", false, "print the state of every migration and exit")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := database.Connect(cfg.DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	if migrateStatus {
		return database.MigrationStatus(db)
	}

	if err := database.Migrate(db); err != nil {
		return err
	}
	slog.Info("migrations applied")

	if migrateSeed {
		return database.Seed(db)
	}
	return nil
}
