package cmd

import (
	"fmt"

	"stem_tutor_backend/internal/config"
	"stem_tutor_backend/pkg/database"
	"stem_tutor_backend/pkg/logger"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		db, err := openDB(cfg)
		if err != nil {
			return err
		}
		if err := database.Migrate(db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Database migration completed.")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Migrate and insert the default subjects into an empty database",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		db, err := openDB(cfg)
		if err != nil {
			return err
		}
		if err := database.Migrate(db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		if err := database.Seed(db); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Default subjects seeded.")
		return nil
	},
}

func openDB(cfg *config.Config) (*gorm.DB, error) {
	logger.InitLogger(cfg)
	db, err := database.InitDB(&cfg.Database, false)
	if err != nil {
		return nil, fmt.Errorf("initialize database: %w", err)
	}
	return db, nil
}
