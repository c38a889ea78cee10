package cmd

import (
	"context"

	"stem_tutor_backend/internal/app"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func runServe(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	application, err := app.NewApp(context.Background(), cfg)
	if err != nil {
		return err
	}
	return application.Run(configDir(cmd))
}
