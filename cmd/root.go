package cmd

import (
	"stem_tutor_backend/internal/config"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stem-tutor",
	Short: "STEM tutoring backend",
	Long:  "STEM tutoring backend: AI-evaluated answers, adaptive question selection and progress leaderboards.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "configs", "Directory containing config.yaml")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}

func configDir(cmd *cobra.Command) string {
	dir, _ := cmd.Flags().GetString("config")
	if dir == "" {
		dir = "configs"
	}
	return dir
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	return config.LoadConfig(configDir(cmd))
}
