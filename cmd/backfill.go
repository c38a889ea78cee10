package cmd

import (
	"context"
	"fmt"
	"time"

	"stem_tutor_backend/internal/oracle"
	"stem_tutor_backend/internal/repository"
	"stem_tutor_backend/internal/service"

	"github.com/spf13/cobra"
)

var backfillCmd = &cobra.Command{
	Use:   "backfill-explanations",
	Short: "Generate missing question explanations through the configured AI provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		pause, _ := cmd.Flags().GetDuration("pause")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		db, err := openDB(cfg)
		if err != nil {
			return err
		}

		ctx := context.Background()
		o, err := oracle.New(ctx, cfg.AI, repository.NewOracleRequestRepository(db))
		if err != nil {
			return err
		}

		evaluator := service.NewEvaluationService(
			o,
			repository.NewQuestionRepository(db),
			repository.NewAnswerRepository(db),
			repository.NewUserRepository(db),
			nil,
			nil,
			cfg.AI.Timeout,
			cfg.AI.MaxTokens,
		)

		start := time.Now()
		filled, err := evaluator.BackfillExplanations(ctx, limit, pause)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Filled %d explanations in %s.\n", filled, time.Since(start).Round(time.Millisecond))
		return nil
	},
}

func init() {
	backfillCmd.Flags().Int("limit", 100, "Maximum number of questions to process")
	backfillCmd.Flags().Duration("pause", time.Second, "Delay between AI calls")
	rootCmd.AddCommand(backfillCmd)
}
