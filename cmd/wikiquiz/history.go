package main

import (
	"context"
	"time"

	"wikiquiz/internal/config"
	"wikiquiz/internal/database"
	"wikiquiz/internal/domain"
	"wikiquiz/internal/logger"
	"wikiquiz/internal/repository"

	"github.com/spf13/cobra"
)

// NewHistoryCommand lists stored articles, newest first.
func NewHistoryCommand(output *string) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored articles, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			if err := logger.Initialize(config.LoggerConfig{Level: "warn", Env: cfg.Logger.Env}); err != nil {
				return err
			}
			defer logger.Sync()

			db, err := database.NewSQLXDB(cfg.DB)
			if err != nil {
				return err
			}
			defer db.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			items, err := listHistory(ctx, repository.NewArticleDatabaseAdapter(db), limit)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), *output, items)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most n entries (0 for all)")
	return cmd
}

func listHistory(ctx context.Context, repo domain.ArticleRepository, limit int) ([]domain.HistoryItem, error) {
	items, err := repo.ListHistory(ctx)
	if err != nil {
		return nil, domain.NewStorageError("Failed to list history", err)
	}
	if items == nil {
		items = []domain.HistoryItem{}
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}
