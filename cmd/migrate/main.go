package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/esc-directory/consultants/internal/migrations"
	"github.com/esc-directory/consultants/internal/repository"
	"github.com/esc-directory/consultants/internal/seed"
	"github.com/esc-directory/consultants/internal/services"
	"github.com/esc-directory/consultants/pkg/config"
	"github.com/esc-directory/consultants/pkg/database"
	"github.com/esc-directory/consultants/pkg/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Manage the consultant directory schema and built-in data",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Create or update the schema",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withDB(cmd.Context(), func(_ context.Context, db *gorm.DB) error {
					return migrations.Run(db)
				})
			},
		},
		&cobra.Command{
			Use:   "seed",
			Short: "Insert the built-in consultants that are not present yet",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withDB(cmd.Context(), runSeed)
			},
		},
		&cobra.Command{
			Use:   "all",
			Short: "Run up, then seed",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withDB(cmd.Context(), func(ctx context.Context, db *gorm.DB) error {
					if err := migrations.Run(db); err != nil {
						return err
					}
					return runSeed(ctx, db)
				})
			},
		},
	)
	return root
}

func withDB(ctx context.Context, fn func(ctx context.Context, db *gorm.DB) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer logger.Sync()

	db, err := database.OpenPostgres(ctx, log, database.Options{
		DSN:          cfg.DatabaseURL,
		MaxOpenConns: 2,
		Debug:        cfg.IsDevelopment(),
	})
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()

	if err := fn(ctx, db); err != nil {
		log.Error("migrate command failed", zap.Error(err))
		return err
	}
	log.Info("migrate command completed")
	return nil
}

func runSeed(ctx context.Context, db *gorm.DB) error {
	svc := services.NewConsultantService(repository.NewConsultantRepository(db), nil)
	n, err := seed.Load(ctx, svc)
	if err != nil {
		return err
	}
	logger.L().Info("built-in consultants loaded", zap.Int64("inserted", n))
	return nil
}
