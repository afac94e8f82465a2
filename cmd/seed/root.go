package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"gamereviews/internal/auth"
	"gamereviews/internal/config"
	"gamereviews/internal/db"
	"gamereviews/internal/logger"
	"gamereviews/internal/repository"
)

// NewRootCmd creates the root command for the seed tool.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the game reviews database",
		Long: `Seed loads catalog data and bootstrap accounts into the database
configured by the DB_DRIVER and DB_DSN environment variables.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewCatalogCmd())
	cmd.AddCommand(NewAdminCmd())

	return cmd
}

type catalogConfig struct {
	file string
	url  string
}

// NewCatalogCmd creates the catalog subcommand.
func NewCatalogCmd() *cobra.Command {
	cfg := &catalogConfig{}

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Create or update genres and games from a JSON document",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (cfg.file == "") == (cfg.url == "") {
				return fmt.Errorf("exactly one of --file or --url is required")
			}
			return withDatabase(cmd.Context(), func(ctx context.Context, gormDB *gorm.DB, log *zap.Logger) error {
				var (
					data *CatalogData
					err  error
				)
				if cfg.file != "" {
					data, err = readCatalogFile(cfg.file)
				} else {
					log.Info("fetching catalog", zap.String("url", cfg.url))
					data, err = fetchCatalog(ctx, cfg.url)
				}
				if err != nil {
					return err
				}

				stats, err := seedCatalog(ctx,
					repository.NewGenreRepository(gormDB),
					repository.NewGameRepository(gormDB),
					data, log)
				if err != nil {
					return err
				}
				log.Info("catalog seeded",
					zap.Int("genres_created", stats.GenresCreated),
					zap.Int("genres_updated", stats.GenresUpdated),
					zap.Int("games_created", stats.GamesCreated),
					zap.Int("games_updated", stats.GamesUpdated),
					zap.Int("skipped", stats.Skipped),
				)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&cfg.file, "file", "", "path to a catalog JSON file")
	cmd.Flags().StringVar(&cfg.url, "url", "", "URL of a catalog JSON document")

	return cmd
}

type adminConfig struct {
	username string
	password string
}

// NewAdminCmd creates the admin subcommand.
func NewAdminCmd() *cobra.Command {
	cfg := &adminConfig{}

	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Create an account with the Admin role",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDatabase(cmd.Context(), func(ctx context.Context, gormDB *gorm.DB, log *zap.Logger) error {
				appCfg := config.Load()
				hasher := auth.NewPasswordHasher(appCfg.PasswordHash)
				user, err := seedAdmin(ctx, repository.NewUserRepository(gormDB), hasher, appCfg.UsernameCaseSensitive, cfg.username, cfg.password)
				if err != nil {
					return err
				}
				log.Info("admin created", zap.String("user_id", user.ID), zap.String("username", user.Username))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&cfg.username, "username", "", "admin username")
	cmd.Flags().StringVar(&cfg.password, "password", "", "admin password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

// withDatabase opens the configured database, migrates the schema and runs fn.
func withDatabase(ctx context.Context, fn func(context.Context, *gorm.DB, *zap.Logger) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	gormDB, err := db.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return err
	}
	log.Info("connected to database", zap.String("driver", cfg.DBDriver))

	if err := db.Migrate(gormDB); err != nil {
		return err
	}

	return fn(ctx, gormDB, log)
}
