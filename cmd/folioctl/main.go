package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"folio/internal/config"
	"folio/internal/repository/postgres"
	postgresContent "folio/internal/repository/postgres/content"
	"folio/internal/seed"
	serviceContent "folio/internal/service/content"
	"folio/internal/service/content/converter"
	"folio/internal/service/content/render"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var (
	downSteps   int
	seedFile    string
	seedPublish bool
	seedForce   bool
)

// connect loads configuration and opens the database pool. The caller must
// close the pool.
func connect(ctx context.Context) (*config.Config, *pgxpool.Pool, *slog.Logger, error) {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := config.NewLogger(cfg, os.Stderr)

	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connecting to database: %w", err)
	}
	return cfg, pool, logger, nil
}

// withMigrator runs fn against a migrator bound to the configured database
func withMigrator(fn func(*postgres.Migrator) error) error {
	ctx := context.Background()
	_, pool, logger, err := connect(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	migrator, err := postgres.NewMigrator(pool, logger)
	if err != nil {
		return err
	}
	defer migrator.Close()

	return fn(migrator)
}

var rootCmd = &cobra.Command{
	Use:   "folioctl",
	Short: "Administrative tasks for the folio backend",
}

// migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *postgres.Migrator) error {
			if err := m.Up(); err != nil {
				return err
			}
			version, _, err := m.Version()
			if err != nil {
				return err
			}
			fmt.Printf("Schema at version %d\n", version)
			return nil
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *postgres.Migrator) error {
			if err := m.Down(downSteps); err != nil {
				return err
			}
			fmt.Printf("Rolled back %d migration(s)\n", downSteps)
			return nil
		})
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the applied schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *postgres.Migrator) error {
			version, dirty, err := m.Version()
			if err != nil {
				return err
			}
			fmt.Printf("Version: %d\n", version)
			if dirty {
				fmt.Println("Schema is dirty: a migration failed part way")
			}
			return nil
		})
	},
}

// seed command
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load sample articles",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		cfg, pool, logger, err := connect(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		if cfg.Environment == "prod" && seedForce {
			return fmt.Errorf("refusing to force-seed a production database")
		}

		var data []byte
		if seedFile != "" {
			f, err := os.Open(seedFile)
			if err != nil {
				return fmt.Errorf("opening fixtures: %w", err)
			}
			data, err = io.ReadAll(f)
			f.Close()
			if err != nil {
				return fmt.Errorf("reading fixtures: %w", err)
			}
		}
		fixtures, err := seed.ParseFixtures(data)
		if err != nil {
			return err
		}

		repoConfig := &postgres.RepositoryConfig{Pool: pool, Logger: logger}
		articleRepo := postgresContent.NewArticleRepository(repoConfig)
		txManager := postgres.NewTransactionManager(pool, logger)

		articles := serviceContent.NewArticleService(
			articleRepo,
			txManager,
			serviceContent.NewSlugResolver(articleRepo, logger),
			serviceContent.NewTagResolver(postgresContent.NewTagRepository(repoConfig), logger),
			converter.NewHTMLConverter(),
			render.NewMarkdownRenderer(),
			logger,
		)
		publication := serviceContent.NewPublicationService(
			articleRepo,
			postgresContent.NewRevisionRepository(repoConfig),
			txManager,
			serviceContent.NewSnapshotCodec(),
			logger,
		)

		result, err := seed.NewSeeder(articles, publication, logger).Run(ctx, fixtures, cfg.DevUserID, seedPublish, seedForce)
		if err != nil {
			return err
		}
		if result.Skipped {
			fmt.Println("Articles already exist; use --force to seed anyway")
			return nil
		}
		fmt.Printf("Created %d article(s), published %d\n", result.Created, result.Published)
		return nil
	},
}

func init() {
	migrateDownCmd.Flags().IntVar(&downSteps, "steps", 1, "number of migrations to roll back")
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)

	seedCmd.Flags().StringVar(&seedFile, "file", "", "YAML fixture file (defaults to the built-in samples)")
	seedCmd.Flags().BoolVar(&seedPublish, "publish", false, "publish every seeded article")
	seedCmd.Flags().BoolVar(&seedForce, "force", false, "seed even when articles already exist")

	rootCmd.AddCommand(migrateCmd, seedCmd)
}
