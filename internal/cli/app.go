// Package cli implements the askdocs command tree.
package cli

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/cloo-solutions/askdocs/internal/config"
	"github.com/cloo-solutions/askdocs/internal/database"
	"github.com/cloo-solutions/askdocs/internal/domain"
	"github.com/cloo-solutions/askdocs/internal/openai"
	"github.com/cloo-solutions/askdocs/internal/querylog"
	"github.com/cloo-solutions/askdocs/internal/service"
	"github.com/cloo-solutions/askdocs/internal/storage"
	"github.com/cloo-solutions/askdocs/internal/store"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/pflag"
)

// AddMigrateFlags registers the migration flags shared by commands that
// touch the database schema.
func AddMigrateFlags(flags *pflag.FlagSet) {
	flags.Bool("no-migrate", false, "Skip automatic database migrations on startup")
}

// App bundles the wired services behind the CLI commands.
type App struct {
	Cfg       *config.Config
	Pool      *pgxpool.Pool
	Store     *store.PostgresStore
	OpenAI    *openai.Client
	Retriever *service.RetrieverService
	Assistant *service.AssistantService
	QueryLog  *querylog.FileLogger
}

// NewApp loads configuration and connects the shared clients. The OpenAI
// client is only constructed when an API key is configured; commands that
// need it must call RequireOpenAI.
func NewApp(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	queryLog, err := querylog.NewFileLogger(cfg.QueryLogFile)
	if err != nil {
		pool.Close()
		return nil, err
	}

	app := &App{
		Cfg:      cfg,
		Pool:     pool,
		Store:    store.NewPostgresStore(pool),
		QueryLog: queryLog,
	}

	if cfg.HasOpenAI() {
		app.OpenAI = openai.NewClientWithConfig(openai.Config{
			APIKey:              cfg.OpenAIAPIKey,
			EmbeddingModel:      cfg.EmbeddingModel,
			EmbeddingDimensions: cfg.EmbeddingDimensions,
			ChatModel:           cfg.GenerationModel,
		})
		app.Retriever = service.NewRetrieverService(app.OpenAI, app.Store, cfg.ChunkSize, cfg.ChunkOverlap)
		answer := service.NewAnswerService(app.OpenAI, cfg.GenerationTimeout)
		app.Assistant = service.NewAssistantService(app.Retriever, answer, app.QueryLog, cfg.TopK, service.Thresholds{
			ConfidenceThreshold:        cfg.ConfidenceThreshold,
			UncertainDistanceThreshold: cfg.UncertainDistanceThreshold,
		})
	}

	return app, nil
}

// Close releases the shared clients.
func (a *App) Close() {
	if a.Pool != nil {
		a.Pool.Close()
	}
}

// RequireOpenAI fails when no API key is configured.
func (a *App) RequireOpenAI() error {
	if a.OpenAI == nil {
		return domain.NewDomainError(domain.ErrCodeModelUnavailable,
			"ASKDOCS_OPENAI_API_KEY is not configured")
	}
	return nil
}

// DocumentSource builds a source for a local folder or an s3:// URL.
func (a *App) DocumentSource(ctx context.Context, path string) (service.DocumentSource, error) {
	if !strings.HasPrefix(path, "s3://") {
		return storage.NewFolderSource(path), nil
	}

	bucket, prefix, err := storage.ParseS3URL(path)
	if err != nil {
		return nil, err
	}
	return storage.NewS3Source(ctx, storage.S3SourceConfig{
		Endpoint:        a.Cfg.S3Endpoint,
		Region:          a.Cfg.S3Region,
		AccessKeyID:     a.Cfg.S3AccessKey,
		SecretAccessKey: a.Cfg.S3SecretKey,
		Bucket:          bucket,
		Prefix:          prefix,
		UsePathStyle:    a.Cfg.S3Endpoint != "",
	})
}

// RunMigrations applies all pending migrations from the migrations directory.
func RunMigrations(databaseURL string) error {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database for migrations: %w", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}
