package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver for database/sql (migrations)
	"go.uber.org/zap"

	"github.com/sessionlens/sessionlens/pkg/config"
	"github.com/sessionlens/sessionlens/pkg/database"
	"github.com/sessionlens/sessionlens/pkg/handlers"
	"github.com/sessionlens/sessionlens/pkg/llm"
	"github.com/sessionlens/sessionlens/pkg/logging"
	"github.com/sessionlens/sessionlens/pkg/middleware"
	"github.com/sessionlens/sessionlens/pkg/repositories"
	"github.com/sessionlens/sessionlens/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := newLogger(cfg.Env)
	defer logger.Sync()

	logger.Info("Configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("bind_addr", cfg.BindAddr),
		zap.String("port", cfg.Port),
		zap.String("database", logging.SanitizeConnectionString(cfg.Database.ConnectionString())),
		zap.String("llm_provider", cfg.LLM.Provider),
		zap.String("llm_model", cfg.LLM.Model),
		zap.String("timezone", cfg.Analytics.Timezone))

	ctx := context.Background()

	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.ConnectionString(),
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.String("error", logging.SanitizeError(err)))
	}
	defer db.Close()

	// golang-migrate needs a database/sql handle.
	sqlDB, err := sql.Open("pgx", cfg.Database.ConnectionString())
	if err != nil {
		logger.Fatal("Failed to open migration connection", zap.String("error", logging.SanitizeError(err)))
	}
	if err := database.RunMigrations(sqlDB, cfg.MigrationsPath, logger); err != nil {
		sqlDB.Close()
		logger.Fatal("Failed to run migrations", zap.String("error", logging.SanitizeError(err)))
	}
	sqlDB.Close()

	generator, err := llm.NewClient(&llm.Config{
		Provider: cfg.LLM.Provider,
		Endpoint: cfg.LLM.Endpoint,
		Model:    cfg.LLM.Model,
		APIKey:   cfg.LLM.APIKey,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create LLM client", zap.Error(err))
	}

	dims := repositories.NewDimensionRepository(db)
	executor := services.NewQueryExecutor(db)
	ask := services.NewAskService(generator, executor,
		cfg.Analytics.Timezone, cfg.Analytics.SummaryRowLimit, logger)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg.Version).RegisterRoutes(mux)
	handlers.NewQueryHandler(ask, logger).RegisterRoutes(mux)
	handlers.NewDimensionsHandler(dims, logger).RegisterRoutes(mux)

	handler := middleware.RequestLogger(logger)(mux)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Starting sessionlens", zap.String("addr", addr), zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

func newLogger(env string) *zap.Logger {
	var logger *zap.Logger
	var err error
	if env == "local" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	return logger
}
