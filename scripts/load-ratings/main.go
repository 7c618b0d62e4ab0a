// Command load-ratings ingests a spreadsheet of session ratings into the
// star schema. Re-running it with the same file is safe: rows are upserted
// on their natural key.
//
// Usage:
//
//	DATABASE_URL=postgres://... go run ./scripts/load-ratings -file ratings.xlsx
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/sessionlens/sessionlens/pkg/config"
	"github.com/sessionlens/sessionlens/pkg/database"
	"github.com/sessionlens/sessionlens/pkg/etl"
	"github.com/sessionlens/sessionlens/pkg/logging"
	"github.com/sessionlens/sessionlens/pkg/repositories"
)

func main() {
	file := flag.String("file", "", "Path to the xlsx workbook (required)")
	sheet := flag.String("sheet", "", "Sheet name (default: first sheet)")
	aliasFile := flag.String("aliases", "", "Optional YAML file overriding header aliases")
	flag.Parse()

	if *file == "" {
		log.Fatal("-file is required")
	}

	cfg, err := config.Load("dev")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logConfig := zap.NewDevelopmentConfig()
	logConfig.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	logger, _ := logConfig.Build()
	defer logger.Sync()

	aliases := etl.DefaultAliases()
	if *aliasFile != "" {
		aliases, err = etl.LoadAliasOverrides(*aliasFile)
		if err != nil {
			logger.Fatal("Failed to load alias overrides", zap.Error(err))
		}
	}

	records, err := etl.ReadWorkbook(*file, *sheet, aliases)
	if err != nil {
		logger.Fatal("Failed to read workbook", zap.Error(err))
	}
	logger.Info("Workbook read", zap.String("file", *file), zap.Int("rows", len(records)))

	loc, err := time.LoadLocation(cfg.Analytics.Timezone)
	if err != nil {
		logger.Fatal("Invalid reporting timezone", zap.String("timezone", cfg.Analytics.Timezone), zap.Error(err))
	}

	ctx := context.Background()
	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.ConnectionString(),
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database",
			zap.String("error", logging.SanitizeError(err)))
	}
	defer db.Close()

	loader := etl.NewLoader(
		repositories.NewDimensionRepository(db),
		repositories.NewFactRepository(db),
		loc, logger)

	report, err := loader.Load(ctx, records)
	if err != nil {
		logger.Fatal("Load failed", zap.Error(err))
	}

	logger.Info("Done",
		zap.Int("total", report.Total()),
		zap.Int("inserted", report.Inserted),
		zap.Int("updated", report.Updated),
		zap.Int("skipped", report.Skipped),
		zap.Int("bad_date", report.BadDate))
}
