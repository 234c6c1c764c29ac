package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/meltforce/swingsense/internal/analysis"
	"github.com/meltforce/swingsense/internal/ant"
	"github.com/meltforce/swingsense/internal/config"
	"github.com/meltforce/swingsense/internal/importer"
	"github.com/meltforce/swingsense/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	recordingsPath := flag.String("path", "", "path to recordings directory (required)")
	dryRun := flag.Bool("dry-run", false, "report counts without inserting into database")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *recordingsPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: swingsense-import -config config.yaml -path /path/to/recordings [-dry-run]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	info, err := os.Stat(*recordingsPath)
	if err != nil || !info.IsDir() {
		log.Error("recordings path does not exist or is not a directory", "path", *recordingsPath)
		os.Exit(1)
	}

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	dsn := cfg.Database.DSN()

	// Run migrations
	if err := storage.RunMigrations(dsn, "migrations"); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")

	ctx := context.Background()

	if *dryRun {
		log.Info("DRY RUN mode — no data will be written to the database")
	}

	// Connect database
	db, err := storage.New(ctx, dsn)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database connected")

	// Analysis pipeline
	pipeline, err := analysis.NewPipeline(ant.Config{
		BaselineReps:    cfg.Analysis.BaselineReps,
		DropThreshold:   cfg.Analysis.DropThreshold,
		SmoothingWindow: cfg.Analysis.SmoothingWindow,
		SustainCount:    cfg.Analysis.SustainCount,
	}, cfg.Analysis.MinConfidence)
	if err != nil {
		log.Error("invalid analysis config", "error", err)
		os.Exit(1)
	}

	// Run import
	imp := importer.New(db, pipeline, cfg.Pose.TargetFPS, log, *dryRun)
	stats, err := imp.Import(ctx, *recordingsPath)
	if err != nil {
		log.Error("import failed", "error", err)
		printStats(log, stats)
		os.Exit(1)
	}

	printStats(log, stats)
	log.Info("import complete")
}

func printStats(log *slog.Logger, stats *importer.Stats) {
	log.Info("import stats",
		"files_processed", stats.FilesProcessed,
		"files_skipped", stats.FilesSkipped,
		"files_errored", stats.FilesErrored,
		"analyses_inserted", stats.AnalysesInserted,
		"reps_detected", stats.RepsDetected,
		"ant_reached", stats.ANTReachedCount,
	)
	if len(stats.RejectedFiles) > 0 {
		log.Info("rejected files (unparseable)", "files", stats.RejectedFiles)
	}
}
