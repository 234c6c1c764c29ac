package importer

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/swingsense/internal/analysis"
	"github.com/meltforce/swingsense/internal/models"
	"github.com/meltforce/swingsense/internal/pose"
	"github.com/meltforce/swingsense/internal/storage"
	"github.com/meltforce/swingsense/internal/upload"
)

// Stats tracks import progress.
type Stats struct {
	FilesProcessed int
	FilesSkipped   int
	FilesErrored   int

	AnalysesInserted int
	RepsDetected     int
	ANTReachedCount  int

	RejectedFiles []string
}

// Importer reads recording files from a directory, runs the analysis pipeline
// locally, and inserts the results straight into the database. Used for bulk
// backfills where going through the HTTP API one request at a time would be
// needlessly slow.
type Importer struct {
	db       *storage.DB
	pipeline *analysis.Pipeline
	log      *slog.Logger
	dryRun   bool
	fpsUsed  float64
	stats    Stats
}

// New creates a new Importer. fpsUsed is recorded in diagnostics for
// recordings that don't carry their own capture rate.
func New(db *storage.DB, pipeline *analysis.Pipeline, fpsUsed float64, log *slog.Logger, dryRun bool) *Importer {
	return &Importer{db: db, pipeline: pipeline, fpsUsed: fpsUsed, log: log, dryRun: dryRun}
}

// Import processes all recordings under the given directory, oldest first by
// filename. Native *.json recordings and *.csv tracker exports are both
// accepted.
func (imp *Importer) Import(ctx context.Context, dir string) (*Stats, error) {
	var files []string
	for _, pattern := range []string{"*.json", "*.csv"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return &imp.stats, fmt.Errorf("listing recordings in %s: %w", dir, err)
		}
		files = append(files, matches...)
	}
	sort.Strings(files)

	for _, f := range files {
		if err := imp.importFile(ctx, f); err != nil {
			imp.log.Warn("import failed", "file", f, "error", err)
			imp.stats.FilesErrored++
		}
	}

	return &imp.stats, nil
}

// importFile analyzes each recording in one file and persists the results.
func (imp *Importer) importFile(ctx context.Context, path string) error {
	recs, err := upload.ReadRecordings(path)
	if err != nil {
		imp.stats.RejectedFiles = append(imp.stats.RejectedFiles, filepath.Base(path))
		return err
	}

	for _, rec := range recs {
		if err := imp.importRecording(ctx, path, rec); err != nil {
			return err
		}
	}
	return nil
}

// importRecording analyzes one recording and persists the result.
func (imp *Importer) importRecording(ctx context.Context, path string, rec *upload.Recording) error {
	samples := rec.Samples
	if len(samples) == 0 {
		samples = pose.SynthesizeTrack(rec.Frames, rec.MovementType)
	}
	if len(samples) == 0 {
		imp.stats.FilesSkipped++
		imp.log.Info("no usable samples", "file", filepath.Base(path))
		return nil
	}

	fps := rec.FPSUsed
	if fps <= 0 {
		fps = imp.fpsUsed
	}

	result, err := imp.pipeline.AnalyzeSamples(rec.MovementType, samples, fps)
	if err != nil {
		return fmt.Errorf("analyzing: %w", err)
	}

	imp.stats.FilesProcessed++
	imp.stats.RepsDetected += result.TotalValidReps
	if result.ANTReached {
		imp.stats.ANTReachedCount++
	}

	if imp.dryRun {
		imp.stats.AnalysesInserted++
		return nil
	}

	row := models.AnalysisRow{
		ID:           uuid.New(),
		CreatedAt:    time.Now().UTC(),
		MovementType: rec.MovementType,
		Result:       *result,
	}
	if err := imp.db.InsertAnalysis(ctx, row); err != nil {
		return fmt.Errorf("inserting analysis: %w", err)
	}
	imp.stats.AnalysesInserted++

	imp.log.Info("imported recording",
		"file", filepath.Base(path),
		"movement", rec.MovementType,
		"valid_reps", result.TotalValidReps,
		"ant_reached", result.ANTReached,
	)
	return nil
}
