package upload

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/meltforce/swingsense/internal/ingest/tracker"
)

// Stats tracks upload progress.
type Stats struct {
	FilesTotal    int
	FilesUploaded int
	FilesSkipped  int
	FilesErrored  int

	RepsDetected    int
	ANTReachedCount int

	RejectedFiles []string
}

// Uploader walks a recordings directory, submits each new recording to the
// SwingSense server for analysis, and records the results in the state DB.
type Uploader struct {
	client *Client
	state  *StateDB
	dir    string
	dryRun bool
	log    *slog.Logger
	stats  Stats
}

// New creates a new Uploader.
func New(client *Client, state *StateDB, recordingsDir string, dryRun bool, log *slog.Logger) *Uploader {
	return &Uploader{
		client: client,
		state:  state,
		dir:    recordingsDir,
		dryRun: dryRun,
		log:    log,
	}
}

// Run executes the upload pipeline over all recordings in the directory,
// oldest first by filename. Native *.json recordings and *.csv tracker
// exports are both accepted.
func (u *Uploader) Run() (*Stats, error) {
	var files []string
	for _, pattern := range []string{"*.json", "*.csv"} {
		matches, err := filepath.Glob(filepath.Join(u.dir, pattern))
		if err != nil {
			return &u.stats, fmt.Errorf("listing recordings in %s: %w", u.dir, err)
		}
		files = append(files, matches...)
	}
	sort.Strings(files)

	for _, f := range files {
		u.stats.FilesTotal++
		if err := u.processFile(f); err != nil {
			u.log.Warn("upload failed", "file", f, "error", err)
			u.stats.FilesErrored++
		}
	}

	return &u.stats, nil
}

// processFile submits one recording unless the state DB says it was already
// analyzed with the same size and hash.
func (u *Uploader) processFile(path string) error {
	relPath, _ := filepath.Rel(u.dir, path)

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat: %w", err)
	}

	hash, err := HashFile(path)
	if err != nil {
		return fmt.Errorf("hash: %w", err)
	}

	processed, err := u.state.IsProcessed(relPath, info.Size(), hash)
	if err != nil {
		return fmt.Errorf("state check: %w", err)
	}
	if processed {
		u.stats.FilesSkipped++
		return nil
	}

	recs, err := ReadRecordings(path)
	if err != nil {
		// Mark unusable files so we don't re-parse them every run.
		u.stats.RejectedFiles = append(u.stats.RejectedFiles, relPath)
		if markErr := u.state.MarkProcessed(relPath, info.Size(), hash, ""); markErr != nil {
			u.log.Warn("failed to mark rejected file", "file", relPath, "error", markErr)
		}
		return err
	}

	if u.dryRun {
		u.log.Info("dry-run: would analyze", "file", relPath, "recordings", len(recs))
		u.stats.FilesSkipped++
		return nil
	}

	var lastID string
	for _, rec := range recs {
		id, result, err := u.client.Analyze(rec)
		if err != nil {
			return fmt.Errorf("analyzing: %w", err)
		}
		lastID = id

		if result != nil {
			u.stats.RepsDetected += result.TotalValidReps
			if result.ANTReached {
				u.stats.ANTReachedCount++
			}
		}

		u.log.Info("analyzed recording",
			"file", relPath,
			"movement", rec.MovementType,
			"analysis_id", id,
		)
	}

	if err := u.state.MarkProcessed(relPath, info.Size(), hash, lastID); err != nil {
		u.log.Warn("failed to mark processed", "file", relPath, "error", err)
	}
	u.stats.FilesUploaded++
	return nil
}

// ReadRecordings parses one recording file into its recordings: a native
// *.json file holds exactly one, a *.csv tracker export may hold several
// sessions.
func ReadRecordings(path string) ([]*Recording, error) {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return readTrackerExport(path)
	}
	rec, err := ReadRecording(path)
	if err != nil {
		return nil, err
	}
	return []*Recording{rec}, nil
}

// readTrackerExport converts each session in a tracker CSV export into a
// recording.
func readTrackerExport(path string) ([]*Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening tracker export: %w", err)
	}
	defer f.Close()

	sessions, err := tracker.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing tracker export %s: %w", path, err)
	}
	if len(sessions) == 0 {
		return nil, fmt.Errorf("tracker export %s: no sessions", path)
	}

	recs := make([]*Recording, 0, len(sessions))
	for _, s := range sessions {
		if len(s.Samples) == 0 {
			continue
		}
		recs = append(recs, &Recording{
			MovementType: s.MovementType,
			FPSUsed:      s.FPS,
			Samples:      s.Samples,
		})
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("tracker export %s: no samples", path)
	}
	return recs, nil
}
