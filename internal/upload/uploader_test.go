package upload

import (
	"log/slog"
	"testing"
)

const validRecording = `{
	"movement_type": "snatch_left",
	"fps_used": 20,
	"samples": [{"t": 0, "x": 0.5, "y": 0.7, "confidence": 0.9}]
}`

// TestUploaderDryRun verifies a dry run counts every recording without
// marking anything processed, so a later real run picks them all up.
func TestUploaderDryRun(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", validRecording)
	writeFile(t, dir, "b.json", validRecording)

	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	u := New(nil, state, dir, true, slog.Default())
	stats, err := u.Run()
	if err != nil {
		t.Fatal(err)
	}

	if stats.FilesTotal != 2 {
		t.Errorf("files total = %d, want 2", stats.FilesTotal)
	}
	if stats.FilesSkipped != 2 {
		t.Errorf("files skipped = %d, want 2 (dry run)", stats.FilesSkipped)
	}
	if stats.FilesUploaded != 0 {
		t.Errorf("files uploaded = %d, want 0", stats.FilesUploaded)
	}

	if processed, _ := state.IsProcessed("a.json", 0, ""); processed {
		t.Error("dry run marked a file processed")
	}
}

// TestUploaderRejectsUnparseable verifies a broken recording is counted as
// errored and marked so later runs skip it.
func TestUploaderRejectsUnparseable(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.json", `{not json`)

	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	u := New(nil, state, dir, true, slog.Default())
	stats, err := u.Run()
	if err != nil {
		t.Fatal(err)
	}

	if stats.FilesErrored != 1 {
		t.Errorf("files errored = %d, want 1", stats.FilesErrored)
	}
	if len(stats.RejectedFiles) != 1 || stats.RejectedFiles[0] != "broken.json" {
		t.Errorf("rejected files = %v, want [broken.json]", stats.RejectedFiles)
	}

	// A second run skips the marked file entirely.
	u2 := New(nil, state, dir, true, slog.Default())
	stats2, err := u2.Run()
	if err != nil {
		t.Fatal(err)
	}
	if stats2.FilesSkipped != 1 || stats2.FilesErrored != 0 {
		t.Errorf("second run: skipped = %d, errored = %d, want 1 and 0", stats2.FilesSkipped, stats2.FilesErrored)
	}
}
