package upload

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/meltforce/swingsense/internal/models"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestReadRecordingValid verifies a native recording parses with its samples.
func TestReadRecordingValid(t *testing.T) {
	path := writeFile(t, t.TempDir(), "rec.json", `{
		"movement_type": "snatch_left",
		"fps_used": 20,
		"samples": [
			{"t": 0, "x": 0.5, "y": 0.7, "confidence": 0.9},
			{"t": 0.05, "x": 0.5, "y": 0.65, "confidence": 0.9}
		]
	}`)

	rec, err := ReadRecording(path)
	if err != nil {
		t.Fatal(err)
	}
	if rec.MovementType != models.MovementSnatchLeft {
		t.Errorf("movement = %q, want snatch_left", rec.MovementType)
	}
	if rec.FPSUsed != 20 {
		t.Errorf("fps = %v, want 20", rec.FPSUsed)
	}
	if len(rec.Samples) != 2 {
		t.Errorf("samples = %d, want 2", len(rec.Samples))
	}
}

// TestReadRecordingRejects verifies malformed recordings fail with an error:
// bad JSON, unknown movement, and no data.
func TestReadRecordingRejects(t *testing.T) {
	dir := t.TempDir()
	cases := []struct {
		name, content string
	}{
		{"bad.json", `{not json`},
		{"movement.json", `{"movement_type": "deadlift", "samples": [{"t": 0}]}`},
		{"empty.json", `{"movement_type": "snatch_left"}`},
	}

	for _, tc := range cases {
		path := writeFile(t, dir, tc.name, tc.content)
		if _, err := ReadRecording(path); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

// TestReadRecordingFrames verifies a frames-only recording is accepted.
func TestReadRecordingFrames(t *testing.T) {
	path := writeFile(t, t.TempDir(), "frames.json", `{
		"movement_type": "two_arm_swing",
		"frames": [{"timestamp": 0, "frame_valid": true}]
	}`)

	rec, err := ReadRecording(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(rec.Frames) != 1 {
		t.Errorf("frames = %d, want 1", len(rec.Frames))
	}
}

// TestReadRecordingsCSV verifies a tracker export expands into one recording
// per session.
func TestReadRecordingsCSV(t *testing.T) {
	path := writeFile(t, t.TempDir(), "export.csv",
		`"A";"snatch_left";"2026-02-19 16:54";"15 fps"
0,0;0,5;0,7;0,9
0,1;0,5;0,6;0,9

"B";"two_arm_swing";"2026-02-19 17:10";"30 fps"
0,0;0,5;0,8;0,9
`)

	recs, err := ReadRecordings(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d recordings, want 2", len(recs))
	}
	if recs[0].MovementType != models.MovementSnatchLeft || recs[0].FPSUsed != 15 {
		t.Errorf("first recording = %q at %v fps", recs[0].MovementType, recs[0].FPSUsed)
	}
	if len(recs[0].Samples) != 2 {
		t.Errorf("first recording samples = %d, want 2", len(recs[0].Samples))
	}
	if recs[1].MovementType != models.MovementTwoArmSwing {
		t.Errorf("second recording = %q, want two_arm_swing", recs[1].MovementType)
	}
}

// TestReadRecordingsEmptyCSV verifies an export without sessions is an error.
func TestReadRecordingsEmptyCSV(t *testing.T) {
	path := writeFile(t, t.TempDir(), "empty.csv", "just a note\n")
	if _, err := ReadRecordings(path); err == nil {
		t.Fatal("expected error for export without sessions")
	}
}
