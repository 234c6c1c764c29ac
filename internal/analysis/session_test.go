package analysis

import (
	"testing"

	"github.com/google/uuid"

	"github.com/meltforce/swingsense/internal/ant"
	"github.com/meltforce/swingsense/internal/models"
)

func testSession(t *testing.T, movement models.MovementType) *Session {
	t.Helper()
	s, err := NewSession(movement, 60, 0.5, ant.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	return s
}

// TestNewSessionValidation verifies both the movement type and the ANT
// configuration are checked at creation.
func TestNewSessionValidation(t *testing.T) {
	if _, err := NewSession("deadlift", 10, 0.5, ant.DefaultConfig()); err == nil {
		t.Error("expected error for unknown movement type")
	}
	if _, err := NewSession(models.MovementSnatchLeft, 10, 0.5, ant.Config{BaselineReps: 1}); err == nil {
		t.Error("expected error for bad ANT config")
	}
}

// TestSessionAccumulates verifies chunked feeding accumulates reps and
// sample counts across calls.
func TestSessionAccumulates(t *testing.T) {
	s := testSession(t, models.MovementSnatchLeft)
	samples := sineTrack(20, 2.0, 0.3, 20)

	var totalNew int
	for i := 0; i < len(samples); i += 50 {
		end := i + 50
		if end > len(samples) {
			end = len(samples)
		}
		update := s.AddSamples(samples[i:end])
		totalNew += len(update.NewReps)

		if update.TotalReps != totalNew {
			t.Fatalf("total reps = %d, want %d", update.TotalReps, totalNew)
		}
	}

	if totalNew != 9 {
		t.Errorf("accumulated %d reps, want 9", totalNew)
	}
	if s.SamplesSeen() != len(samples) {
		t.Errorf("samples seen = %d, want %d", s.SamplesSeen(), len(samples))
	}
	if got := len(s.AllReps()); got != 9 {
		t.Errorf("AllReps = %d, want 9", got)
	}
}

// TestSessionANTResultAppearsWithReps verifies the update carries no ANT
// result until the first rep is detected, and carries one afterward.
func TestSessionANTResultAppearsWithReps(t *testing.T) {
	s := testSession(t, models.MovementSnatchLeft)
	samples := sineTrack(20, 2.0, 0.3, 20)

	// First few samples: no rep yet, so no ANT result.
	update := s.AddSamples(samples[:20])
	if len(update.NewReps) != 0 {
		t.Fatalf("got %d reps from 1 second of samples", len(update.NewReps))
	}
	if update.ANTResult != nil {
		t.Error("ANT result present before any rep")
	}

	update = s.AddSamples(samples[20:])
	if len(update.NewReps) == 0 {
		t.Fatal("no reps from the rest of the track")
	}
	if update.ANTResult == nil {
		t.Fatal("no ANT result after reps were detected")
	}
	if update.ANTResult.ANTReached {
		t.Error("ANTReached on a steady track")
	}
}

// TestSessionReset verifies Reset clears the stream state but keeps identity.
func TestSessionReset(t *testing.T) {
	s := testSession(t, models.MovementTwoArmSwing)
	id := s.ID

	s.AddSamples(sineTrack(20, 2.0, 0.3, 20))
	if len(s.AllReps()) == 0 {
		t.Fatal("no reps before reset")
	}

	s.Reset()
	if s.ID != id {
		t.Error("reset changed the session ID")
	}
	if s.SamplesSeen() != 0 {
		t.Errorf("samples seen after reset = %d, want 0", s.SamplesSeen())
	}
	if len(s.AllReps()) != 0 {
		t.Errorf("reps after reset = %d, want 0", len(s.AllReps()))
	}
	if snap := s.Snapshot(); snap.ANTResult != nil || snap.TotalReps != 0 {
		t.Errorf("snapshot after reset = %+v, want empty", snap)
	}
}

// TestRegistry verifies add, lookup, remove, and length tracking.
func TestRegistry(t *testing.T) {
	r := NewRegistry()
	if r.Len() != 0 {
		t.Fatalf("new registry len = %d", r.Len())
	}

	s := testSession(t, models.MovementSwingLeft)
	r.Add(s)

	got, ok := r.Get(s.ID)
	if !ok || got != s {
		t.Fatal("registered session not found")
	}
	if r.Len() != 1 {
		t.Errorf("len = %d, want 1", r.Len())
	}

	if _, ok := r.Get(uuid.New()); ok {
		t.Error("lookup of unknown ID succeeded")
	}
	if r.Remove(uuid.New()) {
		t.Error("removing unknown ID reported true")
	}
	if !r.Remove(s.ID) {
		t.Error("removing registered session reported false")
	}
	if r.Len() != 0 {
		t.Errorf("len after remove = %d, want 0", r.Len())
	}
}
