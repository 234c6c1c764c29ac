package analysis

import (
	"math"
	"testing"

	"github.com/meltforce/swingsense/internal/ant"
	"github.com/meltforce/swingsense/internal/models"
)

// sineTrack builds a synthetic periodic track: y oscillates around 0.5, so
// the top of each cycle (minimum y) repeats once per period.
func sineTrack(durationSec, periodSec, amplitude, fps float64) []models.PositionSample {
	n := int(durationSec * fps)
	samples := make([]models.PositionSample, n)
	for i := range samples {
		t := float64(i) / fps
		samples[i] = models.PositionSample{
			T:          t,
			X:          0.5,
			Y:          0.5 + amplitude*math.Cos(2*math.Pi*t/periodSec),
			Confidence: 0.9,
		}
	}
	return samples
}

func testPipeline(t *testing.T) *Pipeline {
	t.Helper()
	p, err := NewPipeline(ant.DefaultConfig(), 0.5)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

// TestNewPipelineRejectsBadConfig verifies ANT misconfiguration fails at
// construction.
func TestNewPipelineRejectsBadConfig(t *testing.T) {
	if _, err := NewPipeline(ant.Config{BaselineReps: 1, DropThreshold: 0.2, SmoothingWindow: 3, SustainCount: 2}, 0.5); err == nil {
		t.Fatal("expected error for bad ANT config")
	}
}

// TestAnalyzeSamplesCleanTrack verifies a steady 20-second track produces a
// full result: all reps valid, no ANT, diagnostics filled in.
func TestAnalyzeSamplesCleanTrack(t *testing.T) {
	p := testPipeline(t)
	samples := sineTrack(20, 2.0, 0.3, 20)

	result, err := p.AnalyzeSamples(models.MovementSnatchLeft, samples, 20)
	if err != nil {
		t.Fatal(err)
	}

	if result.MovementType != models.MovementSnatchLeft {
		t.Errorf("movement = %q", result.MovementType)
	}
	if result.TotalValidReps != 9 {
		t.Errorf("total valid reps = %d, want 9", result.TotalValidReps)
	}
	if result.ANTReached {
		t.Error("ANTReached = true on a steady track")
	}
	if len(result.RepMetrics) != 9 {
		t.Errorf("rep metrics = %d, want 9", len(result.RepMetrics))
	}
	for i, m := range result.RepMetrics {
		if m.RepIndex != i {
			t.Errorf("rep %d: index = %d", i, m.RepIndex)
		}
		if !m.IsValid {
			t.Errorf("rep %d not valid", i)
		}
		if m.IsBelowThreshold {
			t.Errorf("rep %d flagged below threshold", i)
		}
	}

	d := result.Diagnostics
	if d.FPSUsed != 20 {
		t.Errorf("fps_used = %v, want 20", d.FPSUsed)
	}
	if d.FramesSampled != len(samples) {
		t.Errorf("frames_sampled = %d, want %d", d.FramesSampled, len(samples))
	}
	if d.BaselineRepsUsed != 5 {
		t.Errorf("baseline_reps_used = %d, want 5", d.BaselineRepsUsed)
	}

	wantDuration := samples[len(samples)-1].T
	if result.VideoDurationSeconds != wantDuration {
		t.Errorf("duration = %v, want %v", result.VideoDurationSeconds, wantDuration)
	}
}

// TestAnalyzeSamplesUnknownMovement verifies an invalid movement type is an
// error, not an empty result.
func TestAnalyzeSamplesUnknownMovement(t *testing.T) {
	p := testPipeline(t)
	if _, err := p.AnalyzeSamples("deadlift", sineTrack(10, 2, 0.3, 20), 20); err == nil {
		t.Fatal("expected error for unknown movement type")
	}
}

// TestAnalyzeSamplesEmptyInput verifies no samples still produces a normal
// zero-rep result.
func TestAnalyzeSamplesEmptyInput(t *testing.T) {
	p := testPipeline(t)
	result, err := p.AnalyzeSamples(models.MovementTwoArmSwing, nil, 15)
	if err != nil {
		t.Fatal(err)
	}
	if result.TotalValidReps != 0 {
		t.Errorf("total valid reps = %d, want 0", result.TotalValidReps)
	}
	if result.ANTReached {
		t.Error("ANTReached on empty input")
	}
	if result.VideoDurationSeconds != 0 {
		t.Errorf("duration = %v, want 0", result.VideoDurationSeconds)
	}
}

// TestAnalyzeSamplesCountsInvalidReps verifies the diagnostics separate
// detected-but-invalid reps from valid ones.
func TestAnalyzeSamplesCountsInvalidReps(t *testing.T) {
	p := testPipeline(t)
	// 0.2 displacement: detected but below the snatch floor of 0.25.
	samples := sineTrack(20, 2.0, 0.1, 20)

	result, err := p.AnalyzeSamples(models.MovementSnatchLeft, samples, 20)
	if err != nil {
		t.Fatal(err)
	}
	if result.TotalValidReps != 0 {
		t.Errorf("total valid reps = %d, want 0", result.TotalValidReps)
	}
	if result.Diagnostics.InvalidRepsFiltered != 9 {
		t.Errorf("invalid reps filtered = %d, want 9", result.Diagnostics.InvalidRepsFiltered)
	}
	if len(result.RepMetrics) != 0 {
		t.Errorf("rep metrics = %d, want 0 (only valid reps appear)", len(result.RepMetrics))
	}
}
