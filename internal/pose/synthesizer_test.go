package pose

import (
	"math"
	"testing"

	"github.com/meltforce/swingsense/internal/models"
)

func frameWithBoth(t float64) models.FramePose {
	return models.FramePose{
		Timestamp:            t,
		LeftWrist:            &models.Point2D{X: 0.4, Y: 0.6},
		RightWrist:           &models.Point2D{X: 0.6, Y: 0.8},
		LeftWristConfidence:  0.9,
		RightWristConfidence: 0.7,
		FrameValid:           true,
	}
}

// TestSynthesizeTwoArmAverages verifies a two-arm movement averages both
// wrists' coordinates and confidences.
func TestSynthesizeTwoArmAverages(t *testing.T) {
	s, ok := SynthesizeSample(frameWithBoth(1.5), models.MovementTwoArmSwing)
	if !ok {
		t.Fatal("no sample emitted")
	}
	if s.T != 1.5 {
		t.Errorf("t = %v, want 1.5", s.T)
	}
	if math.Abs(s.X-0.5) > 1e-12 || math.Abs(s.Y-0.7) > 1e-12 {
		t.Errorf("position = (%v, %v), want (0.5, 0.7)", s.X, s.Y)
	}
	if math.Abs(s.Confidence-0.8) > 1e-12 {
		t.Errorf("confidence = %v, want 0.8", s.Confidence)
	}
}

// TestSynthesizeTwoArmFallback verifies a two-arm movement falls back to the
// single visible wrist.
func TestSynthesizeTwoArmFallback(t *testing.T) {
	frame := frameWithBoth(2)
	frame.RightWrist = nil

	s, ok := SynthesizeSample(frame, models.MovementTwoArmSwing)
	if !ok {
		t.Fatal("no sample emitted")
	}
	if s.X != 0.4 || s.Y != 0.6 || s.Confidence != 0.9 {
		t.Errorf("sample = %+v, want left wrist values", s)
	}

	frame = frameWithBoth(2)
	frame.LeftWrist = nil
	s, ok = SynthesizeSample(frame, models.MovementTwoArmSwing)
	if !ok {
		t.Fatal("no sample emitted")
	}
	if s.X != 0.6 || s.Y != 0.8 || s.Confidence != 0.7 {
		t.Errorf("sample = %+v, want right wrist values", s)
	}
}

// TestSynthesizeSingleArmPolicy verifies single-arm movements only emit their
// configured wrist and ignore the other one entirely.
func TestSynthesizeSingleArmPolicy(t *testing.T) {
	s, ok := SynthesizeSample(frameWithBoth(0), models.MovementSnatchLeft)
	if !ok {
		t.Fatal("no sample emitted")
	}
	if s.X != 0.4 || s.Y != 0.6 {
		t.Errorf("snatch_left tracked (%v, %v), want left wrist (0.4, 0.6)", s.X, s.Y)
	}

	// The configured wrist missing means no sample, even with the other
	// wrist visible.
	frame := frameWithBoth(0)
	frame.LeftWrist = nil
	if _, ok := SynthesizeSample(frame, models.MovementSnatchLeft); ok {
		t.Error("snatch_left emitted a sample without a left wrist")
	}

	s, ok = SynthesizeSample(frameWithBoth(0), models.MovementSwingRight)
	if !ok {
		t.Fatal("no sample emitted")
	}
	if s.X != 0.6 || s.Y != 0.8 {
		t.Errorf("swing_right tracked (%v, %v), want right wrist (0.6, 0.8)", s.X, s.Y)
	}
}

// TestSynthesizeInvalidFrame verifies invalid frames never contribute,
// regardless of wrist presence.
func TestSynthesizeInvalidFrame(t *testing.T) {
	frame := frameWithBoth(0)
	frame.FrameValid = false

	if _, ok := SynthesizeSample(frame, models.MovementTwoArmSwing); ok {
		t.Error("invalid frame emitted a sample")
	}
}

// TestSynthesizeTrackOrderAndGaps verifies the track keeps frame order and
// skips frames that contribute nothing.
func TestSynthesizeTrackOrderAndGaps(t *testing.T) {
	gap := frameWithBoth(1)
	gap.LeftWrist = nil
	gap.RightWrist = nil

	frames := []models.FramePose{frameWithBoth(0), gap, frameWithBoth(2)}
	samples := SynthesizeTrack(frames, models.MovementTwoArmSwing)

	if len(samples) != 2 {
		t.Fatalf("got %d samples, want 2", len(samples))
	}
	if samples[0].T != 0 || samples[1].T != 2 {
		t.Errorf("timestamps = %v, %v, want 0, 2", samples[0].T, samples[1].T)
	}
}
