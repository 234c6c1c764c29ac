// Package reps segments a wrist position track into kettlebell repetitions.
//
// A rep is the span between two consecutive "top" positions (local minima of
// the image-space y coordinate). Each candidate rep is validated against
// kinematic criteria: duration bounds, minimum vertical travel for the
// movement type, and an arc-smoothness check that rejects jittery non-arc
// motion.
package reps

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/meltforce/swingsense/internal/models"
)

const (
	// maxRepDuration bounds how long a single swing or snatch can take.
	maxRepDuration = 4.0
	// minRepDuration rejects spans too quick to be a real rep.
	minRepDuration = 0.4

	// velocitySmoothingWindow is the moving-average window applied to the
	// position signal and to per-rep velocity series.
	velocitySmoothingWindow = 3

	// minSamplesBetweenPeaks is the minimum index distance between two
	// accepted peaks. Also sets the overall minimum input length (two
	// peak-to-peak spans).
	minSamplesBetweenPeaks = 5

	// minDT floors non-positive time deltas so velocity never divides by zero.
	minDT = 0.001
)

// Detector finds repetitions in a time-ordered position sample sequence.
// It is stateless: DetectReps is a pure function of its input and the
// configuration, so one Detector may be reused across independent inputs.
type Detector struct {
	movementType    models.MovementType
	minConfidence   float64
	minDisplacement float64
}

// NewDetector creates a Detector for the given movement. minConfidence is the
// lowest position confidence a sample may have and still be used; pass 0 to
// use the default of 0.5.
func NewDetector(movementType models.MovementType, minConfidence float64) *Detector {
	if minConfidence <= 0 {
		minConfidence = 0.5
	}
	return &Detector{
		movementType:    movementType,
		minConfidence:   minConfidence,
		minDisplacement: movementType.MinDisplacement(),
	}
}

// DetectReps segments samples into candidate reps. Input too short to hold
// two reps yields an empty result, never an error. Returned reps are ordered
// by start index and do not overlap; indices refer to the confidence-filtered
// sample array.
func (d *Detector) DetectReps(samples []models.PositionSample) []models.DetectedRep {
	if len(samples) < minSamplesBetweenPeaks*2 {
		return nil
	}

	// Drop low-confidence samples before any signal work.
	filtered := make([]models.PositionSample, 0, len(samples))
	for _, s := range samples {
		if s.Confidence >= d.minConfidence {
			filtered = append(filtered, s)
		}
	}
	if len(filtered) < minSamplesBetweenPeaks*2 {
		return nil
	}

	times := make([]float64, len(filtered))
	yRaw := make([]float64, len(filtered))
	for i, s := range filtered {
		times[i] = s.T
		yRaw[i] = s.Y
	}

	ySmooth := smoothPadded(yRaw, velocitySmoothingWindow)

	// The top of a swing or snatch is the lowest y value in image space, so
	// peaks are found on the negated smoothed signal.
	negY := make([]float64, len(ySmooth))
	for i, v := range ySmooth {
		negY[i] = -v
	}
	peaks := findPeaks(negY, minSamplesBetweenPeaks)

	// Valleys (backswing bottoms) are only consulted as an early-exit guard;
	// segmentation runs purely peak-to-peak.
	valleys := findPeaks(ySmooth, minSamplesBetweenPeaks)

	if len(peaks) < 2 && len(valleys) < 2 {
		return nil
	}

	return d.segment(times, yRaw, peaks)
}

// segment turns consecutive peak pairs into candidate reps.
func (d *Detector) segment(times, yRaw []float64, peaks []int) []models.DetectedRep {
	var out []models.DetectedRep
	for i := 0; i+1 < len(peaks); i++ {
		startIdx := peaks[i]
		endIdx := peaks[i+1]

		segment := yRaw[startIdx : endIdx+1]
		if len(segment) < 2 {
			continue
		}

		startTime := times[startIdx]
		endTime := times[endIdx]
		duration := endTime - startTime

		// Displacement comes from the unsmoothed signal so the true
		// amplitude is preserved.
		displacement := floats.Max(segment) - floats.Min(segment)

		peakSpeed := peakSpeed(times[startIdx:endIdx+1], segment)

		out = append(out, models.DetectedRep{
			StartIdx:             startIdx,
			EndIdx:               endIdx,
			StartTime:            startTime,
			EndTime:              endTime,
			Duration:             duration,
			PeakSpeed:            peakSpeed,
			VerticalDisplacement: displacement,
			IsValid:              d.validate(duration, displacement, segment),
		})
	}
	return out
}

// peakSpeed returns the maximum smoothed absolute vertical velocity within a
// rep span, in normalized units per second.
func peakSpeed(times, y []float64) float64 {
	if len(times) < 2 {
		return 0
	}

	vels := make([]float64, len(times)-1)
	for i := range vels {
		dt := times[i+1] - times[i]
		if dt <= 0 {
			dt = minDT
		}
		vels[i] = math.Abs((y[i+1] - y[i]) / dt)
	}

	if len(vels) >= velocitySmoothingWindow {
		vels = smoothPadded(vels, velocitySmoothingWindow)
	}
	return floats.Max(vels)
}

// validate applies the kinematic criteria to one candidate rep.
func (d *Detector) validate(duration, displacement float64, segment []float64) bool {
	if duration < minRepDuration || duration > maxRepDuration {
		return false
	}
	if displacement < d.minDisplacement {
		return false
	}

	// Arc smoothness: a clean swing/snatch arc produces a handful of
	// derivative sign changes; jitter produces many. Spans too short to
	// judge pass by default.
	if len(segment) < 5 {
		return true
	}

	dy := make([]float64, len(segment)-1)
	for i := range dy {
		dy[i] = segment[i+1] - segment[i]
	}
	if len(dy) >= velocitySmoothingWindow {
		dy = smoothPadded(dy, velocitySmoothingWindow)
	}

	limit := len(segment) / 3
	if limit < 8 {
		limit = 8
	}
	return signChanges(dy) <= limit
}

// signChanges counts transitions in the sign of v, treating zero as its own
// sign state.
func signChanges(v []float64) int {
	sign := func(x float64) int {
		switch {
		case x > 0:
			return 1
		case x < 0:
			return -1
		default:
			return 0
		}
	}

	changes := 0
	for i := 1; i < len(v); i++ {
		if sign(v[i]) != sign(v[i-1]) {
			changes++
		}
	}
	return changes
}

// findPeaks locates local maxima at least minDistance samples apart, scanning
// greedily. When a higher peak appears inside the exclusion distance of the
// previously accepted one, it replaces it, so of two close peaks the higher
// wins.
func findPeaks(signal []float64, minDistance int) []int {
	var peaks []int
	for i := 1; i+1 < len(signal); i++ {
		if signal[i] <= signal[i-1] || signal[i] <= signal[i+1] {
			continue
		}
		if len(peaks) == 0 || i-peaks[len(peaks)-1] >= minDistance {
			peaks = append(peaks, i)
		} else if signal[i] > signal[peaks[len(peaks)-1]] {
			peaks[len(peaks)-1] = i
		}
	}
	return peaks
}

// smoothPadded applies a centered moving average with edge-replicated
// padding, so the output has the same length as the input and edge values
// lean on their nearest neighbors. Distinct from the trimmed-average
// smoothing the threshold calculator uses on per-rep speeds.
func smoothPadded(signal []float64, window int) []float64 {
	if window <= 1 || len(signal) < window {
		return signal
	}

	left := window / 2
	right := window - 1 - left

	out := make([]float64, len(signal))
	for i := range signal {
		sum := 0.0
		for k := -left; k <= right; k++ {
			j := i + k
			if j < 0 {
				j = 0
			} else if j >= len(signal) {
				j = len(signal) - 1
			}
			sum += signal[j]
		}
		out[i] = sum / float64(window)
	}
	return out
}
