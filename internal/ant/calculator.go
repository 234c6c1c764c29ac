// Package ant finds the anaerobic threshold in a sequence of detected reps:
// the first rep of a sustained, fatigue-driven drop in rep speed below a
// fraction of the athlete's baseline.
package ant

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/meltforce/swingsense/internal/models"
)

// Config controls how the threshold is established and confirmed.
type Config struct {
	// BaselineReps is how many initial valid reps form the fatigue-free
	// baseline. Minimum 3 for a meaningful mean.
	BaselineReps int
	// DropThreshold is the fractional drop from baseline that marks a rep
	// as slow, e.g. 0.20 for a 20% drop. Must be in (0, 1).
	DropThreshold float64
	// SmoothingWindow is the moving-average window applied to the per-rep
	// speed series before thresholding.
	SmoothingWindow int
	// SustainCount is how many consecutive below-threshold reps confirm the
	// drop as fatigue rather than rep-to-rep noise.
	SustainCount int
}

// DefaultConfig matches the tuning used for uploaded-video analysis.
func DefaultConfig() Config {
	return Config{
		BaselineReps:    5,
		DropThreshold:   0.20,
		SmoothingWindow: 3,
		SustainCount:    2,
	}
}

// Calculator computes ANT results from detected reps. Calculate is a pure
// function of its input and the configuration.
type Calculator struct {
	cfg Config
}

// NewCalculator validates the configuration and returns a Calculator.
// Invalid configuration is a construction-time error, distinct from the
// "insufficient data" results Calculate can return.
func NewCalculator(cfg Config) (*Calculator, error) {
	if cfg.BaselineReps < 3 {
		return nil, fmt.Errorf("baseline_reps must be at least 3, got %d", cfg.BaselineReps)
	}
	if cfg.DropThreshold <= 0 || cfg.DropThreshold >= 1 {
		return nil, fmt.Errorf("drop_threshold must be between 0 and 1, got %g", cfg.DropThreshold)
	}
	if cfg.SmoothingWindow < 1 {
		return nil, fmt.Errorf("smoothing_window must be at least 1, got %d", cfg.SmoothingWindow)
	}
	if cfg.SustainCount < 1 {
		return nil, fmt.Errorf("sustain_count must be at least 1, got %d", cfg.SustainCount)
	}
	return &Calculator{cfg: cfg}, nil
}

// Calculate evaluates the rep sequence for a sustained speed drop. Only valid
// reps participate, in their original order. Too few valid reps yields the
// insufficient-data result (ANTReached false, zero baseline, empty slices) —
// a normal outcome, not an error.
func (c *Calculator) Calculate(reps []models.DetectedRep) models.ANTResult {
	var valid []models.DetectedRep
	for _, r := range reps {
		if r.IsValid {
			valid = append(valid, r)
		}
	}

	if len(valid) < c.cfg.BaselineReps+c.cfg.SustainCount {
		return models.ANTResult{
			SmoothedSpeeds: []float64{},
			ThresholdFlags: []bool{},
		}
	}

	speeds := make([]float64, len(valid))
	for i, r := range valid {
		speeds[i] = r.PeakSpeed
	}

	baseline := stat.Mean(speeds[:c.cfg.BaselineReps], nil)
	if baseline <= 0 {
		// Degenerate input: report the raw series with no flags set rather
		// than dividing by a non-positive baseline.
		return models.ANTResult{
			SmoothedSpeeds: speeds,
			ThresholdFlags: make([]bool, len(speeds)),
		}
	}

	smoothed := smoothTrimmed(speeds, c.cfg.SmoothingWindow)

	thresholdSpeed := baseline * (1 - c.cfg.DropThreshold)
	flags := make([]bool, len(smoothed))
	for i, v := range smoothed {
		flags[i] = v < thresholdSpeed
	}

	result := models.ANTResult{
		BaselineSpeed:  baseline,
		SmoothedSpeeds: smoothed,
		ThresholdFlags: flags,
	}

	idx, found := firstSustainedRun(flags, c.cfg.SustainCount)
	if found {
		ts := valid[idx].StartTime
		drop := (baseline - smoothed[idx]) / baseline
		result.ANTReached = true
		result.ANTRepIndex = &idx
		result.ANTTimestampSeconds = &ts
		result.DropPercentAtANT = &drop
	}
	return result
}

// smoothTrimmed applies a centered moving average using only the samples
// actually available near each edge (asymmetric window, no padding). The rep
// segmenter deliberately uses a different, edge-padded policy on position
// signals; per-rep speeds are already aggregates and get the gentler trim.
func smoothTrimmed(data []float64, window int) []float64 {
	if window <= 1 || len(data) < window {
		out := make([]float64, len(data))
		copy(out, data)
		return out
	}

	half := window / 2
	out := make([]float64, len(data))
	for i := range data {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half + 1
		if hi > len(data) {
			hi = len(data)
		}
		out[i] = stat.Mean(data[lo:hi], nil)
	}
	return out
}

// firstSustainedRun returns the index where the first run of at least
// sustainCount consecutive true flags begins.
func firstSustainedRun(flags []bool, sustainCount int) (int, bool) {
	consecutive := 0
	for i, below := range flags {
		if !below {
			consecutive = 0
			continue
		}
		consecutive++
		if consecutive >= sustainCount {
			return i - sustainCount + 1, true
		}
	}
	return 0, false
}
