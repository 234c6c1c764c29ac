package reps

import "github.com/meltforce/swingsense/internal/models"

// repKey identifies a rep by its time span. Buffer eviction shifts sample
// indices, so time spans are the only stable identity for dedup.
type repKey struct {
	start, end float64
}

// StreamingDetector incrementally detects reps from a live sample feed. It
// keeps a bounded time window of samples, re-runs the full detector on every
// update, and reports each rep exactly once. Instances are not safe for
// concurrent use; callers serialize access.
type StreamingDetector struct {
	detector      *Detector
	bufferSeconds float64

	// buffer holds the current window; start is the index of the oldest
	// live sample, advanced on eviction so dropping old samples is O(1)
	// amortized. The slice is compacted once the dead prefix dominates.
	buffer []models.PositionSample
	start  int

	seen    map[repKey]struct{}
	allReps []models.DetectedRep
}

// NewStreamingDetector creates a streaming detector keeping bufferSeconds of
// samples. Pass 0 to use the default 10-second window.
func NewStreamingDetector(movementType models.MovementType, bufferSeconds, minConfidence float64) *StreamingDetector {
	if bufferSeconds <= 0 {
		bufferSeconds = 10
	}
	return &StreamingDetector{
		detector:      NewDetector(movementType, minConfidence),
		bufferSeconds: bufferSeconds,
		seen:          make(map[repKey]struct{}),
	}
}

// AddSample appends one sample, evicts samples that fell out of the time
// window, re-runs detection over the window, and returns only reps not
// reported before. Identical window contents always produce identical
// results, so the recomputation is idempotent.
func (sd *StreamingDetector) AddSample(sample models.PositionSample) []models.DetectedRep {
	sd.buffer = append(sd.buffer, sample)

	cutoff := sample.T - sd.bufferSeconds
	for sd.start < len(sd.buffer) && sd.buffer[sd.start].T < cutoff {
		sd.start++
	}
	if sd.start > len(sd.buffer)/2 {
		sd.buffer = append(sd.buffer[:0:0], sd.buffer[sd.start:]...)
		sd.start = 0
	}

	window := sd.buffer[sd.start:]
	detected := sd.detector.DetectReps(window)

	var newReps []models.DetectedRep
	for _, rep := range detected {
		key := repKey{start: rep.StartTime, end: rep.EndTime}
		if _, ok := sd.seen[key]; ok {
			continue
		}
		sd.seen[key] = struct{}{}
		sd.allReps = append(sd.allReps, rep)
		newReps = append(newReps, rep)
	}
	return newReps
}

// AllReps returns a copy of every rep reported so far.
func (sd *StreamingDetector) AllReps() []models.DetectedRep {
	out := make([]models.DetectedRep, len(sd.allReps))
	copy(out, sd.allReps)
	return out
}

// Reset clears the buffer and all detection history.
func (sd *StreamingDetector) Reset() {
	sd.buffer = nil
	sd.start = 0
	sd.seen = make(map[repKey]struct{})
	sd.allReps = nil
}
