package ant

import "github.com/meltforce/swingsense/internal/models"

// StreamingCalculator recomputes the ANT over the full accumulated rep log on
// every addition. Recomputation keeps the result identical to a batch run
// over the same reps. Not safe for concurrent use; callers serialize access.
type StreamingCalculator struct {
	calc       *Calculator
	reps       []models.DetectedRep
	lastResult *models.ANTResult
}

// NewStreamingCalculator wraps a validated Calculator configuration.
func NewStreamingCalculator(cfg Config) (*StreamingCalculator, error) {
	calc, err := NewCalculator(cfg)
	if err != nil {
		return nil, err
	}
	return &StreamingCalculator{calc: calc}, nil
}

// AddRep appends one rep and returns the recomputed result.
func (sc *StreamingCalculator) AddRep(rep models.DetectedRep) models.ANTResult {
	sc.reps = append(sc.reps, rep)
	return sc.recompute()
}

// AddReps appends several reps at once and returns the recomputed result.
func (sc *StreamingCalculator) AddReps(reps []models.DetectedRep) models.ANTResult {
	sc.reps = append(sc.reps, reps...)
	return sc.recompute()
}

// CurrentResult returns the most recent result, or nil if no rep has been
// added since construction or the last Reset.
func (sc *StreamingCalculator) CurrentResult() *models.ANTResult {
	return sc.lastResult
}

func (sc *StreamingCalculator) recompute() models.ANTResult {
	result := sc.calc.Calculate(sc.reps)
	sc.lastResult = &result
	return result
}

// Reset clears the rep log and the cached result.
func (sc *StreamingCalculator) Reset() {
	sc.reps = nil
	sc.lastResult = nil
}
