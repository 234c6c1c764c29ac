package analysis

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/swingsense/internal/ant"
	"github.com/meltforce/swingsense/internal/models"
	"github.com/meltforce/swingsense/internal/reps"
)

// Session is one live analysis stream: a streaming rep segmenter feeding a
// streaming ANT calculator. The underlying detectors are single-writer; the
// session's mutex provides that serialization for HTTP callers.
type Session struct {
	ID           uuid.UUID           `json:"id"`
	MovementType models.MovementType `json:"movement_type"`
	CreatedAt    time.Time           `json:"created_at"`

	mu          sync.Mutex
	segmenter   *reps.StreamingDetector
	calculator  *ant.StreamingCalculator
	samplesSeen int
}

// SessionUpdate is what one batch of streamed samples produced: the reps
// first seen in this batch and the ANT result over all reps so far. ANTResult
// is nil until at least one rep has been detected.
type SessionUpdate struct {
	NewReps   []models.DetectedRep `json:"new_reps"`
	TotalReps int                  `json:"total_reps"`
	ANTResult *models.ANTResult    `json:"ant_result,omitempty"`
}

// NewSession creates a streaming session. bufferSeconds bounds the sample
// window the segmenter keeps; antCfg is validated here so a bad configuration
// fails session creation.
func NewSession(movementType models.MovementType, bufferSeconds, minConfidence float64, antCfg ant.Config) (*Session, error) {
	if !movementType.Valid() {
		return nil, fmt.Errorf("unknown movement type %q", movementType)
	}
	calculator, err := ant.NewStreamingCalculator(antCfg)
	if err != nil {
		return nil, fmt.Errorf("session config: %w", err)
	}
	return &Session{
		ID:           uuid.New(),
		MovementType: movementType,
		CreatedAt:    time.Now().UTC(),
		segmenter:    reps.NewStreamingDetector(movementType, bufferSeconds, minConfidence),
		calculator:   calculator,
	}, nil
}

// AddSamples feeds samples into the session in order and returns the update.
// Newly detected reps are forwarded to the ANT calculator as they appear.
func (s *Session) AddSamples(samples []models.PositionSample) SessionUpdate {
	s.mu.Lock()
	defer s.mu.Unlock()

	var newReps []models.DetectedRep
	for _, sample := range samples {
		s.samplesSeen++
		newReps = append(newReps, s.segmenter.AddSample(sample)...)
	}
	if len(newReps) > 0 {
		s.calculator.AddReps(newReps)
	}

	return SessionUpdate{
		NewReps:   newReps,
		TotalReps: len(s.segmenter.AllReps()),
		ANTResult: s.calculator.CurrentResult(),
	}
}

// Snapshot returns the session's cumulative state without mutating it.
func (s *Session) Snapshot() SessionUpdate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionUpdate{
		TotalReps: len(s.segmenter.AllReps()),
		ANTResult: s.calculator.CurrentResult(),
	}
}

// AllReps returns every rep the session has detected so far.
func (s *Session) AllReps() []models.DetectedRep {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.segmenter.AllReps()
}

// SamplesSeen returns how many samples have been fed in since creation or
// the last Reset.
func (s *Session) SamplesSeen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.samplesSeen
}

// Reset clears the session's buffers and detection history but keeps its
// identity and configuration.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.segmenter.Reset()
	s.calculator.Reset()
	s.samplesSeen = 0
}

// Registry holds live sessions keyed by ID.
type Registry struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

// NewRegistry creates an empty session registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[uuid.UUID]*Session)}
}

// Add registers a session.
func (r *Registry) Add(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s
}

// Get looks up a session by ID.
func (r *Registry) Get(id uuid.UUID) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Remove deletes a session. Returns false if it was not registered.
func (r *Registry) Remove(id uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return false
	}
	delete(r.sessions, id)
	return true
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
