package server

import (
	"encoding/json"
	"net/http"

	"github.com/meltforce/swingsense/internal/analysis"
	"github.com/meltforce/swingsense/internal/models"
)

// CreateSessionRequest opens a streaming analysis session.
type CreateSessionRequest struct {
	MovementType  string  `json:"movement_type"`
	BufferSeconds float64 `json:"buffer_seconds,omitempty"`
}

// SessionSamplesRequest feeds samples into a session. Samples must arrive in
// timestamp order; the core assumes a monotonic feed.
type SessionSamplesRequest struct {
	Samples []models.PositionSample `json:"samples"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	movementType, err := models.ParseMovementType(req.MovementType)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	bufferSeconds := req.BufferSeconds
	if bufferSeconds == 0 {
		bufferSeconds = s.gates.BufferSeconds
	}

	session, err := analysis.NewSession(movementType, bufferSeconds, s.gates.MinConfidence, s.antCfg)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	s.sessions.Add(session)

	s.log.Info("session created", "id", session.ID, "movement", movementType)
	writeJSON(w, http.StatusCreated, session)
}

func (s *Server) handleSessionSamples(w http.ResponseWriter, r *http.Request) {
	session, ok := s.lookupSession(w, r)
	if !ok {
		return
	}

	var req SessionSamplesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if len(req.Samples) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "samples required"})
		return
	}

	writeJSON(w, http.StatusOK, session.AddSamples(req.Samples))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := s.lookupSession(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":            session.ID,
		"movement_type": session.MovementType,
		"created_at":    session.CreatedAt,
		"samples_seen":  session.SamplesSeen(),
		"reps":          session.AllReps(),
		"state":         session.Snapshot(),
	})
}

func (s *Server) handleResetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := s.lookupSession(w, r)
	if !ok {
		return
	}

	session.Reset()
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}

	if !s.sessions.Remove(id) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// lookupSession resolves the {id} parameter to a live session, writing the
// appropriate error response when it cannot.
func (s *Server) lookupSession(w http.ResponseWriter, r *http.Request) (*analysis.Session, bool) {
	id, ok := pathUUID(w, r)
	if !ok {
		return nil, false
	}
	session, found := s.sessions.Get(id)
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return nil, false
	}
	return session, true
}
