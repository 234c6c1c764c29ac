package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/meltforce/swingsense/internal/models"
	"github.com/meltforce/swingsense/internal/pose"
)

// AnalyzeRequest is the batch-analysis payload. Callers send either an
// already-synthesized sample track or raw frame observations; when both are
// present the samples win.
type AnalyzeRequest struct {
	MovementType string                  `json:"movement_type"`
	FPSUsed      float64                 `json:"fps_used,omitempty"`
	Samples      []models.PositionSample `json:"samples,omitempty"`
	Frames       []models.FramePose      `json:"frames,omitempty"`
}

// AnalyzeVideoRequest asks the server to fetch poses for a video via the
// pose sidecar and analyze them.
type AnalyzeVideoRequest struct {
	MovementType string `json:"movement_type"`
	VideoURL     string `json:"video_url"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "ok",
		"live_sessions": s.sessions.Len(),
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	movementType, err := models.ParseMovementType(req.MovementType)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	samples := req.Samples
	if len(samples) == 0 && len(req.Frames) > 0 {
		samples = pose.SynthesizeTrack(req.Frames, movementType)
	}
	if len(samples) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "samples or frames required"})
		return
	}

	fpsUsed := req.FPSUsed
	if fpsUsed == 0 {
		fpsUsed = s.fpsUsed
	}

	result, err := s.pipeline.AnalyzeSamples(movementType, samples, fpsUsed)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	s.finishAnalysis(w, r, result)
}

func (s *Server) handleAnalyzeVideo(w http.ResponseWriter, r *http.Request) {
	if s.pose == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no pose service configured"})
		return
	}

	var req AnalyzeVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	movementType, err := models.ParseMovementType(req.MovementType)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if req.VideoURL == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "video_url required"})
		return
	}

	extraction, err := s.pose.ExtractPoses(r.Context(), req.VideoURL, s.fpsUsed)
	if err != nil {
		s.log.Error("pose extraction failed", "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}

	if extraction.VideoDurationSeconds < s.gates.MinVideoSeconds {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "video too short"})
		return
	}

	result, err := s.pipeline.AnalyzeExtraction(movementType, extraction)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	s.finishAnalysis(w, r, result)
}

// finishAnalysis applies the input-quality gates the core deliberately leaves
// to its caller, persists passing analyses, and writes the response.
func (s *Server) finishAnalysis(w http.ResponseWriter, r *http.Request, result *models.AnalysisResult) {
	if result.TotalValidReps < s.gates.MinValidReps {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":            "too few valid reps for a reliable analysis",
			"total_valid_reps": result.TotalValidReps,
			"min_valid_reps":   s.gates.MinValidReps,
		})
		return
	}

	row := models.AnalysisRow{
		ID:           uuid.New(),
		CreatedAt:    time.Now().UTC(),
		MovementType: result.MovementType,
		Result:       *result,
	}
	if err := s.db.InsertAnalysis(r.Context(), row); err != nil {
		s.log.Error("failed to persist analysis", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":     row.ID,
		"result": row.Result,
	})
}

func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	rows, err := s.db.QueryAnalyses(r.Context(), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}

	row, err := s.db.GetAnalysis(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "analysis not found"})
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (s *Server) handleGetRepMetrics(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}

	metrics, err := s.db.QueryRepMetrics(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, metrics)
}

func (s *Server) handleGetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.db.GetANTSummary(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// pathUUID parses the {id} URL parameter, writing a 400 on failure.
func pathUUID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid ID"})
		return uuid.UUID{}, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
