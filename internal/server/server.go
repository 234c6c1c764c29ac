package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"tailscale.com/client/tailscale"

	"github.com/meltforce/swingsense/internal/analysis"
	"github.com/meltforce/swingsense/internal/ant"
	"github.com/meltforce/swingsense/internal/config"
	"github.com/meltforce/swingsense/internal/pose"
	"github.com/meltforce/swingsense/internal/storage"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db       *storage.DB
	pipeline *analysis.Pipeline
	sessions *analysis.Registry
	pose     *pose.Client
	antCfg   ant.Config
	gates    config.AnalysisConfig
	fpsUsed  float64
	apiKey   string
	log      *slog.Logger
	router   chi.Router
	lc       *tailscale.LocalClient
}

// New creates a new Server with all routes configured. poseClient may be nil
// when no pose sidecar is deployed; the video-analysis endpoint then reports
// itself unavailable.
func New(db *storage.DB, pipeline *analysis.Pipeline, poseClient *pose.Client, cfg *config.Config, log *slog.Logger) *Server {
	s := &Server{
		db:       db,
		pipeline: pipeline,
		sessions: analysis.NewRegistry(),
		pose:     poseClient,
		antCfg: ant.Config{
			BaselineReps:    cfg.Analysis.BaselineReps,
			DropThreshold:   cfg.Analysis.DropThreshold,
			SmoothingWindow: cfg.Analysis.SmoothingWindow,
			SustainCount:    cfg.Analysis.SustainCount,
		},
		gates:   cfg.Analysis,
		fpsUsed: cfg.Pose.TargetFPS,
		apiKey:  cfg.Auth.APIKey,
		log:     log,
		router:  chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// SetTailscale enables whois-based identity resolution when serving over tsnet.
func (s *Server) SetTailscale(lc *tailscale.LocalClient) {
	s.lc = lc
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Get("/api/v1/healthz", s.handleHealthz)
	s.router.Get("/api/v1/me", s.handleMe)

	// Analysis endpoints (API key required — these do real work)
	s.router.Route("/api/v1/analyze", func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/", s.handleAnalyze)
		r.Post("/video", s.handleAnalyzeVideo)
	})

	// Streaming sessions (API key required)
	s.router.Route("/api/v1/sessions", func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/", s.handleCreateSession)
		r.Get("/{id}", s.handleGetSession)
		r.Post("/{id}/samples", s.handleSessionSamples)
		r.Post("/{id}/reset", s.handleResetSession)
		r.Delete("/{id}", s.handleDeleteSession)
	})

	// Read endpoints (no auth — tsnet handles access)
	s.router.Get("/api/v1/analyses", s.handleListAnalyses)
	s.router.Get("/api/v1/analyses/{id}", s.handleGetAnalysis)
	s.router.Get("/api/v1/analyses/{id}/reps", s.handleGetRepMetrics)
	s.router.Get("/api/v1/summary", s.handleGetSummary)
}
