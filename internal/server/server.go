// Package server exposes the pipeline over HTTP: job submission, job
// inspection, artifact download, and a WebSocket event stream.
package server

import (
	"fmt"
	"net/http"

	"github.com/ChakriOriginals/MathVizAI/internal/config"
	"github.com/ChakriOriginals/MathVizAI/internal/pipeline"
)

// Server serves the job API.
type Server struct {
	cfg          *config.Config
	orchestrator *pipeline.Orchestrator
	jobs         *JobManager
	mux          *http.ServeMux
	wsHub        *WSHub
}

// New creates a server around an orchestrator.
func New(cfg *config.Config, orch *pipeline.Orchestrator) *Server {
	s := &Server{
		cfg:          cfg,
		orchestrator: orch,
		jobs:         NewJobManager(orch.Events()),
		mux:          http.NewServeMux(),
		wsHub:        NewWSHub(orch.Events()),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/api/generate", s.handleGenerate)
	s.mux.HandleFunc("/api/generate-from-document", s.handleGenerateFromDocument)
	s.mux.HandleFunc("/api/jobs", s.handleListJobs)
	s.mux.HandleFunc("/api/jobs/", s.handleGetJob)
	s.mux.HandleFunc("/api/download/", s.handleDownload)
	s.mux.HandleFunc("/api/health", s.handleHealth)

	// WebSocket
	s.mux.HandleFunc("/ws/events", s.wsHub.HandleWebSocket)
}

// Start begins serving HTTP on the configured port.
func (s *Server) Start() error {
	go s.wsHub.Run()
	addr := fmt.Sprintf(":%d", s.cfg.Server.Port)
	return http.ListenAndServe(addr, corsMiddleware(s.mux))
}

// Handler returns the route tree wrapped in middleware, for tests.
func (s *Server) Handler() http.Handler {
	return corsMiddleware(s.mux)
}

// corsMiddleware adds CORS headers for development.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
