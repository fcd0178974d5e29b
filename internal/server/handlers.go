package server

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/ChakriOriginals/MathVizAI/internal/extract"
)

// maxUploadBytes caps document uploads.
const maxUploadBytes = 20 << 20

// handleGenerate runs the pipeline for a topic or raw text, synchronously.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		TopicOrText string `json:"topic_or_text"`
		Difficulty  string `json:"difficulty_level"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.TopicOrText) == "" {
		http.Error(w, "topic_or_text is required", http.StatusBadRequest)
		return
	}
	if !validDifficulty(req.Difficulty) {
		http.Error(w, "difficulty_level must be high_school or undergraduate", http.StatusBadRequest)
		return
	}

	s.runJob(w, r, SourceTopic, req.TopicOrText, req.Difficulty)
}

// handleGenerateFromDocument extracts text from an uploaded document and
// runs the pipeline on it.
func (s *Server) handleGenerateFromDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "read upload: "+err.Error(), http.StatusBadRequest)
		return
	}
	log.Printf("server: document upload %q (%d bytes)", header.Filename, len(data))

	text, err := extract.Document(data, s.cfg.Pipeline.MaxInputPages)
	if err != nil {
		if errors.Is(err, extract.ErrEmptyDocument) {
			writeJSONStatus(w, http.StatusUnprocessableEntity, map[string]string{
				"error": "no extractable text in document",
			})
			return
		}
		http.Error(w, "extract document: "+err.Error(), http.StatusBadRequest)
		return
	}

	difficulty := r.FormValue("difficulty_level")
	if !validDifficulty(difficulty) {
		http.Error(w, "difficulty_level must be high_school or undergraduate", http.StatusBadRequest)
		return
	}

	s.runJob(w, r, SourceDocument, text, difficulty)
}

// runJob registers a job, drives the pipeline to completion, and writes the
// pipeline response.
func (s *Server) runJob(w http.ResponseWriter, r *http.Request, source JobSource, text, difficulty string) {
	jobID := uuid.New().String()
	s.jobs.Create(&Job{
		ID:         jobID,
		Source:     source,
		Topic:      summarize(text),
		Difficulty: difficulty,
	})

	resp := s.orchestrator.Run(r.Context(), text, difficulty, jobID)
	s.jobs.Complete(jobID, resp)

	if resp.Status == "success" {
		writeJSON(w, resp)
		return
	}
	writeJSONStatus(w, http.StatusInternalServerError, resp)
}

// handleListJobs returns recent jobs, newest first.
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, s.jobs.List())
}

// handleGetJob returns one job by ID.
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	jobID := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
	if jobID == "" {
		http.Error(w, "job id required", http.StatusBadRequest)
		return
	}
	job := s.jobs.Get(jobID)
	if job == nil {
		http.Error(w, "job not found", http.StatusNotFound)
		return
	}
	writeJSON(w, job)
}

// handleDownload serves the rendered video for a job.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	jobID := strings.TrimPrefix(r.URL.Path, "/api/download/")
	if !validJobID(jobID) {
		http.Error(w, "invalid job id", http.StatusBadRequest)
		return
	}

	path := filepath.Join(s.cfg.Render.OutputDir, jobID+".mp4")
	if _, err := os.Stat(path); err != nil {
		http.Error(w, "video not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "video/mp4")
	w.Header().Set("Content-Disposition", `attachment; filename="`+jobID+`.mp4"`)
	http.ServeFile(w, r, path)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]string{
		"status": "ok",
		"model":  s.cfg.LLM.Model,
	})
}

// validDifficulty accepts the two supported levels; empty falls back to the
// pipeline default.
func validDifficulty(level string) bool {
	switch level {
	case "", "high_school", "undergraduate":
		return true
	}
	return false
}

// validJobID restricts path-derived IDs to characters uuid-style IDs use,
// keeping traversal sequences out of the artifact path.
func validJobID(id string) bool {
	if id == "" {
		return false
	}
	for _, c := range id {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-':
		default:
			return false
		}
	}
	return true
}

// summarize trims input text to a short job label.
func summarize(text string) string {
	text = strings.TrimSpace(text)
	if len(text) > 120 {
		return text[:120] + "..."
	}
	return text
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeJSONStatus(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
