// Package server exposes the HTTP surface: POST /chat generates the artifact
// bundle, GET /files/{filename} serves generated artifacts, and GET /status
// reports provider state.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/asthralabs/asthra/core/docgen"
	"github.com/asthralabs/asthra/core/plan"
	"github.com/asthralabs/asthra/providers"
)

// PlanFetcher is the slice of plan.Fetcher the handler depends on; tests
// substitute counting fakes.
type PlanFetcher interface {
	Fetch(ctx context.Context, message string) (map[string]any, error)
}

// Server orchestrates plan resolution and rendering per request. All fields
// are read-only after construction, so one Server serves concurrent requests;
// the artifact files themselves are shared last-writer-wins state.
type Server struct {
	selection providers.Selection
	fetcher   PlanFetcher
	renderer  *docgen.Renderer
	logger    *slog.Logger
	baseURL   string
}

// New assembles a Server. A nil logger falls back to slog.Default(); an empty
// baseURL falls back to the local default.
func New(selection providers.Selection, fetcher PlanFetcher, renderer *docgen.Renderer, logger *slog.Logger, baseURL string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}
	return &Server{
		selection: selection,
		fetcher:   fetcher,
		renderer:  renderer,
		logger:    logger,
		baseURL:   baseURL,
	}
}

// Handler returns the routed HTTP handler with CORS and request logging
// middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("GET /files/{filename}", s.handleFile)
	mux.HandleFunc("GET /status", s.handleStatus)

	return withCORS(withRequestLog(s.logger, mux))
}

type aiStatus struct {
	Enabled       bool    `json:"enabled"`
	Provider      string  `json:"provider"`
	Model         string  `json:"model"`
	Status        string  `json:"status"`
	ModeRequested string  `json:"mode_requested"`
	ModeUsed      string  `json:"mode_used"`
	Error         *string `json:"error"`
}

type chatResponse struct {
	Reply string            `json:"reply"`
	Files map[string]string `json:"files"`
	AI    aiStatus          `json:"ai"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	message := r.FormValue("message")
	if message == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "message is required"})
		return
	}

	mode := r.FormValue("mode")
	if mode == "" {
		mode = "static"
	}

	// Only the filename of an upload is used; contents are never read.
	var filename string
	if _, header, err := r.FormFile("file"); err == nil {
		filename = header.Filename
	}

	// The static plan is computed unconditionally so a valid plan exists
	// before any AI call.
	resolved := plan.Fallback(message, filename)
	aiUsed := false
	aiError := ""

	if mode == "hybrid" {
		raw, err := s.fetcher.Fetch(r.Context(), message)
		if err != nil {
			aiError = err.Error()
		} else if raw != nil {
			resolved = plan.Normalize(raw, message)
			aiUsed = true
		}
	}

	if err := s.renderer.Render(resolved, message); err != nil {
		s.logger.ErrorContext(r.Context(), "artifact rendering failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to render artifacts"})
		return
	}

	reply := resolved.Summary
	if aiError != "" && !aiUsed {
		// A recorded error always means static content was used; the two
		// conditions are mutually exclusive by construction.
		reply += "\nAI fallback reason: " + aiError
	}

	files := make(map[string]string, len(docgen.ArtifactFiles))
	for name, file := range docgen.ArtifactFiles {
		files[name] = s.baseURL + "/files/" + file
	}

	modeUsed := "static"
	if aiUsed {
		modeUsed = "hybrid"
	}

	var errValue *string
	if aiError != "" {
		errValue = &aiError
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Reply: reply,
		Files: files,
		AI: aiStatus{
			Enabled:       s.selection.Ready,
			Provider:      string(s.selection.Kind),
			Model:         s.selection.Model,
			Status:        s.selection.Status,
			ModeRequested: mode,
			ModeUsed:      modeUsed,
			Error:         errValue,
		},
	})
}

func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("filename")
	if name == "" || name != filepath.Base(name) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "File not found"})
		return
	}

	path := s.renderer.Path(name)
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "File not found"})
		return
	}

	http.ServeFile(w, r, path)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ai_enabled": s.selection.Ready,
		"provider":   string(s.selection.Kind),
		"model":      s.selection.Model,
		"message":    s.selection.Status,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Warn("failed to encode response body", "error", err.Error())
	}
}
