package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/wikiport/wikiport/internal/wiki"
	"go.uber.org/zap"
)

type importRequest struct {
	URL   string `json:"url"`
	Force bool   `json:"force,omitempty"`
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.URL == "" {
		s.respondError(w, http.StatusBadRequest, "url is required")
		return
	}
	s.logger.Debug("import request", zap.String("url", req.URL), zap.Bool("force", req.Force))

	result, err := s.importer.Run(r.Context(), req.URL, req.Force)
	if err != nil {
		switch {
		case errors.Is(err, wiki.ErrNotArticle):
			s.respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, wiki.ErrArticleNotFound):
			s.respondError(w, http.StatusNotFound, err.Error())
		default:
			s.logger.Error("import failed", zap.Error(err))
			s.respondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	if result.Skipped {
		s.respondJSON(w, http.StatusOK, result)
		return
	}
	s.respondJSON(w, http.StatusCreated, result)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	title := chi.URLParam(r, "title")
	run, err := s.ledger.LatestRunByTitle(r.Context(), title)
	if err != nil {
		s.logger.Error("run lookup failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if run == nil {
		s.respondError(w, http.StatusNotFound, "no runs for title")
		return
	}
	s.respondJSON(w, http.StatusOK, run)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	runs, err := s.ledger.ListRuns(r.Context(), limit)
	if err != nil {
		s.logger.Error("run listing failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"runs": runs, "count": len(runs)})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	count, err := s.ledger.CountRuns(r.Context())
	if err != nil {
		s.logger.Error("status: count runs failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"runs": count})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
