// Package server exposes the scoring pipeline over JSON HTTP.
package server

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"scorebook/internal/service"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

type Server struct {
	importSvc      *service.ImportService
	recomputeSvc   *service.RecomputeService
	leaderboardSvc *service.LeaderboardService
	logger         zerolog.Logger
}

func New(importSvc *service.ImportService, recomputeSvc *service.RecomputeService, leaderboardSvc *service.LeaderboardService, logger zerolog.Logger) *Server {
	return &Server{
		importSvc:      importSvc,
		recomputeSvc:   recomputeSvc,
		leaderboardSvc: leaderboardSvc,
		logger:         logger,
	}
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/clubs/{clubID}/imports", s.handleImport).Methods(http.MethodPost)
	api.HandleFunc("/clubs/{clubID}/seasons/{seasonID}/recompute", s.handleRecompute).Methods(http.MethodPost)
	api.HandleFunc("/clubs/{clubID}/seasons/{seasonID}/leaderboard", s.handlePlayerLeaderboard).Methods(http.MethodGet)
	api.HandleFunc("/clubs/{clubID}/seasons/{seasonID}/team-leaderboard", s.handleTeamLeaderboard).Methods(http.MethodGet)
	api.HandleFunc("/clubs/{clubID}/seasons/{seasonID}/overview", s.handleOverview).Methods(http.MethodGet)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type importRequest struct {
	Text      string `json:"text,omitempty"`
	URL       string `json:"url,omitempty"`
	PDFBase64 string `json:"pdf_base64,omitempty"`
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	clubID := mux.Vars(r)["clubID"]

	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var (
		summary *service.ImportSummary
		err     error
	)
	switch {
	case req.Text != "":
		summary, err = s.importSvc.ImportText(r.Context(), clubID, req.Text)
	case req.URL != "":
		summary, err = s.importSvc.ImportURL(r.Context(), clubID, req.URL)
	case req.PDFBase64 != "":
		var pdfBytes []byte
		pdfBytes, err = base64.StdEncoding.DecodeString(req.PDFBase64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid pdf_base64")
			return
		}
		summary, err = s.importSvc.ImportPDF(r.Context(), clubID, pdfBytes)
	default:
		writeError(w, http.StatusBadRequest, "one of text, url or pdf_base64 is required")
		return
	}
	if err != nil {
		s.logger.Error().Err(err).Str("club_id", clubID).Msg("import failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleRecompute(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	clubID, seasonID := vars["clubID"], vars["seasonID"]

	summary, err := s.recomputeSvc.Recompute(r.Context(), clubID, seasonID)
	if err != nil {
		s.logger.Error().Err(err).Str("club_id", clubID).Str("season_id", seasonID).Msg("recompute failed")
		// partial progress is still reported alongside the error
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error":   err.Error(),
			"partial": summary,
		})
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handlePlayerLeaderboard(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	totals, err := s.leaderboardSvc.PlayerLeaderboard(r.Context(), vars["clubID"], vars["seasonID"])
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

func (s *Server) handleTeamLeaderboard(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	totals, err := s.leaderboardSvc.TeamLeaderboard(r.Context(), vars["clubID"], vars["seasonID"])
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	overview, err := s.leaderboardSvc.Overview(r.Context(), vars["clubID"], vars["seasonID"])
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
