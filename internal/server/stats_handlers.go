package server

import (
	"net/http"
)

func (s *Server) statsOverviewHandler(w http.ResponseWriter, r *http.Request) {
	user := userFromRequest(r)

	period := r.URL.Query().Get("period")
	if period == "" {
		period = "all"
	}

	stats, err := s.statsService.Overview(r.Context(), user.ID, period)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, stats)
}

func (s *Server) statsCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	user := userFromRequest(r)

	stats, err := s.statsService.Categories(r.Context(), user.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, stats)
}

func (s *Server) statsTrendsHandler(w http.ResponseWriter, r *http.Request) {
	user := userFromRequest(r)

	stats, err := s.statsService.Trends(r.Context(), user.ID, queryInt(r, "days", 30))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, stats)
}
