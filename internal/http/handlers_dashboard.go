package http

import "net/http"

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	year, month := yearMonth(r)
	view, err := s.svc.Dashboard(r.Context(), userID(r), year, month)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
