package server

import "net/http"

// handleUsageStatus returns both quota kinds for the current period.
func (s *Server) handleUsageStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	status, err := s.ledger.Status(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, status)
}
