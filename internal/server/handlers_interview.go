package server

import (
	"net/http"

	"github.com/jonathan/career-coach/internal/types"
)

func (s *Server) handleStartInterview(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var req types.StartInterviewRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.interviews.Start(r.Context(), userID, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

func (s *Server) handleInterviewTurn(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	sessionID, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req types.TurnRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.interviews.Turn(r.Context(), userID, sessionID, req.Answer)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

func (s *Server) handleInterviewSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	sessionID, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.interviews.Summary(r.Context(), userID, sessionID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

func (s *Server) handleInterviewHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	items, err := s.interviews.History(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"sessions": items})
}

func (s *Server) handleGetInterview(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	sessionID, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	session, err := s.interviews.Get(r.Context(), userID, sessionID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, session)
}
