package server

import (
	"net/http"

	"github.com/jonathan/career-coach/internal/types"
)

func (s *Server) handleGenerateRoadmap(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var req types.GenerateRoadmapRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	roadmap, err := s.roadmaps.Generate(r.Context(), userID, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, roadmap)
}

func (s *Server) handleCurrentRoadmap(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	roadmap, err := s.roadmaps.Current(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, roadmap)
}

// handleMilestone sets or flips one milestone. A concurrent update answers 409
// and the client re-reads the roadmap.
func (s *Server) handleMilestone(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var req types.MilestoneRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	roadmap, err := s.roadmaps.ToggleMilestone(r.Context(), userID, req.MilestoneID, req.Done)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, roadmap)
}

// handleGetOnboarding returns {"data": null} before the user has onboarded.
func (s *Server) handleGetOnboarding(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	profile, err := s.roadmaps.Onboarding(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"data": profile})
}

func (s *Server) handleSaveOnboarding(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var req types.OnboardingRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	profile, err := s.roadmaps.SaveOnboarding(r.Context(), userID, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"data": profile})
}
