package server

import (
	"fmt"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/career-coach/internal/types"
)

// handleDashboardSummary reads the latest resume, interview and roadmap
// concurrently. Missing pieces are null.
func (s *Server) handleDashboardSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var summary types.DashboardSummary
	g, ctx := errgroup.WithContext(r.Context())

	g.Go(func() error {
		v, err := s.dashboard.LatestResume(ctx, userID)
		if err != nil {
			return fmt.Errorf("latest resume: %w", err)
		}
		summary.LastResume = v
		return nil
	})
	g.Go(func() error {
		v, err := s.dashboard.LatestInterview(ctx, userID)
		if err != nil {
			return fmt.Errorf("latest interview: %w", err)
		}
		summary.LastInterview = v
		return nil
	})
	g.Go(func() error {
		v, err := s.dashboard.RoadmapProgress(ctx, userID)
		if err != nil {
			return fmt.Errorf("roadmap progress: %w", err)
		}
		summary.Roadmap = v
		return nil
	})

	if err := g.Wait(); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, summary)
}
