package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/career-coach/internal/types"
)

// -----------------------------------------------------------------------------
// Dashboard reads. Each returns nil, nil when the user has nothing yet.
// -----------------------------------------------------------------------------

// LatestResume returns the score of the user's newest resume
func (db *DB) LatestResume(ctx context.Context, userID uuid.UUID) (*types.DashboardResume, error) {
	var r types.DashboardResume
	err := db.pool.QueryRow(ctx,
		`SELECT ats_score, created_at FROM resumes
		 WHERE user_id = $1 ORDER BY created_at DESC LIMIT 1`,
		userID,
	).Scan(&r.ATSScore, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest resume: %w", err)
	}
	return &r, nil
}

// LatestInterview returns the overall score of the user's newest session
func (db *DB) LatestInterview(ctx context.Context, userID uuid.UUID) (*types.DashboardInterview, error) {
	var i types.DashboardInterview
	err := db.pool.QueryRow(ctx,
		`SELECT overall_score, created_at FROM interview_sessions
		 WHERE user_id = $1 ORDER BY created_at DESC LIMIT 1`,
		userID,
	).Scan(&i.OverallScore, &i.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest interview: %w", err)
	}
	return &i, nil
}

// RoadmapProgress returns the stored progress of the user's roadmap
func (db *DB) RoadmapProgress(ctx context.Context, userID uuid.UUID) (*types.DashboardRoadmap, error) {
	var r types.DashboardRoadmap
	err := db.pool.QueryRow(ctx,
		`SELECT progress_percent, target_role, updated_at FROM roadmaps WHERE user_id = $1`,
		userID,
	).Scan(&r.ProgressPercent, &r.TargetRole, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get roadmap progress: %w", err)
	}
	return &r, nil
}
