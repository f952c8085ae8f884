package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/career-coach/internal/types"
)

// UpsertRoadmap creates or replaces the user's roadmap. Replacing bumps the version so
// writes based on the old tree fail their version check.
func (db *DB) UpsertRoadmap(ctx context.Context, r *types.Roadmap) error {
	dataJSON, err := json.Marshal(r.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal roadmap: %w", err)
	}

	err = db.pool.QueryRow(ctx,
		`INSERT INTO roadmaps (user_id, target_role, roadmap_data, progress_percent)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id) DO UPDATE SET
		     target_role = EXCLUDED.target_role,
		     roadmap_data = EXCLUDED.roadmap_data,
		     progress_percent = EXCLUDED.progress_percent,
		     version = roadmaps.version + 1,
		     updated_at = NOW()
		 RETURNING id, version, created_at, updated_at`,
		r.UserID, r.TargetRole, dataJSON, r.ProgressPercent,
	).Scan(&r.ID, &r.Version, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert roadmap: %w", err)
	}
	return nil
}

// GetRoadmap retrieves the user's roadmap
func (db *DB) GetRoadmap(ctx context.Context, userID uuid.UUID) (*types.Roadmap, error) {
	var r types.Roadmap
	var dataJSON []byte

	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, target_role, roadmap_data, progress_percent, version, created_at, updated_at
		 FROM roadmaps WHERE user_id = $1`,
		userID,
	).Scan(&r.ID, &r.UserID, &r.TargetRole, &dataJSON, &r.ProgressPercent, &r.Version, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get roadmap: %w", err)
	}

	if err := json.Unmarshal(dataJSON, &r.Data); err != nil {
		return nil, fmt.Errorf("failed to decode roadmap: %w", err)
	}
	return &r, nil
}

// UpdateRoadmap writes the tree and progress if the row is still at r.Version.
func (db *DB) UpdateRoadmap(ctx context.Context, r *types.Roadmap) error {
	dataJSON, err := json.Marshal(r.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal roadmap: %w", err)
	}

	err = db.pool.QueryRow(ctx,
		`UPDATE roadmaps
		 SET roadmap_data = $1, progress_percent = $2, version = version + 1, updated_at = NOW()
		 WHERE user_id = $3 AND version = $4
		 RETURNING version, updated_at`,
		dataJSON, r.ProgressPercent, r.UserID, r.Version,
	).Scan(&r.Version, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &types.ErrConflict{Resource: "roadmap", ID: r.ID.String()}
		}
		return fmt.Errorf("failed to update roadmap: %w", err)
	}
	return nil
}
