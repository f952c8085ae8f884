package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/career-coach/internal/types"
)

// UpsertOnboarding creates or replaces the user's onboarding profile
func (db *DB) UpsertOnboarding(ctx context.Context, o *types.Onboarding) error {
	err := db.pool.QueryRow(ctx,
		`INSERT INTO onboarding (user_id, status, target_role, skill_level, graduation_year)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id) DO UPDATE SET
		     status = EXCLUDED.status,
		     target_role = EXCLUDED.target_role,
		     skill_level = EXCLUDED.skill_level,
		     graduation_year = EXCLUDED.graduation_year
		 RETURNING created_at`,
		o.UserID, o.Status, o.TargetRole, o.SkillLevel, o.GraduationYear,
	).Scan(&o.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save onboarding: %w", err)
	}
	return nil
}

// GetOnboarding retrieves the user's onboarding profile
func (db *DB) GetOnboarding(ctx context.Context, userID uuid.UUID) (*types.Onboarding, error) {
	var o types.Onboarding
	err := db.pool.QueryRow(ctx,
		`SELECT user_id, status, target_role, skill_level, graduation_year, created_at
		 FROM onboarding WHERE user_id = $1`,
		userID,
	).Scan(&o.UserID, &o.Status, &o.TargetRole, &o.SkillLevel, &o.GraduationYear, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get onboarding: %w", err)
	}
	return &o, nil
}
