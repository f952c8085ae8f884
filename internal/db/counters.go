package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/career-coach/internal/types"
)

const counterColumns = `user_id, period_ym, resume_analyses_used, interviews_used, created_at, updated_at`

func scanCounter(row pgx.Row) (*types.QuotaCounter, error) {
	var c types.QuotaCounter
	err := row.Scan(&c.UserID, &c.Period, &c.ResumeAnalysesUsed, &c.InterviewsUsed, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetOrCreateCounter returns the counter row for (user, period), inserting a zero row first if absent.
func (db *DB) GetOrCreateCounter(ctx context.Context, userID uuid.UUID, period string) (*types.QuotaCounter, error) {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO usage_counters (user_id, period_ym) VALUES ($1, $2)
		 ON CONFLICT (user_id, period_ym) DO NOTHING`,
		userID, period,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create usage counter: %w", err)
	}

	c, err := scanCounter(db.pool.QueryRow(ctx,
		`SELECT `+counterColumns+` FROM usage_counters WHERE user_id = $1 AND period_ym = $2`,
		userID, period,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to get usage counter: %w", err)
	}
	return c, nil
}

// IncrementCounter adds one to the kind's column in a single upsert and returns the updated row.
func (db *DB) IncrementCounter(ctx context.Context, userID uuid.UUID, period string, kind types.QuotaKind) (*types.QuotaCounter, error) {
	column := "resume_analyses_used"
	if kind == types.QuotaInterview {
		column = "interviews_used"
	}

	// column is one of two constants, never caller input
	query := fmt.Sprintf(
		`INSERT INTO usage_counters (user_id, period_ym, %[1]s) VALUES ($1, $2, 1)
		 ON CONFLICT (user_id, period_ym) DO UPDATE
		 SET %[1]s = usage_counters.%[1]s + 1, updated_at = NOW()
		 RETURNING `+counterColumns,
		column,
	)
	c, err := scanCounter(db.pool.QueryRow(ctx, query, userID, period))
	if err != nil {
		return nil, fmt.Errorf("failed to increment %s counter: %w", kind, err)
	}
	return c, nil
}

// GetCounter returns the counter row, or nil if the user has no usage in period.
func (db *DB) GetCounter(ctx context.Context, userID uuid.UUID, period string) (*types.QuotaCounter, error) {
	c, err := scanCounter(db.pool.QueryRow(ctx,
		`SELECT `+counterColumns+` FROM usage_counters WHERE user_id = $1 AND period_ym = $2`,
		userID, period,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get usage counter: %w", err)
	}
	return c, nil
}
