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

// CreateResume inserts a resume with its analysis and fills ID and CreatedAt.
func (db *DB) CreateResume(ctx context.Context, r *types.ResumeRecord) error {
	analysisJSON, err := json.Marshal(r.Analysis)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}

	err = db.pool.QueryRow(ctx,
		`INSERT INTO resumes (user_id, source, target_role, raw_text, ats_score, analysis_result)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		r.UserID, r.Source, r.TargetRole, r.RawText, r.ATSScore, analysisJSON,
	).Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create resume: %w", err)
	}
	return nil
}

// GetResume retrieves a resume owned by userID
func (db *DB) GetResume(ctx context.Context, resumeID, userID uuid.UUID) (*types.ResumeRecord, error) {
	var r types.ResumeRecord
	var analysisJSON []byte

	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, source, target_role, raw_text, ats_score, analysis_result, created_at
		 FROM resumes WHERE id = $1 AND user_id = $2`,
		resumeID, userID,
	).Scan(&r.ID, &r.UserID, &r.Source, &r.TargetRole, &r.RawText, &r.ATSScore, &analysisJSON, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}

	if err := json.Unmarshal(analysisJSON, &r.Analysis); err != nil {
		return nil, fmt.Errorf("failed to decode resume analysis: %w", err)
	}
	return &r, nil
}

// ListResumes retrieves the user's most recent resumes, newest first
func (db *DB) ListResumes(ctx context.Context, userID uuid.UUID, limit int) ([]types.ResumeListItem, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, target_role, ats_score, created_at
		 FROM resumes WHERE user_id = $1
		 ORDER BY created_at DESC LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	defer rows.Close()

	var items []types.ResumeListItem
	for rows.Next() {
		var item types.ResumeListItem
		if err := rows.Scan(&item.ID, &item.TargetRole, &item.ATSScore, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan resume: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate resumes: %w", err)
	}
	return items, nil
}
