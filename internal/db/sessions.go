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

// CreateSession inserts an interview session and fills ID, Version and timestamps.
func (db *DB) CreateSession(ctx context.Context, s *types.InterviewSession) error {
	transcriptJSON, err := json.Marshal(s.Transcript)
	if err != nil {
		return fmt.Errorf("failed to marshal transcript: %w", err)
	}

	err = db.pool.QueryRow(ctx,
		`INSERT INTO interview_sessions (user_id, interview_type, difficulty, target_role, transcript, overall_score)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, version, created_at, updated_at`,
		s.UserID, string(s.Type), string(s.Difficulty), s.TargetRole, transcriptJSON, s.OverallScore,
	).Scan(&s.ID, &s.Version, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create interview session: %w", err)
	}
	return nil
}

// GetSession retrieves a session owned by userID
func (db *DB) GetSession(ctx context.Context, sessionID, userID uuid.UUID) (*types.InterviewSession, error) {
	var s types.InterviewSession
	var interviewType, difficulty string
	var transcriptJSON []byte

	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, interview_type, difficulty, target_role, transcript,
		        overall_score, version, created_at, updated_at
		 FROM interview_sessions WHERE id = $1 AND user_id = $2`,
		sessionID, userID,
	).Scan(&s.ID, &s.UserID, &interviewType, &difficulty, &s.TargetRole, &transcriptJSON,
		&s.OverallScore, &s.Version, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get interview session: %w", err)
	}

	s.Type = types.InterviewType(interviewType)
	s.Difficulty = types.Difficulty(difficulty)
	if err := json.Unmarshal(transcriptJSON, &s.Transcript); err != nil {
		return nil, fmt.Errorf("failed to decode transcript: %w", err)
	}
	return &s, nil
}

// UpdateSession writes the transcript and overall score if the row is still at s.Version.
func (db *DB) UpdateSession(ctx context.Context, s *types.InterviewSession) error {
	transcriptJSON, err := json.Marshal(s.Transcript)
	if err != nil {
		return fmt.Errorf("failed to marshal transcript: %w", err)
	}

	err = db.pool.QueryRow(ctx,
		`UPDATE interview_sessions
		 SET transcript = $1, overall_score = $2, version = version + 1, updated_at = NOW()
		 WHERE id = $3 AND user_id = $4 AND version = $5
		 RETURNING version, updated_at`,
		transcriptJSON, s.OverallScore, s.ID, s.UserID, s.Version,
	).Scan(&s.Version, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &types.ErrConflict{Resource: "interview session", ID: s.ID.String()}
		}
		return fmt.Errorf("failed to update interview session: %w", err)
	}
	return nil
}

// ListSessions retrieves the user's most recent sessions, newest first
func (db *DB) ListSessions(ctx context.Context, userID uuid.UUID, limit int) ([]types.SessionListItem, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, interview_type, difficulty, target_role, overall_score, created_at
		 FROM interview_sessions WHERE user_id = $1
		 ORDER BY created_at DESC LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list interview sessions: %w", err)
	}
	defer rows.Close()

	var items []types.SessionListItem
	for rows.Next() {
		var item types.SessionListItem
		var interviewType, difficulty string
		if err := rows.Scan(&item.ID, &interviewType, &difficulty, &item.TargetRole, &item.OverallScore, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan interview session: %w", err)
		}
		item.Type = types.InterviewType(interviewType)
		item.Difficulty = types.Difficulty(difficulty)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate interview sessions: %w", err)
	}
	return items, nil
}
