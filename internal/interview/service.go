package interview

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/career-coach/internal/assessment"
	"github.com/jonathan/career-coach/internal/logger"
	"github.com/jonathan/career-coach/internal/quota"
	"github.com/jonathan/career-coach/internal/types"
)

// HistoryLimit is the number of sessions returned by History.
const HistoryLimit = 20

// Store persists interview sessions.
type Store interface {
	// CreateSession inserts s and fills its ID, Version and timestamps.
	CreateSession(ctx context.Context, s *types.InterviewSession) error
	// GetSession returns nil, nil when the session does not exist or is not owned by userID.
	GetSession(ctx context.Context, sessionID, userID uuid.UUID) (*types.InterviewSession, error)
	// UpdateSession writes transcript and overall score only if the stored version
	// still equals s.Version, then advances s.Version. A stale version yields *types.ErrConflict.
	UpdateSession(ctx context.Context, s *types.InterviewSession) error
	ListSessions(ctx context.Context, userID uuid.UUID, limit int) ([]types.SessionListItem, error)
}

// Assessor scores one answer.
type Assessor interface {
	ScoreAnswer(ctx context.Context, in assessment.AnswerInput) types.FeedbackResult
}

// StartResult is returned when a session is created.
type StartResult struct {
	Session  *types.InterviewSession `json:"session"`
	Question string                  `json:"question"`
	Quota    types.QuotaSnapshot     `json:"quota"`
}

// TurnResult is returned after an answer is scored.
type TurnResult struct {
	Feedback     types.FeedbackResult `json:"feedback"`
	NextQuestion string               `json:"nextQuestion"`
	OverallScore *int                 `json:"overall_score"`
}

// SummaryResult pairs a session with its derived summary.
type SummaryResult struct {
	Session *types.InterviewSession `json:"session"`
	Summary types.SessionSummary    `json:"summary"`
}

// Service drives the session state machine.
type Service struct {
	store    Store
	ledger   *quota.Ledger
	assessor Assessor
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates an interview service.
func NewService(store Store, ledger *quota.Ledger, assessor Assessor, log *zap.Logger) *Service {
	return &Service{
		store:    store,
		ledger:   ledger,
		assessor: assessor,
		logger:   logger.OrNop(log),
		now:      time.Now,
	}
}

// Start opens a new session with the first question of the bank.
func (s *Service) Start(ctx context.Context, userID uuid.UUID, req types.StartInterviewRequest) (*StartResult, error) {
	if _, err := s.ledger.Require(ctx, userID, types.QuotaInterview); err != nil {
		return nil, err
	}

	interviewType := types.ParseInterviewType(req.InterviewType)
	difficulty := types.ParseDifficulty(req.Difficulty)
	question := PickQuestion(interviewType, difficulty, 0)

	session := &types.InterviewSession{
		UserID:     userID,
		Type:       interviewType,
		Difficulty: difficulty,
		TargetRole: strings.TrimSpace(req.TargetRole),
		Transcript: types.Transcript{types.QuestionEvent{Text: question, At: s.now().UTC()}},
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create interview session: %w", err)
	}

	snapshot, err := s.ledger.Increment(ctx, userID, types.QuotaInterview)
	if err != nil {
		return nil, err
	}

	s.logger.Info("interview started",
		zap.String(logger.FieldUserID, userID.String()),
		zap.String("session_id", session.ID.String()),
		zap.String("type", string(interviewType)),
		zap.String("difficulty", string(difficulty)),
	)

	return &StartResult{Session: session, Question: question, Quota: snapshot}, nil
}

// Turn scores an answer to the latest question and appends the next question.
func (s *Service) Turn(ctx context.Context, userID, sessionID uuid.UUID, answer string) (*TurnResult, error) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return nil, &types.ErrValidation{Field: "answer", Message: "is required"}
	}

	session, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	question, _ := session.Transcript.LatestQuestion()
	asked := session.Transcript.Count(types.KindQuestion)

	feedback := s.assessor.ScoreAnswer(ctx, assessment.AnswerInput{
		Question:   question,
		Answer:     answer,
		Type:       session.Type,
		Difficulty: session.Difficulty,
		TargetRole: session.TargetRole,
	})

	next := PickQuestion(session.Type, session.Difficulty, asked)
	now := s.now().UTC()
	session.Transcript = append(session.Transcript,
		types.AnswerEvent{Text: answer, At: now},
		types.FeedbackEvent{Feedback: feedback, At: now},
		types.QuestionEvent{Text: next, At: now},
	)
	session.OverallScore = OverallScore(session.Transcript)

	if err := s.store.UpdateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save interview turn: %w", err)
	}

	s.logger.Debug("interview turn scored",
		zap.String("session_id", sessionID.String()),
		zap.String(logger.FieldSource, feedback.Source),
		zap.Int("score", feedback.Score),
	)

	return &TurnResult{Feedback: feedback, NextQuestion: next, OverallScore: session.OverallScore}, nil
}

// Summary returns the session and a summary derived from its transcript.
func (s *Service) Summary(ctx context.Context, userID, sessionID uuid.UUID) (*SummaryResult, error) {
	session, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	return &SummaryResult{Session: session, Summary: Summarize(session.Transcript)}, nil
}

// Get returns one session owned by userID.
func (s *Service) Get(ctx context.Context, userID, sessionID uuid.UUID) (*types.InterviewSession, error) {
	return s.load(ctx, userID, sessionID)
}

// History returns the most recent sessions, newest first.
func (s *Service) History(ctx context.Context, userID uuid.UUID) ([]types.SessionListItem, error) {
	items, err := s.store.ListSessions(ctx, userID, HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list interview sessions: %w", err)
	}
	if items == nil {
		items = []types.SessionListItem{}
	}
	return items, nil
}

func (s *Service) load(ctx context.Context, userID, sessionID uuid.UUID) (*types.InterviewSession, error) {
	session, err := s.store.GetSession(ctx, sessionID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load interview session: %w", err)
	}
	if session == nil {
		return nil, &types.ErrNotFound{Resource: "interview session", ID: sessionID.String()}
	}
	return session, nil
}
