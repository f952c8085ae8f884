// Package resume runs quota-gated resume analyses and keeps their history.
package resume

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/career-coach/internal/logger"
	"github.com/jonathan/career-coach/internal/quota"
	"github.com/jonathan/career-coach/internal/types"
)

// HistoryLimit is the number of resumes returned by History.
const HistoryLimit = 20

// Store persists analyzed resumes.
type Store interface {
	// CreateResume inserts r and fills its ID and CreatedAt.
	CreateResume(ctx context.Context, r *types.ResumeRecord) error
	// GetResume returns nil, nil when the resume does not exist or is not owned by userID.
	GetResume(ctx context.Context, resumeID, userID uuid.UUID) (*types.ResumeRecord, error)
	ListResumes(ctx context.Context, userID uuid.UUID, limit int) ([]types.ResumeListItem, error)
}

// Analyzer scores resume text.
type Analyzer interface {
	AnalyzeResume(ctx context.Context, resumeText, targetRole, jobDescription string) (types.AssessmentResult, error)
}

// AnalyzeResult is returned by a successful analysis.
type AnalyzeResult struct {
	ResumeID uuid.UUID              `json:"resume_id"`
	Analysis types.AssessmentResult `json:"analysis"`
	Quota    types.QuotaSnapshot    `json:"quota"`
}

// Service analyzes resumes under the monthly quota.
type Service struct {
	store    Store
	ledger   *quota.Ledger
	analyzer Analyzer
	logger   *zap.Logger
}

// NewService creates a resume service.
func NewService(store Store, ledger *quota.Ledger, analyzer Analyzer, log *zap.Logger) *Service {
	return &Service{store: store, ledger: ledger, analyzer: analyzer, logger: logger.OrNop(log)}
}

// Analyze validates the submission, checks the quota, scores the resume,
// stores it and then consumes one unit of quota.
func (s *Service) Analyze(ctx context.Context, userID uuid.UUID, req types.AnalyzeResumeRequest) (*AnalyzeResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.ledger.Require(ctx, userID, types.QuotaResumeAnalysis); err != nil {
		return nil, err
	}

	targetRole := strings.TrimSpace(req.TargetRole)
	analysis, err := s.analyzer.AnalyzeResume(ctx, req.ResumeText, targetRole, req.JobDescriptionText)
	if err != nil {
		return nil, err
	}

	source := req.Source
	if source == "" {
		source = types.ResumeSourceText
	}
	record := &types.ResumeRecord{
		UserID:     userID,
		Source:     source,
		TargetRole: targetRole,
		RawText:    req.ResumeText,
		ATSScore:   analysis.Score,
		Analysis:   analysis,
	}
	if err := s.store.CreateResume(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save resume: %w", err)
	}

	snapshot, err := s.ledger.Increment(ctx, userID, types.QuotaResumeAnalysis)
	if err != nil {
		return nil, err
	}

	s.logger.Info("resume analyzed",
		zap.String(logger.FieldUserID, userID.String()),
		zap.String(logger.FieldSource, analysis.Source),
		zap.Int("score", analysis.Score),
	)

	return &AnalyzeResult{ResumeID: record.ID, Analysis: analysis, Quota: snapshot}, nil
}

// Get returns one stored resume owned by userID.
func (s *Service) Get(ctx context.Context, userID, resumeID uuid.UUID) (*types.ResumeRecord, error) {
	r, err := s.store.GetResume(ctx, resumeID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load resume: %w", err)
	}
	if r == nil {
		return nil, &types.ErrNotFound{Resource: "resume", ID: resumeID.String()}
	}
	return r, nil
}

// History returns the most recent resumes, newest first.
func (s *Service) History(ctx context.Context, userID uuid.UUID) ([]types.ResumeListItem, error) {
	items, err := s.store.ListResumes(ctx, userID, HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	if items == nil {
		items = []types.ResumeListItem{}
	}
	return items, nil
}
