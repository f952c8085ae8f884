package roadmap

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/career-coach/internal/logger"
	"github.com/jonathan/career-coach/internal/types"
)

// Store persists roadmaps and onboarding profiles.
type Store interface {
	// UpsertRoadmap inserts or replaces the user's roadmap and fills ID, Version and timestamps.
	UpsertRoadmap(ctx context.Context, r *types.Roadmap) error
	// GetRoadmap returns nil, nil when the user has no roadmap.
	GetRoadmap(ctx context.Context, userID uuid.UUID) (*types.Roadmap, error)
	// UpdateRoadmap writes data and progress only if the stored version equals
	// r.Version, then advances r.Version. A stale version yields *types.ErrConflict.
	UpdateRoadmap(ctx context.Context, r *types.Roadmap) error

	UpsertOnboarding(ctx context.Context, o *types.Onboarding) error
	// GetOnboarding returns nil, nil when the user has not onboarded.
	GetOnboarding(ctx context.Context, userID uuid.UUID) (*types.Onboarding, error)
}

// Service generates roadmaps and applies milestone changes.
type Service struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a roadmap service.
func NewService(store Store, log *zap.Logger) *Service {
	return &Service{store: store, logger: logger.OrNop(log), now: time.Now}
}

// Generate replaces the user's roadmap with a fresh one. Empty request fields
// fall back to the onboarding profile, then to the defaults.
func (s *Service) Generate(ctx context.Context, userID uuid.UUID, req types.GenerateRoadmapRequest) (*types.Roadmap, error) {
	role := strings.TrimSpace(req.TargetRole)
	level := strings.TrimSpace(req.SkillLevel)

	if role == "" || level == "" {
		profile, err := s.store.GetOnboarding(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to load onboarding profile: %w", err)
		}
		if profile != nil {
			if role == "" {
				role = profile.TargetRole
			}
			if level == "" {
				level = profile.SkillLevel
			}
		}
	}

	data, err := Generate(role, level, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to generate roadmap: %w", err)
	}

	r := &types.Roadmap{
		UserID:          userID,
		TargetRole:      data.TargetRole,
		Data:            data,
		ProgressPercent: ComputeProgress(&data).Percent,
	}
	if err := s.store.UpsertRoadmap(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to save roadmap: %w", err)
	}

	s.logger.Info("roadmap generated",
		zap.String(logger.FieldUserID, userID.String()),
		zap.String("target_role", data.TargetRole),
		zap.String("skill_level", data.SkillLevel),
	)
	return r, nil
}

// Current returns the user's roadmap.
func (s *Service) Current(ctx context.Context, userID uuid.UUID) (*types.Roadmap, error) {
	r, err := s.store.GetRoadmap(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load roadmap: %w", err)
	}
	if r == nil {
		return nil, &types.ErrNotFound{Resource: "roadmap"}
	}
	return r, nil
}

// ToggleMilestone applies a milestone change, runs the unlock rule and saves
// the result with a version check.
func (s *Service) ToggleMilestone(ctx context.Context, userID uuid.UUID, milestoneID string, done *bool) (*types.Roadmap, error) {
	r, err := s.Current(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := ApplyMilestone(&r.Data, milestoneID, done); err != nil {
		if errors.Is(err, ErrMilestoneNotFound) {
			return nil, &types.ErrNotFound{Resource: "milestone", ID: milestoneID}
		}
		return nil, err
	}
	if EnsureUnlock(&r.Data) {
		s.logger.Info("advanced phase unlocked", zap.String(logger.FieldUserID, userID.String()))
	}
	r.ProgressPercent = ComputeProgress(&r.Data).Percent

	if err := s.store.UpdateRoadmap(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to save roadmap: %w", err)
	}
	return r, nil
}

// SaveOnboarding upserts the user's onboarding profile.
func (s *Service) SaveOnboarding(ctx context.Context, userID uuid.UUID, req types.OnboardingRequest) (*types.Onboarding, error) {
	o := &types.Onboarding{
		UserID:         userID,
		Status:         req.Status,
		TargetRole:     strings.TrimSpace(req.TargetRole),
		SkillLevel:     req.SkillLevel,
		GraduationYear: req.GraduationYear,
	}
	if err := s.store.UpsertOnboarding(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to save onboarding profile: %w", err)
	}
	return o, nil
}

// Onboarding returns the user's profile, or nil if none was saved.
func (s *Service) Onboarding(ctx context.Context, userID uuid.UUID) (*types.Onboarding, error) {
	o, err := s.store.GetOnboarding(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load onboarding profile: %w", err)
	}
	return o, nil
}
