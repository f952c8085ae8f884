package roadmap

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/career-coach/internal/types"
)

type fakeStore struct {
	t          *testing.T
	roadmaps   map[uuid.UUID]*types.Roadmap
	onboarding map[uuid.UUID]*types.Onboarding
}

func newFakeStore(t *testing.T) *fakeStore {
	return &fakeStore{
		t:          t,
		roadmaps:   make(map[uuid.UUID]*types.Roadmap),
		onboarding: make(map[uuid.UUID]*types.Onboarding),
	}
}

// deepCopy round-trips through JSON, as the database does.
func deepCopy(t *testing.T, r *types.Roadmap) *types.Roadmap {
	t.Helper()
	raw, err := json.Marshal(r.Data)
	require.NoError(t, err)
	cp := *r
	cp.Data = types.RoadmapData{}
	require.NoError(t, json.Unmarshal(raw, &cp.Data))
	return &cp
}

func (s *fakeStore) UpsertRoadmap(_ context.Context, r *types.Roadmap) error {
	if existing, ok := s.roadmaps[r.UserID]; ok {
		r.ID = existing.ID
		r.CreatedAt = existing.CreatedAt
		r.Version = existing.Version + 1
	} else {
		r.ID = uuid.New()
		r.CreatedAt = time.Now()
		r.Version = 1
	}
	r.UpdatedAt = time.Now()
	s.roadmaps[r.UserID] = deepCopy(s.t, r)
	return nil
}

func (s *fakeStore) GetRoadmap(_ context.Context, userID uuid.UUID) (*types.Roadmap, error) {
	r, ok := s.roadmaps[userID]
	if !ok {
		return nil, nil
	}
	return deepCopy(s.t, r), nil
}

func (s *fakeStore) UpdateRoadmap(_ context.Context, r *types.Roadmap) error {
	stored, ok := s.roadmaps[r.UserID]
	if !ok || stored.Version != r.Version {
		return &types.ErrConflict{Resource: "roadmap", ID: r.ID.String()}
	}
	r.Version++
	r.UpdatedAt = time.Now()
	s.roadmaps[r.UserID] = deepCopy(s.t, r)
	return nil
}

func (s *fakeStore) UpsertOnboarding(_ context.Context, o *types.Onboarding) error {
	o.CreatedAt = time.Now()
	cp := *o
	s.onboarding[o.UserID] = &cp
	return nil
}

func (s *fakeStore) GetOnboarding(_ context.Context, userID uuid.UUID) (*types.Onboarding, error) {
	o, ok := s.onboarding[userID]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func newTestService(t *testing.T) (*Service, *fakeStore) {
	store := newFakeStore(t)
	return NewService(store, nil), store
}

func TestService_GenerateUsesOnboardingDefaults(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	user := uuid.New()

	_, err := svc.SaveOnboarding(ctx, user, types.OnboardingRequest{Status: "student", TargetRole: "Data Scientist", SkillLevel: "intermediate"})
	require.NoError(t, err)

	r, err := svc.Generate(ctx, user, types.GenerateRoadmapRequest{})
	require.NoError(t, err)
	assert.Equal(t, "Data Scientist", r.TargetRole)
	assert.Equal(t, "intermediate", r.Data.SkillLevel)
	assert.Equal(t, "d1", r.Data.Phases[0].Milestones[0].ID)
	assert.Equal(t, 0, r.ProgressPercent)

	// request values win over the profile
	r, err = svc.Generate(ctx, user, types.GenerateRoadmapRequest{TargetRole: "Product Manager"})
	require.NoError(t, err)
	assert.Equal(t, "Product Manager", r.TargetRole)
	assert.Equal(t, "intermediate", r.Data.SkillLevel)
}

func TestService_GenerateWithoutProfile(t *testing.T) {
	svc, _ := newTestService(t)
	r, err := svc.Generate(context.Background(), uuid.New(), types.GenerateRoadmapRequest{})
	require.NoError(t, err)
	assert.Equal(t, DefaultTargetRole, r.TargetRole)
	assert.Equal(t, DefaultSkillLevel, r.Data.SkillLevel)
}

func TestService_CurrentNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Current(context.Background(), uuid.New())
	var nf *types.ErrNotFound
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "roadmap", nf.Resource)
}

func TestService_ToggleMilestoneUnlocksOnce(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	user := uuid.New()

	_, err := svc.Generate(ctx, user, types.GenerateRoadmapRequest{})
	require.NoError(t, err)

	var r *types.Roadmap
	for _, id := range []string{"s1", "s2", "s3", "s4"} {
		r, err = svc.ToggleMilestone(ctx, user, id, nil)
		require.NoError(t, err)
	}
	// 4 of 7 is 57%
	assert.Equal(t, 57, r.ProgressPercent)
	assert.False(t, r.Data.Dynamic.AdvancedPhaseAdded)

	r, err = svc.ToggleMilestone(ctx, user, "s5", boolPtr(true))
	require.NoError(t, err)
	assert.True(t, r.Data.Dynamic.AdvancedPhaseAdded)
	require.Len(t, r.Data.Phases, 4)
	// 5 of 9 after the unlock
	assert.Equal(t, 56, r.ProgressPercent)

	current, err := svc.Current(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, r.ProgressPercent, current.ProgressPercent)
	assert.Len(t, current.Data.Phases, 4)

	for _, id := range []string{"s6", "s7", "x1"} {
		r, err = svc.ToggleMilestone(ctx, user, id, boolPtr(true))
		require.NoError(t, err)
	}
	assert.Len(t, r.Data.Phases, 4)
}

func TestService_ToggleUnknownMilestone(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	user := uuid.New()

	_, err := svc.ToggleMilestone(ctx, user, "s1", nil)
	var nf *types.ErrNotFound
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "roadmap", nf.Resource)

	_, err = svc.Generate(ctx, user, types.GenerateRoadmapRequest{})
	require.NoError(t, err)
	_, err = svc.ToggleMilestone(ctx, user, "nope", nil)
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "milestone", nf.Resource)
	assert.Equal(t, "nope", nf.ID)
}

func TestService_RegenerateResetsUnlock(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	user := uuid.New()

	_, err := svc.Generate(ctx, user, types.GenerateRoadmapRequest{TargetRole: "Product Manager"})
	require.NoError(t, err)
	for _, id := range []string{"p1", "p2", "p3", "p4", "p5"} {
		_, err = svc.ToggleMilestone(ctx, user, id, boolPtr(true))
		require.NoError(t, err)
	}

	r, err := svc.Generate(ctx, user, types.GenerateRoadmapRequest{TargetRole: "Product Manager"})
	require.NoError(t, err)
	assert.False(t, r.Data.Dynamic.AdvancedPhaseAdded)
	assert.Equal(t, 0, r.ProgressPercent)
	assert.Len(t, r.Data.Phases, 3)
}

func TestService_Onboarding(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	user := uuid.New()

	o, err := svc.Onboarding(ctx, user)
	require.NoError(t, err)
	assert.Nil(t, o)

	year := 2027
	_, err = svc.SaveOnboarding(ctx, user, types.OnboardingRequest{Status: "student", TargetRole: " Data Analyst ", SkillLevel: "beginner", GraduationYear: &year})
	require.NoError(t, err)

	o, err = svc.Onboarding(ctx, user)
	require.NoError(t, err)
	require.NotNil(t, o)
	assert.Equal(t, "Data Analyst", o.TargetRole)
	require.NotNil(t, o.GraduationYear)
	assert.Equal(t, 2027, *o.GraduationYear)
}
