//go:build integration

package db

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/career-coach/internal/roadmap"
	"github.com/jonathan/career-coach/internal/types"
)

var roadmapTime = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

func getTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	db, err := Connect(ctx, dsn)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

func cleanupUser(t *testing.T, db *DB, userID uuid.UUID) {
	t.Helper()
	ctx := context.Background()
	for _, table := range []string{"usage_counters", "resumes", "interview_sessions", "roadmaps", "onboarding"} {
		_, _ = db.pool.Exec(ctx, "DELETE FROM "+table+" WHERE user_id = $1", userID)
	}
}

func TestIntegration_Counters(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()
	user := uuid.New()
	defer cleanupUser(t, db, user)

	c, err := db.GetCounter(ctx, user, "2025-01")
	if err != nil {
		t.Fatalf("GetCounter failed: %v", err)
	}
	if c != nil {
		t.Fatal("expected no counter before first use")
	}

	c, err = db.GetOrCreateCounter(ctx, user, "2025-01")
	if err != nil {
		t.Fatalf("GetOrCreateCounter failed: %v", err)
	}
	if c.ResumeAnalysesUsed != 0 || c.InterviewsUsed != 0 {
		t.Errorf("new counter = %+v, want zeros", c)
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := db.IncrementCounter(ctx, user, "2025-01", types.QuotaInterview); err != nil {
				t.Errorf("IncrementCounter failed: %v", err)
			}
		}()
	}
	wg.Wait()

	c, err = db.IncrementCounter(ctx, user, "2025-01", types.QuotaResumeAnalysis)
	if err != nil {
		t.Fatalf("IncrementCounter failed: %v", err)
	}
	if c.InterviewsUsed != 10 {
		t.Errorf("InterviewsUsed = %d, want 10", c.InterviewsUsed)
	}
	if c.ResumeAnalysesUsed != 1 {
		t.Errorf("ResumeAnalysesUsed = %d, want 1", c.ResumeAnalysesUsed)
	}

	c, err = db.IncrementCounter(ctx, user, "2025-02", types.QuotaResumeAnalysis)
	if err != nil {
		t.Fatalf("IncrementCounter failed: %v", err)
	}
	if c.ResumeAnalysesUsed != 1 || c.InterviewsUsed != 0 {
		t.Errorf("new period counter = %+v, want 1/0", c)
	}
}

func TestIntegration_Resumes(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()
	user := uuid.New()
	defer cleanupUser(t, db, user)

	r := &types.ResumeRecord{
		UserID:     user,
		Source:     types.ResumeSourceText,
		TargetRole: "Data Analyst",
		RawText:    "Summary: analyst with SQL and Excel",
		ATSScore:   72,
		Analysis:   types.AssessmentResult{Score: 72, Source: types.SourceHeuristic},
	}
	if err := db.CreateResume(ctx, r); err != nil {
		t.Fatalf("CreateResume failed: %v", err)
	}
	if r.ID == uuid.Nil {
		t.Fatal("CreateResume did not set ID")
	}

	got, err := db.GetResume(ctx, r.ID, user)
	if err != nil {
		t.Fatalf("GetResume failed: %v", err)
	}
	if got == nil || got.Analysis.Score != 72 || got.TargetRole != "Data Analyst" {
		t.Errorf("GetResume = %+v", got)
	}

	other, err := db.GetResume(ctx, r.ID, uuid.New())
	if err != nil {
		t.Fatalf("GetResume failed: %v", err)
	}
	if other != nil {
		t.Error("resume must not be visible to another user")
	}

	items, err := db.ListResumes(ctx, user, 20)
	if err != nil {
		t.Fatalf("ListResumes failed: %v", err)
	}
	if len(items) != 1 || items[0].ID != r.ID {
		t.Errorf("ListResumes = %+v", items)
	}

	last, err := db.LatestResume(ctx, user)
	if err != nil {
		t.Fatalf("LatestResume failed: %v", err)
	}
	if last == nil || last.ATSScore != 72 {
		t.Errorf("LatestResume = %+v", last)
	}
}

func TestIntegration_SessionVersioning(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()
	user := uuid.New()
	defer cleanupUser(t, db, user)

	s := &types.InterviewSession{
		UserID:     user,
		Type:       types.Technical,
		Difficulty: types.Mid,
		Transcript: types.Transcript{types.QuestionEvent{Text: "Design a rate limiter."}},
	}
	if err := db.CreateSession(ctx, s); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if s.Version != 1 {
		t.Errorf("Version = %d, want 1", s.Version)
	}

	first, err := db.GetSession(ctx, s.ID, user)
	if err != nil || first == nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	second := *first

	score := 7
	first.Transcript = append(first.Transcript, types.AnswerEvent{Text: "Token bucket."})
	first.OverallScore = &score
	if err := db.UpdateSession(ctx, first); err != nil {
		t.Fatalf("UpdateSession failed: %v", err)
	}
	if first.Version != 2 {
		t.Errorf("Version = %d, want 2", first.Version)
	}

	second.Transcript = append(second.Transcript, types.AnswerEvent{Text: "Leaky bucket."})
	err = db.UpdateSession(ctx, &second)
	var conflict *types.ErrConflict
	if !errors.As(err, &conflict) {
		t.Fatalf("stale UpdateSession error = %v, want ErrConflict", err)
	}

	stored, err := db.GetSession(ctx, s.ID, user)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if stored.Transcript.Count(types.KindAnswer) != 1 {
		t.Errorf("answers = %d, want 1", stored.Transcript.Count(types.KindAnswer))
	}
	if stored.Type != types.Technical || stored.OverallScore == nil || *stored.OverallScore != 7 {
		t.Errorf("stored session = %+v", stored)
	}

	items, err := db.ListSessions(ctx, user, 20)
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(items) != 1 || items[0].Difficulty != types.Mid {
		t.Errorf("ListSessions = %+v", items)
	}
}

func TestIntegration_RoadmapAndOnboarding(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()
	user := uuid.New()
	defer cleanupUser(t, db, user)

	data, err := roadmap.Generate("Data Analyst", "", roadmapTime)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	r := &types.Roadmap{UserID: user, TargetRole: data.TargetRole, Data: data}
	if err := db.UpsertRoadmap(ctx, r); err != nil {
		t.Fatalf("UpsertRoadmap failed: %v", err)
	}

	got, err := db.GetRoadmap(ctx, user)
	if err != nil || got == nil {
		t.Fatalf("GetRoadmap failed: %v", err)
	}
	if len(got.Data.Phases) != len(data.Phases) {
		t.Errorf("phases = %d, want %d", len(got.Data.Phases), len(data.Phases))
	}

	stale := *got
	got.ProgressPercent = 25
	if err := db.UpdateRoadmap(ctx, got); err != nil {
		t.Fatalf("UpdateRoadmap failed: %v", err)
	}
	var conflict *types.ErrConflict
	if err := db.UpdateRoadmap(ctx, &stale); !errors.As(err, &conflict) {
		t.Errorf("stale UpdateRoadmap error = %v, want ErrConflict", err)
	}

	// A write based on the tree read before a regenerate must not land on the new tree.
	beforeRegenerate := *got
	if err := db.UpsertRoadmap(ctx, r); err != nil {
		t.Fatalf("UpsertRoadmap failed: %v", err)
	}
	if r.Version != beforeRegenerate.Version+1 {
		t.Errorf("Version after regenerate = %d, want %d", r.Version, beforeRegenerate.Version+1)
	}
	if err := db.UpdateRoadmap(ctx, &beforeRegenerate); !errors.As(err, &conflict) {
		t.Errorf("UpdateRoadmap across regenerate error = %v, want ErrConflict", err)
	}

	progress, err := db.RoadmapProgress(ctx, user)
	if err != nil || progress == nil {
		t.Fatalf("RoadmapProgress failed: %v", err)
	}
	if progress.ProgressPercent != 0 {
		t.Errorf("ProgressPercent = %d, want 0", progress.ProgressPercent)
	}

	year := 2026
	o := &types.Onboarding{UserID: user, Status: "student", TargetRole: "Data Analyst", SkillLevel: "beginner", GraduationYear: &year}
	if err := db.UpsertOnboarding(ctx, o); err != nil {
		t.Fatalf("UpsertOnboarding failed: %v", err)
	}
	gotOnboarding, err := db.GetOnboarding(ctx, user)
	if err != nil || gotOnboarding == nil {
		t.Fatalf("GetOnboarding failed: %v", err)
	}
	if gotOnboarding.GraduationYear == nil || *gotOnboarding.GraduationYear != 2026 {
		t.Errorf("GraduationYear = %v, want 2026", gotOnboarding.GraduationYear)
	}
}
