package interview

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/career-coach/internal/assessment"
	"github.com/jonathan/career-coach/internal/quota"
	"github.com/jonathan/career-coach/internal/scoring"
	"github.com/jonathan/career-coach/internal/types"
)

// fakeStore is an in-memory Store with the same version semantics as the database.
type fakeStore struct {
	mu           sync.Mutex
	sessions     map[uuid.UUID]*types.InterviewSession
	beforeUpdate func()
}

func newFakeStore() *fakeStore {
	return &fakeStore{sessions: make(map[uuid.UUID]*types.InterviewSession)}
}

func clone(s *types.InterviewSession) *types.InterviewSession {
	cp := *s
	cp.Transcript = append(types.Transcript(nil), s.Transcript...)
	return &cp
}

func (f *fakeStore) CreateSession(_ context.Context, s *types.InterviewSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s.ID = uuid.New()
	s.Version = 1
	s.CreatedAt = time.Now()
	s.UpdatedAt = s.CreatedAt
	f.sessions[s.ID] = clone(s)
	return nil
}

func (f *fakeStore) GetSession(_ context.Context, sessionID, userID uuid.UUID) (*types.InterviewSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[sessionID]
	if !ok || s.UserID != userID {
		return nil, nil
	}
	return clone(s), nil
}

func (f *fakeStore) UpdateSession(_ context.Context, s *types.InterviewSession) error {
	if f.beforeUpdate != nil {
		f.beforeUpdate()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.sessions[s.ID]
	if !ok || stored.Version != s.Version {
		return &types.ErrConflict{Resource: "interview session", ID: s.ID.String()}
	}
	s.Version++
	s.UpdatedAt = time.Now()
	f.sessions[s.ID] = clone(s)
	return nil
}

func (f *fakeStore) ListSessions(_ context.Context, userID uuid.UUID, limit int) ([]types.SessionListItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var items []types.SessionListItem
	for _, s := range f.sessions {
		if s.UserID == userID {
			items = append(items, types.SessionListItem{ID: s.ID, Type: s.Type, Difficulty: s.Difficulty, CreatedAt: s.CreatedAt})
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func newTestService(limit int) (*Service, *fakeStore) {
	store := newFakeStore()
	ledger := quota.NewLedger(quota.NewMemoryStore(), quota.Limits{ResumeAnalyses: 3, Interviews: limit}, nil)
	return NewService(store, ledger, assessment.New(nil, 0, nil), nil), store
}

func TestPickQuestion(t *testing.T) {
	entry := Questions(types.Behavioral, types.Entry)
	assert.Equal(t, entry[0], PickQuestion(types.Behavioral, types.Entry, 0))
	assert.Equal(t, entry[1], PickQuestion(types.Behavioral, types.Entry, 1))
	assert.Equal(t, entry[0], PickQuestion(types.Behavioral, types.Entry, len(entry)), "bank cycles")

	// unknown values fall back to behavioral / entry
	assert.Equal(t, entry[0], PickQuestion("puzzle", "expert", 0))
	assert.Equal(t, Questions(types.Case, types.Entry), Questions(types.Case, "expert"))
}

func TestService_EndToEndBehavioralEntry(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(5)
	user := uuid.New()

	started, err := svc.Start(ctx, user, types.StartInterviewRequest{InterviewType: "Behavioral", Difficulty: "ENTRY"})
	require.NoError(t, err)

	require.Len(t, started.Session.Transcript, 1)
	first, ok := started.Session.Transcript[0].(types.QuestionEvent)
	require.True(t, ok, "first event must be a question")
	assert.Contains(t, Questions(types.Behavioral, types.Entry), first.Text)
	assert.Equal(t, first.Text, started.Question)
	assert.Equal(t, types.QuotaSnapshot{Period: started.Quota.Period, Limit: 5, Used: 1, Remaining: 4}, started.Quota)

	answer := "First, I gathered requirements from users. Then I built a dashboard in two weeks. " +
		"Finally, sign-ups grew 40% and support tickets dropped."
	turn, err := svc.Turn(ctx, user, started.Session.ID, answer)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, turn.Feedback.Score, 6)
	assert.Equal(t, scoring.StructureWithMarkers, turn.Feedback.Breakdown.Structure)
	assert.Equal(t, PickQuestion(types.Behavioral, types.Entry, 1), turn.NextQuestion)
	require.NotNil(t, turn.OverallScore)
	assert.Equal(t, turn.Feedback.Score, *turn.OverallScore)

	result, err := svc.Summary(ctx, user, started.Session.ID)
	require.NoError(t, err)
	require.NotNil(t, result.Summary.OverallScore)
	assert.Equal(t, turn.Feedback.Score, *result.Summary.OverallScore)
	assert.Equal(t, 2, result.Summary.QuestionsCount)
	assert.Equal(t, 1, result.Summary.AnswersCount)
	assert.Equal(t, turn.Feedback.Highlights, result.Summary.Strengths)

	kinds := make([]types.EventKind, 0, len(result.Session.Transcript))
	for _, e := range result.Session.Transcript {
		kinds = append(kinds, e.Kind())
	}
	assert.Equal(t, []types.EventKind{types.KindQuestion, types.KindAnswer, types.KindFeedback, types.KindQuestion}, kinds)
}

func TestService_StartFallsBackOnUnknownValues(t *testing.T) {
	svc, _ := newTestService(5)
	started, err := svc.Start(context.Background(), uuid.New(), types.StartInterviewRequest{InterviewType: "trivia", Difficulty: "godlike"})
	require.NoError(t, err)
	assert.Equal(t, types.Behavioral, started.Session.Type)
	assert.Equal(t, types.Entry, started.Session.Difficulty)
}

func TestService_StartQuotaExceeded(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(1)
	user := uuid.New()

	_, err := svc.Start(ctx, user, types.StartInterviewRequest{})
	require.NoError(t, err)

	_, err = svc.Start(ctx, user, types.StartInterviewRequest{})
	var qe *types.ErrQuotaExceeded
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, 1, qe.Limit)
	assert.Equal(t, 1, qe.Used)
	assert.Len(t, store.sessions, 1, "denied start must not create a session")
}

func TestService_TurnErrors(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(5)
	owner := uuid.New()

	started, err := svc.Start(ctx, owner, types.StartInterviewRequest{})
	require.NoError(t, err)

	t.Run("empty answer", func(t *testing.T) {
		_, err := svc.Turn(ctx, owner, started.Session.ID, "   ")
		var ve *types.ErrValidation
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "answer", ve.Field)
	})

	t.Run("unknown session", func(t *testing.T) {
		_, err := svc.Turn(ctx, owner, uuid.New(), "An answer.")
		var nf *types.ErrNotFound
		require.ErrorAs(t, err, &nf)
	})

	t.Run("other user's session", func(t *testing.T) {
		_, err := svc.Turn(ctx, uuid.New(), started.Session.ID, "An answer.")
		var nf *types.ErrNotFound
		require.ErrorAs(t, err, &nf)
	})
}

func TestService_ConcurrentTurnConflicts(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(5)
	user := uuid.New()

	started, err := svc.Start(ctx, user, types.StartInterviewRequest{})
	require.NoError(t, err)

	// another writer lands between our read and our write
	store.beforeUpdate = func() {
		store.beforeUpdate = nil
		_, err := svc.Turn(ctx, user, started.Session.ID, "The other tab's answer.")
		require.NoError(t, err)
	}

	_, err = svc.Turn(ctx, user, started.Session.ID, "My answer.")
	var ce *types.ErrConflict
	require.ErrorAs(t, err, &ce)

	session, err := svc.Get(ctx, user, started.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, session.Transcript.Count(types.KindAnswer), "exactly one turn is stored")
}

func TestService_QuestionsCycleThroughBank(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(5)
	user := uuid.New()

	started, err := svc.Start(ctx, user, types.StartInterviewRequest{InterviewType: "case", Difficulty: "mid"})
	require.NoError(t, err)

	bank := Questions(types.Case, types.Mid)
	for i := 1; i <= len(bank)+1; i++ {
		turn, err := svc.Turn(ctx, user, started.Session.ID, "Then I would measure retention by cohort.")
		require.NoError(t, err)
		assert.Equal(t, bank[i%len(bank)], turn.NextQuestion)
	}
}

func TestService_History(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(50)
	user := uuid.New()

	items, err := svc.History(ctx, user)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)

	for i := 0; i < HistoryLimit+3; i++ {
		_, err := svc.Start(ctx, user, types.StartInterviewRequest{})
		require.NoError(t, err)
	}
	items, err = svc.History(ctx, user)
	require.NoError(t, err)
	assert.Len(t, items, HistoryLimit)
}

func TestSummarize_NoFeedback(t *testing.T) {
	tr := types.Transcript{types.QuestionEvent{Text: "Tell me about yourself."}}
	s := Summarize(tr)
	assert.Nil(t, s.OverallScore)
	assert.Nil(t, s.AvgBreakdown.Clarity)
	assert.Nil(t, s.AvgBreakdown.Structure)
	assert.Equal(t, []string{}, s.Strengths)
	assert.Equal(t, 1, s.QuestionsCount)
	assert.Equal(t, 0, s.AnswersCount)
}

func TestSummarize_MeansAndLatestFeedback(t *testing.T) {
	tr := types.Transcript{
		types.QuestionEvent{Text: "q1"},
		types.AnswerEvent{Text: "a1"},
		types.FeedbackEvent{Feedback: types.FeedbackResult{
			Score:      6,
			Breakdown:  types.Breakdown{Clarity: 5, TechnicalAccuracy: 5, Communication: 6, Structure: 6},
			Highlights: []string{"old"},
		}},
		types.QuestionEvent{Text: "q2"},
		types.AnswerEvent{Text: "a2"},
		types.FeedbackEvent{Feedback: types.FeedbackResult{
			Score:        9,
			Breakdown:    types.Breakdown{Clarity: 8, TechnicalAccuracy: 6, Communication: 7, Structure: 8},
			Highlights:   []string{"new"},
			Improvements: []string{"tighten"},
		}},
		types.QuestionEvent{Text: "q3"},
	}

	s := Summarize(tr)
	require.NotNil(t, s.OverallScore)
	assert.Equal(t, 8, *s.OverallScore) // 7.5 rounds up
	assert.Equal(t, 7, *s.AvgBreakdown.Clarity)
	assert.Equal(t, 6, *s.AvgBreakdown.TechnicalAccuracy)
	assert.Equal(t, 7, *s.AvgBreakdown.Communication)
	assert.Equal(t, 7, *s.AvgBreakdown.Structure)
	assert.Equal(t, []string{"new"}, s.Strengths)
	assert.Equal(t, []string{"tighten"}, s.Improvements)
	assert.Equal(t, 3, s.QuestionsCount)
	assert.Equal(t, 2, s.AnswersCount)
}
