package resume

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/career-coach/internal/assessment"
	"github.com/jonathan/career-coach/internal/quota"
	"github.com/jonathan/career-coach/internal/types"
)

type fakeStore struct {
	resumes []*types.ResumeRecord
	err     error
}

func (f *fakeStore) CreateResume(_ context.Context, r *types.ResumeRecord) error {
	if f.err != nil {
		return f.err
	}
	r.ID = uuid.New()
	r.CreatedAt = time.Now()
	cp := *r
	f.resumes = append(f.resumes, &cp)
	return nil
}

func (f *fakeStore) GetResume(_ context.Context, resumeID, userID uuid.UUID) (*types.ResumeRecord, error) {
	for _, r := range f.resumes {
		if r.ID == resumeID && r.UserID == userID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) ListResumes(_ context.Context, userID uuid.UUID, limit int) ([]types.ResumeListItem, error) {
	var items []types.ResumeListItem
	for i := len(f.resumes) - 1; i >= 0 && len(items) < limit; i-- {
		r := f.resumes[i]
		if r.UserID == userID {
			items = append(items, types.ResumeListItem{ID: r.ID, TargetRole: r.TargetRole, ATSScore: r.ATSScore, CreatedAt: r.CreatedAt})
		}
	}
	return items, nil
}

const resumeText = "Summary: Backend engineer. Experience: built REST API services in Go with SQL and Git."

func newTestService(limit int) (*Service, *fakeStore, *quota.Ledger) {
	store := &fakeStore{}
	ledger := quota.NewLedger(quota.NewMemoryStore(), quota.Limits{ResumeAnalyses: limit, Interviews: 5}, nil)
	return NewService(store, ledger, assessment.New(nil, 0, nil), nil), store, ledger
}

func TestService_Analyze(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(3)
	user := uuid.New()

	res, err := svc.Analyze(ctx, user, types.AnalyzeResumeRequest{ResumeText: resumeText, TargetRole: " Software Engineer "})
	require.NoError(t, err)

	assert.Equal(t, types.SourceHeuristic, res.Analysis.Source)
	assert.Equal(t, 1, res.Quota.Used)
	assert.Equal(t, 2, res.Quota.Remaining)
	assert.Equal(t, 3, res.Quota.Limit)

	require.Len(t, store.resumes, 1)
	saved := store.resumes[0]
	assert.Equal(t, res.ResumeID, saved.ID)
	assert.Equal(t, types.ResumeSourceText, saved.Source)
	assert.Equal(t, "Software Engineer", saved.TargetRole)
	assert.Equal(t, res.Analysis.Score, saved.ATSScore)
}

func TestService_AnalyzeQuotaExceeded(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(2)
	user := uuid.New()

	for i := 0; i < 2; i++ {
		_, err := svc.Analyze(ctx, user, types.AnalyzeResumeRequest{ResumeText: resumeText})
		require.NoError(t, err)
	}

	_, err := svc.Analyze(ctx, user, types.AnalyzeResumeRequest{ResumeText: resumeText})
	var qe *types.ErrQuotaExceeded
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, 2, qe.Used)
	assert.Len(t, store.resumes, 2)
}

func TestService_AnalyzeValidatesBeforeQuota(t *testing.T) {
	ctx := context.Background()
	svc, store, ledger := newTestService(3)
	user := uuid.New()

	tests := []types.AnalyzeResumeRequest{
		{ResumeText: ""},
		{ResumeText: "too short"},
		{ResumeText: "                         x                "},
		{ResumeText: resumeText, Source: "fax"},
	}
	for _, req := range tests {
		_, err := svc.Analyze(ctx, user, req)
		var ve *types.ErrValidation
		require.ErrorAs(t, err, &ve, "request %+v", req)
	}

	assert.Empty(t, store.resumes)
	status, err := ledger.Status(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, 0, status.Used.Resume)
}

func TestService_AnalyzeStoreFailureDoesNotConsumeQuota(t *testing.T) {
	ctx := context.Background()
	svc, store, ledger := newTestService(3)
	store.err = errors.New("disk full")
	user := uuid.New()

	_, err := svc.Analyze(ctx, user, types.AnalyzeResumeRequest{ResumeText: resumeText})
	require.Error(t, err)

	status, err := ledger.Status(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, 0, status.Used.Resume)
}

func TestService_GetAndHistory(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(30)
	owner := uuid.New()

	items, err := svc.History(ctx, owner)
	require.NoError(t, err)
	assert.NotNil(t, items)

	var last uuid.UUID
	for i := 0; i < HistoryLimit+2; i++ {
		res, err := svc.Analyze(ctx, owner, types.AnalyzeResumeRequest{ResumeText: resumeText + strings.Repeat(" more", i), Source: types.ResumeSourceUpload})
		require.NoError(t, err)
		last = res.ResumeID
	}

	items, err = svc.History(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, items, HistoryLimit)
	assert.Equal(t, last, items[0].ID)

	r, err := svc.Get(ctx, owner, last)
	require.NoError(t, err)
	assert.Equal(t, types.ResumeSourceUpload, r.Source)

	_, err = svc.Get(ctx, uuid.New(), last)
	var nf *types.ErrNotFound
	require.ErrorAs(t, err, &nf)
}
