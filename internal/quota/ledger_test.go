package quota

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/career-coach/internal/types"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestPeriodKey(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{"mid month", time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC), "2026-03"},
		{"december", time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC), "2025-12"},
		{"local time crosses into next UTC month", time.Date(2026, 1, 31, 20, 0, 0, 0, time.FixedZone("EST", -5*3600)), "2026-02"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PeriodKey(tt.in))
		})
	}
}

func TestLedger_IncrementIsCumulative(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	l := NewLedger(store, Limits{ResumeAnalyses: 10, Interviews: 10}, nil)
	user := uuid.New()

	for i := 1; i <= 7; i++ {
		snap, err := l.Increment(ctx, user, types.QuotaResumeAnalysis)
		require.NoError(t, err)
		assert.Equal(t, i, snap.Used)
		assert.Equal(t, 10-i, snap.Remaining)
	}
	assert.Equal(t, 1, store.Len())

	status, err := l.Status(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, 7, status.Used.Resume)
	assert.Equal(t, 0, status.Used.Interview)
}

func TestLedger_DeniesExactlyAtLimit(t *testing.T) {
	ctx := context.Background()
	l := NewLedger(NewMemoryStore(), Limits{ResumeAnalyses: 3, Interviews: 2}, nil)
	user := uuid.New()

	for i := 0; i < 2; i++ {
		d, err := l.Check(ctx, user, types.QuotaInterview)
		require.NoError(t, err)
		assert.True(t, d.Allowed, "check %d should be allowed", i)
		assert.NoError(t, d.Err())
		_, err = l.Increment(ctx, user, types.QuotaInterview)
		require.NoError(t, err)
	}

	d, err := l.Check(ctx, user, types.QuotaInterview)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 2, d.Used)
	assert.Equal(t, 0, d.Remaining)

	_, err = l.Require(ctx, user, types.QuotaInterview)
	var qe *types.ErrQuotaExceeded
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, 2, qe.Limit)
	assert.Equal(t, 2, qe.Used)
	assert.Equal(t, types.QuotaInterview, qe.Kind)

	// the other kind is independent
	d, err = l.Check(ctx, user, types.QuotaResumeAnalysis)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestLedger_ZeroLimitDeniesImmediately(t *testing.T) {
	l := NewLedger(NewMemoryStore(), Limits{}, nil)
	d, err := l.Check(context.Background(), uuid.New(), types.QuotaResumeAnalysis)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
}

func TestLedger_PeriodRollover(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	l := NewLedger(store, Limits{ResumeAnalyses: 1, Interviews: 1}, nil).
		WithClock(fixedClock(time.Date(2026, 4, 30, 10, 0, 0, 0, time.UTC)))
	user := uuid.New()

	_, err := l.Increment(ctx, user, types.QuotaResumeAnalysis)
	require.NoError(t, err)
	d, err := l.Check(ctx, user, types.QuotaResumeAnalysis)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, "2026-04", d.Period)

	l.WithClock(fixedClock(time.Date(2026, 5, 1, 0, 0, 1, 0, time.UTC)))
	d, err = l.Check(ctx, user, types.QuotaResumeAnalysis)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, "2026-05", d.Period)
	assert.Equal(t, 2, store.Len())
}

func TestLedger_StatusDoesNotCreateRows(t *testing.T) {
	store := NewMemoryStore()
	l := NewLedger(store, DefaultLimits(), nil).
		WithClock(fixedClock(time.Date(2026, 7, 4, 0, 0, 0, 0, time.UTC)))

	status, err := l.Status(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 0, store.Len())
	assert.Equal(t, types.UsageStatus{
		Period:    "2026-07",
		Limits:    types.UsageCounts{Resume: DefaultResumeAnalyses, Interview: DefaultInterviews},
		Used:      types.UsageCounts{},
		Remaining: types.UsageCounts{Resume: DefaultResumeAnalyses, Interview: DefaultInterviews},
	}, status)
}

func TestLedger_ConcurrentIncrements(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	l := NewLedger(store, Limits{ResumeAnalyses: 100, Interviews: 100}, nil)
	user := uuid.New()

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = l.Increment(ctx, user, types.QuotaInterview)
		}()
	}
	wg.Wait()

	status, err := l.Status(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, 25, status.Used.Interview)
}

type failingStore struct{ *MemoryStore }

func (f *failingStore) GetOrCreateCounter(context.Context, uuid.UUID, string) (*types.QuotaCounter, error) {
	return nil, errors.New("connection refused")
}

func TestLedger_StoreErrorIsWrapped(t *testing.T) {
	l := NewLedger(&failingStore{MemoryStore: NewMemoryStore()}, DefaultLimits(), nil)
	_, err := l.Check(context.Background(), uuid.New(), types.QuotaInterview)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	var qe *types.ErrQuotaExceeded
	assert.False(t, errors.As(err, &qe))
}
