// Package quota enforces the monthly free allowance for gated operations.
package quota

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/career-coach/internal/logger"
	"github.com/jonathan/career-coach/internal/types"
)

// Default monthly limits
const (
	DefaultResumeAnalyses = 3
	DefaultInterviews     = 5
)

// PeriodLayout is the time layout of a period key.
const PeriodLayout = "2006-01"

// Store persists quota counters. Implementations must make IncrementCounter a
// single atomic upsert keyed by (user, period).
type Store interface {
	GetOrCreateCounter(ctx context.Context, userID uuid.UUID, period string) (*types.QuotaCounter, error)
	IncrementCounter(ctx context.Context, userID uuid.UUID, period string, kind types.QuotaKind) (*types.QuotaCounter, error)
	// GetCounter returns nil, nil when no row exists.
	GetCounter(ctx context.Context, userID uuid.UUID, period string) (*types.QuotaCounter, error)
}

// Limits are the monthly allowances per quota kind.
type Limits struct {
	ResumeAnalyses int
	Interviews     int
}

// DefaultLimits returns the built-in allowances.
func DefaultLimits() Limits {
	return Limits{ResumeAnalyses: DefaultResumeAnalyses, Interviews: DefaultInterviews}
}

// For returns the limit for kind.
func (l Limits) For(kind types.QuotaKind) int {
	if kind == types.QuotaInterview {
		return l.Interviews
	}
	return l.ResumeAnalyses
}

// Decision is the outcome of a quota check.
type Decision struct {
	Allowed   bool
	Kind      types.QuotaKind
	Period    string
	Limit     int
	Used      int
	Remaining int
}

// Err returns an ErrQuotaExceeded for a denied decision and nil otherwise.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return &types.ErrQuotaExceeded{Kind: d.Kind, Period: d.Period, Limit: d.Limit, Used: d.Used}
}

// Ledger checks and consumes monthly allowances.
type Ledger struct {
	store  Store
	limits Limits
	now    func() time.Time
	logger *zap.Logger
}

// NewLedger creates a ledger over store.
func NewLedger(store Store, limits Limits, log *zap.Logger) *Ledger {
	return &Ledger{
		store:  store,
		limits: limits,
		now:    time.Now,
		logger: logger.OrNop(log),
	}
}

// WithClock replaces the wall clock used to derive the period key.
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	l.now = now
	return l
}

// Limits returns the configured allowances.
func (l *Ledger) Limits() Limits {
	return l.limits
}

// PeriodKey returns the UTC calendar month of t as "YYYY-MM".
func PeriodKey(t time.Time) string {
	return t.UTC().Format(PeriodLayout)
}

// CurrentPeriod returns the period key for the ledger's clock.
func (l *Ledger) CurrentPeriod() string {
	return PeriodKey(l.now())
}

// Check fetches or creates the caller's counter and decides whether one more
// operation of kind is allowed. It does not consume anything.
func (l *Ledger) Check(ctx context.Context, userID uuid.UUID, kind types.QuotaKind) (Decision, error) {
	period := l.CurrentPeriod()
	counter, err := l.store.GetOrCreateCounter(ctx, userID, period)
	if err != nil {
		return Decision{}, fmt.Errorf("failed to load quota counter: %w", err)
	}

	d := l.decide(kind, period, counter.Used(kind))
	if !d.Allowed {
		l.logger.Info("quota exhausted",
			zap.String(logger.FieldUserID, userID.String()),
			zap.String("kind", string(kind)),
			zap.String("period", period),
			zap.Int("used", d.Used),
			zap.Int("limit", d.Limit),
		)
	}
	return d, nil
}

// Require is Check that returns ErrQuotaExceeded when the decision is a denial.
func (l *Ledger) Require(ctx context.Context, userID uuid.UUID, kind types.QuotaKind) (Decision, error) {
	d, err := l.Check(ctx, userID, kind)
	if err != nil {
		return Decision{}, err
	}
	return d, d.Err()
}

// Increment consumes one unit of kind and returns the post-increment snapshot.
func (l *Ledger) Increment(ctx context.Context, userID uuid.UUID, kind types.QuotaKind) (types.QuotaSnapshot, error) {
	period := l.CurrentPeriod()
	counter, err := l.store.IncrementCounter(ctx, userID, period, kind)
	if err != nil {
		return types.QuotaSnapshot{}, fmt.Errorf("failed to increment quota counter: %w", err)
	}
	return l.snapshot(kind, period, counter.Used(kind)), nil
}

// Status reports both quota kinds for the current period without writing.
func (l *Ledger) Status(ctx context.Context, userID uuid.UUID) (types.UsageStatus, error) {
	period := l.CurrentPeriod()
	counter, err := l.store.GetCounter(ctx, userID, period)
	if err != nil {
		return types.UsageStatus{}, fmt.Errorf("failed to read quota counter: %w", err)
	}

	resume := l.snapshot(types.QuotaResumeAnalysis, period, counter.Used(types.QuotaResumeAnalysis))
	interview := l.snapshot(types.QuotaInterview, period, counter.Used(types.QuotaInterview))

	return types.UsageStatus{
		Period:    period,
		Limits:    types.UsageCounts{Resume: resume.Limit, Interview: interview.Limit},
		Used:      types.UsageCounts{Resume: resume.Used, Interview: interview.Used},
		Remaining: types.UsageCounts{Resume: resume.Remaining, Interview: interview.Remaining},
	}, nil
}

func (l *Ledger) decide(kind types.QuotaKind, period string, used int) Decision {
	s := l.snapshot(kind, period, used)
	return Decision{
		Allowed:   used < s.Limit,
		Kind:      kind,
		Period:    period,
		Limit:     s.Limit,
		Used:      used,
		Remaining: s.Remaining,
	}
}

func (l *Ledger) snapshot(kind types.QuotaKind, period string, used int) types.QuotaSnapshot {
	limit := l.limits.For(kind)
	remaining := limit - used
	if remaining < 0 {
		remaining = 0
	}
	return types.QuotaSnapshot{Period: period, Limit: limit, Used: used, Remaining: remaining}
}
