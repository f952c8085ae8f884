package quota

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/career-coach/internal/types"
)

type counterKey struct {
	userID uuid.UUID
	period string
}

// MemoryStore is an in-process Store for tests and offline commands.
type MemoryStore struct {
	mu       sync.Mutex
	counters map[counterKey]*types.QuotaCounter
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{counters: make(map[counterKey]*types.QuotaCounter)}
}

// GetOrCreateCounter returns a copy of the counter, creating a zero row if needed.
func (m *MemoryStore) GetOrCreateCounter(_ context.Context, userID uuid.UUID, period string) (*types.QuotaCounter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.getOrCreate(userID, period)
	cp := *c
	return &cp, nil
}

// IncrementCounter adds one to the kind's field and returns the updated row.
func (m *MemoryStore) IncrementCounter(_ context.Context, userID uuid.UUID, period string, kind types.QuotaKind) (*types.QuotaCounter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.getOrCreate(userID, period)
	if kind == types.QuotaInterview {
		c.InterviewsUsed++
	} else {
		c.ResumeAnalysesUsed++
	}
	c.UpdatedAt = time.Now()
	cp := *c
	return &cp, nil
}

// GetCounter returns nil, nil when no row exists.
func (m *MemoryStore) GetCounter(_ context.Context, userID uuid.UUID, period string) (*types.QuotaCounter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.counters[counterKey{userID, period}]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

// Len returns the number of stored rows.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.counters)
}

func (m *MemoryStore) getOrCreate(userID uuid.UUID, period string) *types.QuotaCounter {
	key := counterKey{userID, period}
	c, ok := m.counters[key]
	if !ok {
		now := time.Now()
		c = &types.QuotaCounter{UserID: userID, Period: period, CreatedAt: now, UpdatedAt: now}
		m.counters[key] = c
	}
	return c
}
