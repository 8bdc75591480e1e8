package scores

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryLedger keeps scores in process memory. State is lost on restart.
type MemoryLedger struct {
	mu     sync.Mutex
	rows   []Record
	nextID int64
	now    func() time.Time
}

// NewMemoryLedger constructs an empty ledger. A nil clock means time.Now.
func NewMemoryLedger(now func() time.Time) *MemoryLedger {
	if now == nil {
		now = time.Now
	}
	return &MemoryLedger{now: now}
}

func (m *MemoryLedger) Append(ctx context.Context, elapsedSeconds int) (Record, error) {
	if elapsedSeconds < 0 {
		return Record{}, ErrNegativeScore
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	r := Record{
		ID:             m.nextID,
		ElapsedSeconds: elapsedSeconds,
		CreatedAt:      m.now().UTC().Truncate(time.Microsecond),
	}
	m.rows = append(m.rows, r)
	return r, nil
}

func (m *MemoryLedger) Top(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	m.mu.Lock()
	out := make([]Record, len(m.rows))
	copy(out, m.rows)
	m.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Len reports how many scores were appended.
func (m *MemoryLedger) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

func less(a, b Record) bool {
	if a.ElapsedSeconds != b.ElapsedSeconds {
		return a.ElapsedSeconds < b.ElapsedSeconds
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}
