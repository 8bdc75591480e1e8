package scores

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/robalobadob/pairs/internal/sqldb"
)

func openTestDB(t *testing.T) *sqldb.DB {
	t.Helper()
	ctx := context.Background()
	db, err := sqldb.Open(ctx, sqldb.DriverSQLite, filepath.Join(t.TempDir(), "pairs.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// steppingClock returns a clock that moves one second per call.
func steppingClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

func ledgers(t *testing.T) map[string]Ledger {
	sqlLedger := NewSQLLedger(openTestDB(t))
	sqlLedger.now = steppingClock()
	return map[string]Ledger{
		"sql":    sqlLedger,
		"memory": NewMemoryLedger(steppingClock()),
	}
}

func TestAppendAssignsIDAndTimestamp(t *testing.T) {
	for name, l := range ledgers(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			a, err := l.Append(ctx, 81)
			if err != nil {
				t.Fatalf("Append: %v", err)
			}
			b, err := l.Append(ctx, 82)
			if err != nil {
				t.Fatalf("Append: %v", err)
			}
			if a.ID == 0 || b.ID == 0 || a.ID == b.ID {
				t.Fatalf("ids not assigned: %d %d", a.ID, b.ID)
			}
			if a.ElapsedSeconds != 81 || a.CreatedAt.IsZero() {
				t.Fatalf("unexpected record %+v", a)
			}
			if _, err := l.Append(ctx, -1); !errors.Is(err, ErrNegativeScore) {
				t.Fatalf("negative score err = %v", err)
			}
		})
	}
}

func TestTopOrdering(t *testing.T) {
	for name, l := range ledgers(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			var tiedFirst Record
			for i, s := range []int{90, 82, 86, 82, 120} {
				r, err := l.Append(ctx, s)
				if err != nil {
					t.Fatalf("Append: %v", err)
				}
				if i == 1 {
					tiedFirst = r
				}
			}
			top, err := l.Top(ctx, DefaultLimit)
			if err != nil {
				t.Fatalf("Top: %v", err)
			}
			want := []int{82, 82, 86, 90, 120}
			if len(top) != len(want) {
				t.Fatalf("len = %d, want %d", len(top), len(want))
			}
			for i, w := range want {
				if top[i].ElapsedSeconds != w {
					t.Fatalf("top[%d] = %d, want %d", i, top[i].ElapsedSeconds, w)
				}
			}
			// Earliest achievement wins the tie.
			if top[0].ID != tiedFirst.ID || !top[0].CreatedAt.Before(top[1].CreatedAt) {
				t.Fatalf("tie broken wrongly: %+v then %+v", top[0], top[1])
			}
			if !top[0].CreatedAt.Equal(tiedFirst.CreatedAt) {
				t.Fatalf("created_at did not round-trip: %v vs %v", top[0].CreatedAt, tiedFirst.CreatedAt)
			}
		})
	}
}

func TestTopLimit(t *testing.T) {
	for name, l := range ledgers(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for i := 0; i < 15; i++ {
				if _, err := l.Append(ctx, 100-i); err != nil {
					t.Fatalf("Append: %v", err)
				}
			}
			top, err := l.Top(ctx, 0)
			if err != nil {
				t.Fatalf("Top: %v", err)
			}
			if len(top) != DefaultLimit {
				t.Fatalf("len = %d, want %d", len(top), DefaultLimit)
			}
			if top[0].ElapsedSeconds != 86 {
				t.Fatalf("best = %d, want 86", top[0].ElapsedSeconds)
			}
			three, _ := l.Top(ctx, 3)
			if len(three) != 3 {
				t.Fatalf("len = %d, want 3", len(three))
			}
		})
	}
}

func TestTopEmpty(t *testing.T) {
	for name, l := range ledgers(t) {
		t.Run(name, func(t *testing.T) {
			top, err := l.Top(context.Background(), DefaultLimit)
			if err != nil {
				t.Fatalf("Top: %v", err)
			}
			if len(top) != 0 {
				t.Fatalf("expected no scores, got %d", len(top))
			}
		})
	}
}

func TestConcurrentAppends(t *testing.T) {
	for name, l := range ledgers(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			var wg sync.WaitGroup
			errs := make(chan error, 20)
			for i := 0; i < 20; i++ {
				wg.Add(1)
				go func(n int) {
					defer wg.Done()
					if _, err := l.Append(ctx, n); err != nil {
						errs <- err
					}
				}(i)
			}
			wg.Wait()
			close(errs)
			for err := range errs {
				t.Fatalf("concurrent Append: %v", err)
			}
			top, _ := l.Top(ctx, 50)
			if len(top) != 20 {
				t.Fatalf("rows = %d, want 20", len(top))
			}
		})
	}
}
