// internal/scores/ledger.go
//
// Leaderboard persistence.
// Exposes:
//   - Append: insert one completed-run duration (never updates).
//   - Top:    best runs, fastest first, earliest achievement first on ties.
//
// Two implementations share the Ledger interface: SQLLedger (sqlite3 or
// postgres through sqldb) and MemoryLedger (tests, DB-less runs).

package scores

import (
	"context"
	"errors"
	"time"

	"github.com/robalobadob/pairs/internal/sqldb"
)

// DefaultLimit is the leaderboard size served to clients.
const DefaultLimit = 10

// Record is one completed run.
type Record struct {
	ID             int64     `json:"id"`
	ElapsedSeconds int       `json:"elapsed_seconds"`
	CreatedAt      time.Time `json:"created_at"`
}

// Ledger is an append-only score table.
type Ledger interface {
	Append(ctx context.Context, elapsedSeconds int) (Record, error)
	Top(ctx context.Context, limit int) ([]Record, error)
}

var ErrNegativeScore = errors.New("elapsed seconds must not be negative")

// SQLLedger stores scores in the `scores` table.
type SQLLedger struct {
	db  *sqldb.DB
	now func() time.Time
}

// NewSQLLedger wraps an open, migrated database.
func NewSQLLedger(db *sqldb.DB) *SQLLedger {
	return &SQLLedger{db: db, now: time.Now}
}

// Append inserts a new row and returns it with its id and timestamp.
func (l *SQLLedger) Append(ctx context.Context, elapsedSeconds int) (Record, error) {
	if elapsedSeconds < 0 {
		return Record{}, ErrNegativeScore
	}
	created := l.now().UTC().Truncate(time.Microsecond)
	r := Record{ElapsedSeconds: elapsedSeconds, CreatedAt: created}
	err := l.db.SQL.QueryRowContext(ctx, l.db.Rebind(`
        INSERT INTO scores (elapsed_seconds, created_at)
        VALUES (?, ?)
        RETURNING id`),
		elapsedSeconds, created.UnixMicro(),
	).Scan(&r.ID)
	if err != nil {
		return Record{}, err
	}
	return r, nil
}

// Top fetches the fastest runs.
//
//   - Ordered by elapsed time ASC, then created_at ASC, then id ASC.
//   - Non-positive limit falls back to DefaultLimit.
func (l *SQLLedger) Top(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	rows, err := l.db.SQL.QueryContext(ctx, l.db.Rebind(`
        SELECT id, elapsed_seconds, created_at
        FROM scores
        ORDER BY elapsed_seconds ASC, created_at ASC, id ASC
        LIMIT ?`), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Record, 0, limit)
	for rows.Next() {
		var r Record
		var created int64
		if err := rows.Scan(&r.ID, &r.ElapsedSeconds, &created); err != nil {
			return nil, err
		}
		r.CreatedAt = time.UnixMicro(created).UTC()
		out = append(out, r)
	}
	return out, rows.Err()
}
