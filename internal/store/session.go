package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/robalobadob/pairs/internal/game"
	"github.com/robalobadob/pairs/internal/sqldb"
)

// Session is the Storage slot of one client session inside a Backend.
type Session struct {
	backend Backend
	id      string
}

// NewSession binds a session id to a backend.
func NewSession(b Backend, id string) *Session {
	return &Session{backend: b, id: id}
}

// ID returns the session id the slot is bound to.
func (s *Session) ID() string { return s.id }

func (s *Session) Get(ctx context.Context) (*game.State, error) {
	data, err := s.backend.Load(ctx, s.id)
	if err != nil {
		return nil, err
	}
	return decodeOrMiss(data, s.id)
}

func (s *Session) Set(ctx context.Context, st *game.State) error {
	data, err := Encode(st)
	if err != nil {
		return err
	}
	return s.backend.Save(ctx, s.id, data)
}

// SQLBackend keeps encoded states in the `sessions` table.
type SQLBackend struct {
	db  *sqldb.DB
	now func() time.Time
}

// NewSQLBackend wraps an open, migrated database.
func NewSQLBackend(db *sqldb.DB) *SQLBackend {
	return &SQLBackend{db: db, now: time.Now}
}

func (b *SQLBackend) Load(ctx context.Context, id string) ([]byte, error) {
	var data []byte
	err := b.db.SQL.QueryRowContext(ctx,
		b.db.Rebind(`SELECT state FROM sessions WHERE id=?`), id,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return data, err
}

// Save upserts the row; the last write wins.
func (b *SQLBackend) Save(ctx context.Context, id string, data []byte) error {
	_, err := b.db.SQL.ExecContext(ctx, b.db.Rebind(`
        INSERT INTO sessions (id, state, updated_at)
        VALUES (?, ?, ?)
        ON CONFLICT (id) DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at`),
		id, data, b.now().Unix(),
	)
	return err
}
