// internal/sqldb/db.go
//
// Database helpers for the Pairs server.
// Responsibilities:
//   - Opening SQLite (default) or PostgreSQL with safe defaults.
//   - Applying embedded migrations (idempotent, recorded in _migrations).
//   - Rewriting `?` placeholders for drivers that want `$n`.
//
// Queries throughout the repo are written with `?` and passed through Rebind.

package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Supported driver names, as registered with database/sql.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// DB wraps a *sql.DB with the driver it was opened with.
type DB struct {
	SQL    *sql.DB
	Driver string
}

// Open opens (and for SQLite creates if missing) the database.
//
// SQLite:
//   - Ensures the parent directory exists for relative paths (e.g. ./data/pairs.db).
//   - Configures busy timeout and WAL journaling mode.
//
// PostgreSQL:
//   - dsn is passed to lib/pq untouched and the connection is pinged.
func Open(ctx context.Context, driver, dsn string) (*DB, error) {
	switch driver {
	case DriverSQLite:
		return openSQLite(ctx, dsn)
	case DriverPostgres:
		db, err := sql.Open(DriverPostgres, dsn)
		if err != nil {
			return nil, err
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ping postgres: %w", err)
		}
		return &DB{SQL: db, Driver: driver}, nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
}

func openSQLite(ctx context.Context, dsn string) (*DB, error) {
	if dsn == "" {
		return nil, errors.New("empty sqlite path")
	}
	path := dsn
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	// Ensure directory exists for ./data/pairs.db, etc.
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	db, err := sql.Open(DriverSQLite, dsn+sep+"_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, `PRAGMA foreign_keys = ON; PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	return &DB{SQL: db, Driver: DriverSQLite}, nil
}

// Close releases the pool.
func (d *DB) Close() error { return d.SQL.Close() }

// Rebind rewrites `?` placeholders into the driver's native form.
func (d *DB) Rebind(query string) string { return Rebind(d.Driver, query) }

// Rebind is the driver-name form of DB.Rebind.
// Question marks inside single-quoted literals are left alone.
func Rebind(driver, query string) string {
	if driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	quoted := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			quoted = !quoted
			b.WriteByte(c)
		case c == '?' && !quoted:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
