package sqldb

import (
	"context"
	"path/filepath"
	"testing"
	"testing/fstest"
)

func TestRebind(t *testing.T) {
	cases := []struct {
		driver, in, want string
	}{
		{DriverSQLite, `SELECT 1 WHERE a=? AND b=?`, `SELECT 1 WHERE a=? AND b=?`},
		{DriverPostgres, `SELECT 1 WHERE a=? AND b=?`, `SELECT 1 WHERE a=$1 AND b=$2`},
		{DriverPostgres, `SELECT '?' WHERE a=?`, `SELECT '?' WHERE a=$1`},
		{DriverPostgres, `SELECT 1`, `SELECT 1`},
	}
	for _, tc := range cases {
		if got := Rebind(tc.driver, tc.in); got != tc.want {
			t.Fatalf("Rebind(%s, %q) = %q, want %q", tc.driver, tc.in, got, tc.want)
		}
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), "oracle", "x"); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, DriverSQLite, filepath.Join(t.TempDir(), "nested", "pairs.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	for i := 0; i < 2; i++ {
		if err := db.Migrate(ctx); err != nil {
			t.Fatalf("migrate pass %d: %v", i, err)
		}
	}

	var n int
	if err := db.SQL.QueryRowContext(ctx, `SELECT COUNT(1) FROM _migrations`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Fatalf("recorded migrations = %d, want 2", n)
	}
	for _, table := range []string{"scores", "sessions"} {
		if _, err := db.SQL.ExecContext(ctx, `SELECT 1 FROM `+table+` LIMIT 1`); err != nil {
			t.Fatalf("table %s missing: %v", table, err)
		}
	}
}

func TestMigrateRollsBackBrokenFile(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, DriverSQLite, filepath.Join(t.TempDir(), "pairs.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	src := fstest.MapFS{
		"001_ok.sql":     {Data: []byte(`CREATE TABLE ok (id INTEGER);`)},
		"002_broken.sql": {Data: []byte(`CREATE TABLE nope (`)},
	}
	if err := db.migrate(ctx, src); err == nil {
		t.Fatalf("expected broken migration to fail")
	}
	var n int
	_ = db.SQL.QueryRowContext(ctx, `SELECT COUNT(1) FROM _migrations WHERE name='002_broken.sql'`).Scan(&n)
	if n != 0 {
		t.Fatalf("broken migration was recorded")
	}
	_ = db.SQL.QueryRowContext(ctx, `SELECT COUNT(1) FROM _migrations WHERE name='001_ok.sql'`).Scan(&n)
	if n != 1 {
		t.Fatalf("first migration should be recorded")
	}
}
