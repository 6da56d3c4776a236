// Package database owns the SQLite connection pool: opening it, applying the
// embedded schema migrations, and handing one dedicated connection to each
// request.
package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

//go:embed migrations/*.sql
var migrations embed.FS

const driverName = "sqlite"

// goose keeps its base FS and dialect in package globals.
var migrateMu sync.Mutex

// DBTX is the subset of database/sql used by the repositories. *sql.DB and
// *sql.Conn both satisfy it.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Open opens (creating if needed) the SQLite file at path with foreign keys
// enforced, and verifies the connection.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	return db, nil
}

// Migrate applies every pending migration. Safe to call repeatedly.
func Migrate(ctx context.Context, db *sql.DB) error {
	migrateMu.Lock()
	defer migrateMu.Unlock()

	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

type connKey struct{}

// Acquire checks a dedicated connection out of the pool and returns a
// context carrying it. The caller must invoke release on every path.
func Acquire(ctx context.Context, db *sql.DB) (context.Context, func(), error) {
	conn, err := db.Conn(ctx)
	if err != nil {
		return ctx, func() {}, fmt.Errorf("failed to acquire connection: %w", err)
	}
	release := func() { _ = conn.Close() }
	return context.WithValue(ctx, connKey{}, conn), release, nil
}

// Handle returns the connection checked out for ctx by Acquire, or the pool
// itself when ctx carries none (CLI commands, tests).
func Handle(ctx context.Context, db *sql.DB) DBTX {
	if conn, ok := ctx.Value(connKey{}).(*sql.Conn); ok {
		return conn
	}
	return db
}
