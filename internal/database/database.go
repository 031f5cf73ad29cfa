// Package database provides the SQLite-backed persistence layer for
// steward. It owns connection setup, pragma configuration, transaction
// helpers, and schema migrations; DAOs in internal/store build on it.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/codemarcinu/steward/internal/types"
)

// DB wraps the sql.DB connection pool with steward-specific helpers.
type DB struct {
	conn *sql.DB
	path string
}

// Config controls connection pool and pragma behavior.
type Config struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	BusyTimeout     time.Duration
}

// DefaultConfig returns sensible defaults for a single-user assistant.
func DefaultConfig(path string) Config {
	return Config{
		Path:            path,
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Hour,
		BusyTimeout:     5 * time.Second,
	}
}

// Open opens the database at path with default configuration.
func Open(path string) (*DB, error) {
	return OpenWithConfig(DefaultConfig(path))
}

// OpenWithConfig opens the database with explicit configuration. The
// parent directory is created if missing, WAL journaling and foreign
// keys are enabled via the DSN and then verified, so a misconfigured
// driver fails fast instead of corrupting data later.
func OpenWithConfig(cfg Config) (*DB, error) {
	if cfg.Path == "" {
		return nil, types.NewError(types.DB_OPEN_FAILED, "database path is empty")
	}

	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, types.WrapError(types.DB_OPEN_FAILED, fmt.Sprintf("create database directory %s", dir), err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=%d",
		cfg.Path, cfg.BusyTimeout.Milliseconds())

	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, types.WrapError(types.DB_OPEN_FAILED, "open sqlite database", err)
	}

	conn.SetMaxOpenConns(cfg.MaxOpenConns)
	conn.SetMaxIdleConns(cfg.MaxIdleConns)
	conn.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, types.WrapError(types.DB_OPEN_FAILED, "ping database", err)
	}

	var journalMode string
	if err := conn.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&journalMode); err != nil {
		conn.Close()
		return nil, types.WrapError(types.DB_OPEN_FAILED, "check journal mode", err)
	}
	if journalMode != "wal" {
		conn.Close()
		return nil, types.NewError(types.DB_OPEN_FAILED, fmt.Sprintf("journal mode is %q, want wal", journalMode))
	}

	var foreignKeys int
	if err := conn.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&foreignKeys); err != nil {
		conn.Close()
		return nil, types.WrapError(types.DB_OPEN_FAILED, "check foreign keys", err)
	}
	if foreignKeys != 1 {
		conn.Close()
		return nil, types.NewError(types.DB_OPEN_FAILED, "foreign key enforcement is disabled")
	}

	return &DB{conn: conn, path: cfg.Path}, nil
}

// InitSchema applies all pending migrations.
func (db *DB) InitSchema(ctx context.Context) error {
	return NewMigrator(db).Migrate(ctx)
}

// Close closes the underlying connection pool.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	return db.conn.Close()
}

// Conn exposes the raw pool for DAOs.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Path returns the filesystem path of the database file.
func (db *DB) Path() string {
	return db.path
}

// Health verifies the connection is alive.
func (db *DB) Health(ctx context.Context) error {
	if err := db.conn.PingContext(ctx); err != nil {
		return types.WrapError(types.DB_QUERY_FAILED, "database health check", err)
	}
	return nil
}

// WithTx runs fn inside a transaction. The transaction is rolled back
// when fn returns an error or panics; the panic is re-raised after
// rollback so callers still observe it.
func (db *DB) WithTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return types.WrapError(types.DB_QUERY_FAILED, "begin transaction", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return types.WrapError(types.DB_QUERY_FAILED, fmt.Sprintf("rollback after %v", err), rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return types.WrapError(types.DB_QUERY_FAILED, "commit transaction", err)
	}
	return nil
}

// ExecContext executes a statement against the pool.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.conn.ExecContext(ctx, query, args...)
}

// QueryContext runs a query against the pool.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.conn.QueryContext(ctx, query, args...)
}

// QueryRowContext runs a single-row query against the pool.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.conn.QueryRowContext(ctx, query, args...)
}
