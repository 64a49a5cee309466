// Package sqlite provides the embedded store. It rides on
// modernc.org/sqlite, a pure Go driver, so the binaries stay
// CGO-free and cross-compile cleanly.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/rs/zerolog"
)

// schemaVersion is the compiled-in schema version, tracked in SQLite's
// user_version pragma. Any mismatch on open wipes and recreates both
// tables; there is no data-preserving migration.
const schemaVersion = 1

const (
	createUsersTable = `
		CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL,
			password_hash TEXT NOT NULL
		)
	`

	createItemsTable = `
		CREATE TABLE IF NOT EXISTS inventoryitems (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			quantity INTEGER NOT NULL,
			user_id INTEGER REFERENCES users(id)
		)
	`
)

// Config holds SQLite connection settings.
type Config struct {
	// Path is the database file. ":memory:" works but gives every
	// connection its own private database, so pair it with a single
	// connection.
	Path string

	// Pool knobs. SQLite allows one writer at a time, so the default
	// keeps a single connection and lets busy_timeout do the queueing.
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// JournalMode is the journal pragma, WAL by default.
	JournalMode string

	// BusyTimeout is the lock wait in milliseconds.
	BusyTimeout int

	// CacheSize is the page cache pragma value: negative means KB,
	// positive means pages.
	CacheSize int

	// SynchronousMode is NORMAL, FULL, or OFF.
	SynchronousMode string
}

// DefaultConfig returns the settings the binaries start from.
func DefaultConfig(dbPath string) Config {
	return Config{
		Path:            dbPath,
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
		JournalMode:     "WAL",
		BusyTimeout:     5000,
		CacheSize:       -2000,
		SynchronousMode: "NORMAL",
	}
}

// DB wraps a sql.DB connection for SQLite.
type DB struct {
	db     *sql.DB
	logger zerolog.Logger
	path   string
}

// NewDB opens the database file and verifies the connection.
func NewDB(ctx context.Context, cfg Config, logger zerolog.Logger) (*DB, error) {
	// modernc.org/sqlite applies pragmas via _pragma=name(value) query
	// parameters on the connection string.
	connStr := fmt.Sprintf(
		"%s?_pragma=journal_mode(%s)&_pragma=busy_timeout(%d)&_pragma=cache_size(%d)&_pragma=synchronous(%s)&_pragma=foreign_keys(1)",
		cfg.Path,
		cfg.JournalMode,
		cfg.BusyTimeout,
		cfg.CacheSize,
		cfg.SynchronousMode,
	)

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	logger.Debug().
		Str("path", cfg.Path).
		Str("journal_mode", cfg.JournalMode).
		Int("max_conns", cfg.MaxOpenConns).
		Msg("connected to SQLite database")

	return &DB{
		db:     db,
		logger: logger,
		path:   cfg.Path,
	}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.db.Close()
}

// Ping checks the database connection.
func (db *DB) Ping(ctx context.Context) error {
	return db.db.PingContext(ctx)
}

// WithTx runs fn inside a transaction: rolled back when fn errors or
// panics, committed otherwise.
func (db *DB) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ExecContext executes a query without returning rows.
func (db *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

// QueryContext executes a query that returns rows.
func (db *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// QueryRowContext executes a query that returns a single row.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

// EnsureSchema brings the database to the compiled-in schema version.
// A fresh database gets both tables created; a database at any other
// version is wiped and recreated. There is intentionally no upgrade
// path that preserves rows.
func (db *DB) EnsureSchema(ctx context.Context) error {
	var version int
	if err := db.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	if version == schemaVersion {
		return nil
	}

	if version != 0 {
		db.logger.Warn().
			Int("found", version).
			Int("expected", schemaVersion).
			Msg("schema version mismatch, dropping all tables")
	}

	return db.Reset(ctx)
}

// Reset unconditionally drops both tables, recreates them, and stamps
// the current schema version. All rows are lost.
func (db *DB) Reset(ctx context.Context) error {
	err := db.WithTx(ctx, func(tx *sql.Tx) error {
		stmts := []string{
			"DROP TABLE IF EXISTS inventoryitems",
			"DROP TABLE IF EXISTS users",
			createUsersTable,
			createItemsTable,
		}
		for _, stmt := range stmts {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("failed to reset schema: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	// user_version does not accept bind parameters; the value is a
	// compiled-in constant.
	if _, err := db.db.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("failed to set schema version: %w", err)
	}

	db.logger.Info().Int("version", schemaVersion).Msg("database schema reset")
	return nil
}
