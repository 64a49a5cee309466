package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// schemaVersion is the compiled-in schema version, tracked in the
// schema_version table. Any mismatch wipes and recreates both data
// tables; there is no data-preserving migration.
const schemaVersion = 1

const (
	createVersionTable = `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)
	`

	createUsersTable = `
		CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			username TEXT NOT NULL,
			password_hash TEXT NOT NULL
		)
	`

	createItemsTable = `
		CREATE TABLE IF NOT EXISTS inventoryitems (
			id BIGSERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			quantity INTEGER NOT NULL,
			user_id BIGINT REFERENCES users(id)
		)
	`
)

// EnsureSchema brings the database to the compiled-in schema version.
// A fresh database gets both tables created; a database at any other
// version is wiped and recreated, matching the embedded store's policy.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, createVersionTable); err != nil {
		return fmt.Errorf("failed to create version table: %w", err)
	}

	var version int
	err := db.Pool.QueryRow(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil && !isNoRows(err) {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	if err == nil && version == schemaVersion {
		return nil
	}

	if err == nil {
		db.logger.Warn().
			Int("found", version).
			Int("expected", schemaVersion).
			Msg("schema version mismatch, dropping all tables")
	}

	return db.Reset(ctx)
}

// Reset unconditionally drops both data tables, recreates them, and
// stamps the current schema version. All rows are lost.
func (db *DB) Reset(ctx context.Context) error {
	err := db.WithTx(ctx, func(tx pgx.Tx) error {
		stmts := []string{
			"DROP TABLE IF EXISTS inventoryitems",
			"DROP TABLE IF EXISTS users",
			createUsersTable,
			createItemsTable,
			"DELETE FROM schema_version",
		}
		for _, stmt := range stmts {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("failed to reset schema: %w", err)
			}
		}
		if _, err := tx.Exec(ctx, "INSERT INTO schema_version (version) VALUES ($1)", schemaVersion); err != nil {
			return fmt.Errorf("failed to stamp schema version: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	db.logger.Info().Int("version", schemaVersion).Msg("database schema reset")
	return nil
}
