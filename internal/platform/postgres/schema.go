package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// schemaStatements is the full DDL for the wallet database. Statements are
// idempotent so EnsureSchema can run on every boot.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		root_identity_hash TEXT NOT NULL UNIQUE,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		national_id TEXT NOT NULL,
		email TEXT NOT NULL,
		device_public_key TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS status_registry (
		credential_id UUID PRIMARY KEY,
		revoked BOOLEAN NOT NULL DEFAULT FALSE,
		revocation_reason TEXT,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS audit_outbox (
		id UUID PRIMARY KEY,
		action TEXT NOT NULL,
		payload JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		published_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_audit_outbox_unpublished
		ON audit_outbox (created_at) WHERE published_at IS NULL`,
}

// EnsureSchema creates the wallet tables if they do not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
