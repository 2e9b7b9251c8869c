package status

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/alexchirea/digital-wallet-api/pkg/sentinel"
	txcontext "github.com/alexchirea/digital-wallet-api/pkg/tx"
)

// PostgresStore persists the status registry. Each mutation is a single
// statement, so revoked/reason/updated_at can never be torn apart; row-level
// locking serializes concurrent writes against the same credential id.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) Initialize(ctx context.Context, id uuid.UUID, now time.Time) error {
	query := `
		INSERT INTO status_registry (credential_id, revoked, updated_at)
		VALUES ($1, false, $2)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query, id, now)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("initialize status: %w", err)
	}
	return nil
}

func (s *PostgresStore) Find(ctx context.Context, id uuid.UUID) (*Record, error) {
	query := `
		SELECT credential_id, revoked, revocation_reason, updated_at
		FROM status_registry
		WHERE credential_id = $1
	`
	var record Record
	err := s.execer(ctx).QueryRowContext(ctx, query, id).Scan(
		&record.CredentialID, &record.Revoked, &record.RevocationReason, &record.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find status: %w", err)
	}
	return &record, nil
}

func (s *PostgresStore) Revoke(ctx context.Context, id uuid.UUID, reason string, now time.Time) error {
	query := `
		INSERT INTO status_registry (credential_id, revoked, revocation_reason, updated_at)
		VALUES ($1, true, $2, $3)
		ON CONFLICT (credential_id) DO UPDATE SET
			revoked = true,
			revocation_reason = EXCLUDED.revocation_reason,
			updated_at = EXCLUDED.updated_at
	`
	_, err := s.execer(ctx).ExecContext(ctx, query, id, reason, now)
	if err != nil {
		return fmt.Errorf("revoke credential: %w", err)
	}
	return nil
}
