package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/alexchirea/digital-wallet-api/internal/platform/fieldcrypt"
	"github.com/alexchirea/digital-wallet-api/pkg/sentinel"
	txcontext "github.com/alexchirea/digital-wallet-api/pkg/tx"
)

// PostgresStore persists users with PII columns encrypted at rest. The
// encode/decode step is owned here, around writes and reads, so nothing
// outside the storage adapter ever sees ciphertext.
type PostgresStore struct {
	db     *sql.DB
	cipher *fieldcrypt.Cipher
}

func NewPostgresStore(db *sql.DB, cipher *fieldcrypt.Cipher) *PostgresStore {
	return &PostgresStore{db: db, cipher: cipher}
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

func (s *PostgresStore) Save(ctx context.Context, user *User) error {
	firstName, err := s.cipher.Encrypt(user.FirstName)
	if err != nil {
		return fmt.Errorf("encrypt first name: %w", err)
	}
	lastName, err := s.cipher.Encrypt(user.LastName)
	if err != nil {
		return fmt.Errorf("encrypt last name: %w", err)
	}
	nationalID, err := s.cipher.Encrypt(user.NationalID)
	if err != nil {
		return fmt.Errorf("encrypt national id: %w", err)
	}

	query := `
		INSERT INTO users (id, root_identity_hash, first_name, last_name, national_id, email, device_public_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = s.execer(ctx).ExecContext(ctx, query,
		user.ID, user.RootIdentityHash, firstName, lastName, nationalID,
		user.Email, user.DevicePublicKey, user.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByRootHash(ctx context.Context, rootHash string) (*User, error) {
	query := `
		SELECT id, root_identity_hash, first_name, last_name, national_id, email, device_public_key, created_at
		FROM users
		WHERE root_identity_hash = $1
	`
	var user User
	err := s.execer(ctx).QueryRowContext(ctx, query, rootHash).Scan(
		&user.ID, &user.RootIdentityHash, &user.FirstName, &user.LastName,
		&user.NationalID, &user.Email, &user.DevicePublicKey, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if user.FirstName, err = s.cipher.Decrypt(user.FirstName); err != nil {
		return nil, fmt.Errorf("decrypt first name: %w", err)
	}
	if user.LastName, err = s.cipher.Decrypt(user.LastName); err != nil {
		return nil, fmt.Errorf("decrypt last name: %w", err)
	}
	if user.NationalID, err = s.cipher.Decrypt(user.NationalID); err != nil {
		return nil, fmt.Errorf("decrypt national id: %w", err)
	}
	return &user, nil
}
