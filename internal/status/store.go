package status

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store persists revocation state. Mutations are atomic units: a revoke
// writes revoked, reason and updated_at together or not at all.
type Store interface {
	// Initialize creates the record as valid. Returns sentinel.ErrConflict
	// when the id already exists (a logic error in the caller, which must
	// mint a fresh id per issuance).
	Initialize(ctx context.Context, id uuid.UUID, now time.Time) error

	// Find returns sentinel.ErrNotFound for unknown ids.
	Find(ctx context.Context, id uuid.UUID) (*Record, error)

	// Revoke marks the record revoked, creating it if missing so a
	// revocation order is never dropped. Never un-revokes.
	Revoke(ctx context.Context, id uuid.UUID, reason string, now time.Time) error
}
