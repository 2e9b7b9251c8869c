package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	txcontext "github.com/alexchirea/digital-wallet-api/pkg/tx"
)

// PostgresStore implements Store using the transactional outbox pattern.
// Events land in the outbox table in the same transaction as the business
// write when one is in flight; the relay publishes them to Kafka afterwards.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

// outboxPayload is the JSON structure published to Kafka.
type outboxPayload struct {
	ID             string `json:"id"`
	Action         string `json:"action"`
	Timestamp      string `json:"timestamp"`
	CredentialID   string `json:"credentialId,omitempty"`
	CredentialType string `json:"credentialType,omitempty"`
	SubjectHash    string `json:"subjectHash,omitempty"`
	Reason         string `json:"reason,omitempty"`
	RequestID      string `json:"requestId,omitempty"`
}

// Append writes an audit event to the outbox table for Kafka publishing.
func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	eventID := uuid.New()

	payload := outboxPayload{
		ID:             eventID.String(),
		Action:         string(event.Action),
		Timestamp:      event.Timestamp.Format(time.RFC3339Nano),
		CredentialID:   event.CredentialID,
		CredentialType: event.CredentialType,
		SubjectHash:    event.SubjectHash,
		Reason:         event.Reason,
		RequestID:      event.RequestID,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}

	query := `
		INSERT INTO audit_outbox (id, action, payload, created_at)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := s.execer(ctx).ExecContext(ctx, query, eventID, string(event.Action), body, event.Timestamp); err != nil {
		return fmt.Errorf("append audit outbox: %w", err)
	}
	return nil
}
