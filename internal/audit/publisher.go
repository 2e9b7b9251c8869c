package audit

import (
	"context"
	"log/slog"
	"time"
)

// Store is the persistence seam for audit events. The Postgres
// implementation writes to an outbox table that the relay ships to Kafka.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// Publisher captures structured audit events. Emission is best-effort: a
// failed audit write is logged but never fails the business operation.
type Publisher struct {
	store  Store
	logger *slog.Logger
}

func NewPublisher(store Store, logger *slog.Logger) *Publisher {
	return &Publisher{store: store, logger: logger}
}

// Emit records an event, stamping the timestamp when the caller left it zero.
func (p *Publisher) Emit(ctx context.Context, event Event) {
	if p == nil || p.store == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if err := p.store.Append(ctx, event); err != nil {
		p.logger.ErrorContext(ctx, "audit append failed",
			"action", string(event.Action),
			"credential_id", event.CredentialID,
			"error", err.Error(),
		)
	}
}
