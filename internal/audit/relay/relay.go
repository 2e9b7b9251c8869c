// Package relay ships audit events from the Postgres outbox to Kafka.
// Kafka is the downstream source of truth for the audit trail; the outbox
// guarantees no event is lost between the business write and the publish.
package relay

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

const (
	defaultPollInterval = 2 * time.Second
	defaultBatchSize    = 100
)

// Relay drains unpublished outbox rows and produces them to the audit topic.
type Relay struct {
	db       *sql.DB
	client   *kgo.Client
	topic    string
	logger   *slog.Logger
	interval time.Duration
	batch    int
}

// Option configures a Relay.
type Option func(*Relay)

// WithPollInterval overrides the outbox poll cadence.
func WithPollInterval(d time.Duration) Option {
	return func(r *Relay) {
		if d > 0 {
			r.interval = d
		}
	}
}

// New connects a Kafka producer for the audit topic.
func New(db *sql.DB, brokers []string, topic string, logger *slog.Logger, opts ...Option) (*Relay, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka client: %w", err)
	}
	r := &Relay{
		db:       db,
		client:   client,
		topic:    topic,
		logger:   logger,
		interval: defaultPollInterval,
		batch:    defaultBatchSize,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r, nil
}

// Run polls the outbox until the context is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			published, err := r.publishBatch(ctx)
			if err != nil {
				r.logger.ErrorContext(ctx, "audit relay batch failed", "error", err.Error())
				continue
			}
			if published > 0 {
				r.logger.InfoContext(ctx, "audit events relayed", "count", published)
			}
		}
	}
}

// Close flushes and releases the Kafka producer.
func (r *Relay) Close() {
	r.client.Close()
}

// publishBatch moves one batch of rows from the outbox to Kafka. Rows are
// locked with SKIP LOCKED so multiple relay instances never double-publish,
// and marked published only after the produce acks.
func (r *Relay) publishBatch(ctx context.Context) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin outbox tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx, `
		SELECT id, action, payload
		FROM audit_outbox
		WHERE published_at IS NULL
		ORDER BY created_at
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	`, r.batch)
	if err != nil {
		return 0, fmt.Errorf("select outbox batch: %w", err)
	}

	var ids []string
	var records []*kgo.Record
	for rows.Next() {
		var id, action string
		var payload []byte
		if err := rows.Scan(&id, &action, &payload); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scan outbox row: %w", err)
		}
		ids = append(ids, id)
		records = append(records, &kgo.Record{
			Topic: r.topic,
			Key:   []byte(action),
			Value: payload,
		})
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("iterate outbox rows: %w", err)
	}
	if len(records) == 0 {
		return 0, nil
	}

	if err := r.client.ProduceSync(ctx, records...).FirstErr(); err != nil {
		return 0, fmt.Errorf("produce audit batch: %w", err)
	}

	for _, id := range ids {
		if _, err := tx.ExecContext(ctx, `UPDATE audit_outbox SET published_at = now() WHERE id = $1`, id); err != nil {
			return 0, fmt.Errorf("mark outbox published: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit outbox batch: %w", err)
	}
	return len(records), nil
}
