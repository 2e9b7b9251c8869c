//go:build integration

package relay_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/alexchirea/digital-wallet-api/internal/audit"
	"github.com/alexchirea/digital-wallet-api/internal/audit/relay"
	"github.com/alexchirea/digital-wallet-api/internal/platform/postgres"
	"github.com/alexchirea/digital-wallet-api/pkg/testutil/containers"
)

const auditTopic = "wallet.audit.v1"

type RelaySuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	redpanda *containers.RedpandaContainer
	store    *audit.PostgresStore
}

func TestRelaySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RelaySuite))
}

func (s *RelaySuite) SetupSuite() {
	ctx := context.Background()

	s.postgres = containers.NewPostgresContainer(s.T())
	s.Require().NoError(postgres.EnsureSchema(ctx, s.postgres.DB))
	s.store = audit.NewPostgresStore(s.postgres.DB)

	s.redpanda = containers.NewRedpandaContainer(s.T())

	adminClient, err := kgo.NewClient(kgo.SeedBrokers(s.redpanda.Broker))
	s.Require().NoError(err)
	defer adminClient.Close()

	admin := kadm.NewClient(adminClient)
	_, err = admin.CreateTopic(ctx, 1, 1, nil, auditTopic)
	s.Require().NoError(err)
}

func (s *RelaySuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "audit_outbox"))
}

func (s *RelaySuite) TestOutboxEventsReachKafka() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	events := []audit.Event{
		{Action: audit.ActionCredentialIssued, CredentialID: "cred-1", CredentialType: "UNIVERSITY_DIPLOMA", Timestamp: time.Now().UTC()},
		{Action: audit.ActionCredentialRevoked, CredentialID: "cred-1", Reason: "Security breach", Timestamp: time.Now().UTC()},
	}
	for _, event := range events {
		s.Require().NoError(s.store.Append(ctx, event))
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r, err := relay.New(s.postgres.DB, []string{s.redpanda.Broker}, auditTopic, logger,
		relay.WithPollInterval(100*time.Millisecond))
	s.Require().NoError(err)
	defer r.Close()

	relayCtx, stopRelay := context.WithCancel(ctx)
	defer stopRelay()
	go func() { _ = r.Run(relayCtx) }()

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(s.redpanda.Broker),
		kgo.ConsumeTopics(auditTopic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer consumer.Close()

	received := make(map[string]string) // action -> credentialId
	for len(received) < len(events) {
		fetches := consumer.PollFetches(ctx)
		s.Require().NoError(fetches.Err0())
		fetches.EachRecord(func(record *kgo.Record) {
			var payload struct {
				Action       string `json:"action"`
				CredentialID string `json:"credentialId"`
			}
			s.Require().NoError(json.Unmarshal(record.Value, &payload))
			received[payload.Action] = payload.CredentialID
		})
	}

	s.Equal("cred-1", received[string(audit.ActionCredentialIssued)])
	s.Equal("cred-1", received[string(audit.ActionCredentialRevoked)])

	// The relay must mark rows published so they are never shipped twice.
	s.Require().Eventually(func() bool {
		var unpublished int
		err := s.postgres.DB.QueryRowContext(ctx,
			`SELECT count(*) FROM audit_outbox WHERE published_at IS NULL`).Scan(&unpublished)
		return err == nil && unpublished == 0
	}, 10*time.Second, 200*time.Millisecond)
}
