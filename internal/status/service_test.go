package status

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexchirea/digital-wallet-api/internal/audit"
	dErrors "github.com/alexchirea/digital-wallet-api/pkg/domain-errors"
)

var fixedNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

type fakeProofSigner struct {
	calls      int
	lastClaims map[string]any
}

func (f *fakeProofSigner) SignStatusProof(credentialID string, claims map[string]any) (string, error) {
	f.calls++
	f.lastClaims = claims
	body, _ := json.Marshal(claims)
	return "proof-" + credentialID + "-" + string(body), nil
}

type fakeCache struct {
	revoked map[string]bool
	marked  map[string]time.Duration
}

func newFakeCache() *fakeCache {
	return &fakeCache{revoked: make(map[string]bool), marked: make(map[string]time.Duration)}
}

func (f *fakeCache) MarkRevoked(_ context.Context, credentialID string, ttl time.Duration) error {
	f.revoked[credentialID] = true
	f.marked[credentialID] = ttl
	return nil
}

func (f *fakeCache) IsRevoked(_ context.Context, credentialID string) (bool, error) {
	return f.revoked[credentialID], nil
}

func newStatusFixture(t *testing.T, opts ...Option) (*Service, *fakeProofSigner, *audit.InMemoryStore) {
	t.Helper()
	signer := &fakeProofSigner{}
	auditStore := audit.NewInMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	svc := NewService(NewInMemoryStore(), signer, audit.NewPublisher(auditStore, logger), nil, opts...)
	return svc, signer, auditStore
}

func TestGetStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the record for a registered credential", func(t *testing.T) {
		svc, _, _ := newStatusFixture(t)
		id := uuid.New()
		require.NoError(t, svc.InitializeStatus(ctx, id))

		record, err := svc.GetStatus(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, record.CredentialID)
		assert.False(t, record.Revoked)
	})

	t.Run("classifies unknown ids as credential not found", func(t *testing.T) {
		svc, _, _ := newStatusFixture(t)

		_, err := svc.GetStatus(ctx, uuid.New())
		require.Error(t, err)
		assert.Equal(t, dErrors.CodeCredentialNotFound, dErrors.CodeOf(err))
	})
}

func TestRevokeCredential(t *testing.T) {
	ctx := context.Background()

	t.Run("marks a credential revoked and audits the reason", func(t *testing.T) {
		svc, _, auditStore := newStatusFixture(t)
		id := uuid.New()
		require.NoError(t, svc.InitializeStatus(ctx, id))

		require.NoError(t, svc.RevokeCredential(ctx, id, "Security breach"))

		record, err := svc.GetStatus(ctx, id)
		require.NoError(t, err)
		assert.True(t, record.Revoked)
		require.NotNil(t, record.RevocationReason)
		assert.Equal(t, "Security breach", *record.RevocationReason)

		events := auditStore.Events()
		require.Len(t, events, 1)
		assert.Equal(t, audit.ActionCredentialRevoked, events[0].Action)
		assert.Equal(t, "Security breach", events[0].Reason)
	})

	t.Run("accepts revocation for an id the registry has never seen", func(t *testing.T) {
		svc, _, _ := newStatusFixture(t)
		id := uuid.New()

		require.NoError(t, svc.RevokeCredential(ctx, id, "Lost device"))

		record, err := svc.GetStatus(ctx, id)
		require.NoError(t, err)
		assert.True(t, record.Revoked)
	})

	t.Run("revocation is terminal", func(t *testing.T) {
		svc, _, _ := newStatusFixture(t)
		id := uuid.New()
		require.NoError(t, svc.InitializeStatus(ctx, id))
		require.NoError(t, svc.RevokeCredential(ctx, id, "first"))
		require.NoError(t, svc.RevokeCredential(ctx, id, "second"))

		record, err := svc.GetStatus(ctx, id)
		require.NoError(t, err)
		assert.True(t, record.Revoked, "a revoked credential never becomes valid again")
		assert.Equal(t, "second", *record.RevocationReason)
	})

	t.Run("writes the revoked id to the cache", func(t *testing.T) {
		cache := newFakeCache()
		svc, _, _ := newStatusFixture(t, WithCache(cache, time.Hour))
		id := uuid.New()

		require.NoError(t, svc.RevokeCredential(ctx, id, "Security breach"))
		assert.True(t, cache.revoked[id.String()])
		assert.Equal(t, time.Hour, cache.marked[id.String()])
	})
}

func TestGetSignedStatusProof(t *testing.T) {
	ctx := context.Background()

	t.Run("signs a VALID assertion for a live credential", func(t *testing.T) {
		svc, signer, auditStore := newStatusFixture(t)
		id := uuid.New()
		require.NoError(t, svc.InitializeStatus(ctx, id))

		proof, err := svc.GetSignedStatusProof(ctx, id)
		require.NoError(t, err)
		assert.NotEmpty(t, proof)

		require.Equal(t, 1, signer.calls)
		assert.Equal(t, "VALID", signer.lastClaims["status"])
		assert.Equal(t, fixedNow.Format(time.RFC3339), signer.lastClaims["verifiedAt"])

		events := auditStore.Events()
		require.Len(t, events, 1)
		assert.Equal(t, audit.ActionStatusProofIssued, events[0].Action)
	})

	t.Run("refuses to sign for a revoked credential", func(t *testing.T) {
		svc, signer, _ := newStatusFixture(t)
		id := uuid.New()
		require.NoError(t, svc.InitializeStatus(ctx, id))
		require.NoError(t, svc.RevokeCredential(ctx, id, "Security breach"))

		_, err := svc.GetSignedStatusProof(ctx, id)
		require.Error(t, err)
		assert.Equal(t, dErrors.CodeCredentialRevoked, dErrors.CodeOf(err))
		assert.Zero(t, signer.calls, "no proof is ever signed for a revoked credential")
	})

	t.Run("fails with credential not found for unknown ids", func(t *testing.T) {
		svc, signer, _ := newStatusFixture(t)

		_, err := svc.GetSignedStatusProof(ctx, uuid.New())
		require.Error(t, err)
		assert.Equal(t, dErrors.CodeCredentialNotFound, dErrors.CodeOf(err))
		assert.Zero(t, signer.calls)
	})

	t.Run("short-circuits on a cache hit without touching the store", func(t *testing.T) {
		cache := newFakeCache()
		signerOnly := &fakeProofSigner{}
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		// The store is empty: only the cache knows the id, proving the fast
		// path answers before any registry lookup.
		svc := NewService(NewInMemoryStore(), signerOnly, audit.NewPublisher(audit.NewInMemoryStore(), logger), nil,
			WithCache(cache, time.Hour),
			WithClock(func() time.Time { return fixedNow }),
		)
		id := uuid.New()
		cache.revoked[id.String()] = true

		_, err := svc.GetSignedStatusProof(ctx, id)
		require.Error(t, err)
		assert.Equal(t, dErrors.CodeCredentialRevoked, dErrors.CodeOf(err))
		assert.Zero(t, signerOnly.calls)
	})
}
