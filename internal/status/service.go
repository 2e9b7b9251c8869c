package status

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/alexchirea/digital-wallet-api/internal/audit"
	"github.com/alexchirea/digital-wallet-api/internal/platform/metrics"
	dErrors "github.com/alexchirea/digital-wallet-api/pkg/domain-errors"
	"github.com/alexchirea/digital-wallet-api/pkg/sentinel"
)

// ProofSigner produces the short-lived signed status assertion.
type ProofSigner interface {
	SignStatusProof(credentialID string, claims map[string]any) (string, error)
}

// RevokedCache is an optional fast path for revocation checks. A cache miss
// means "unknown"; the store stays authoritative.
type RevokedCache interface {
	MarkRevoked(ctx context.Context, credentialID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, credentialID string) (bool, error)
}

// Service owns the credential status state machine:
// UNKNOWN → VALID → REVOKED, with REVOKED terminal.
type Service struct {
	store    Store
	signer   ProofSigner
	cache    RevokedCache
	auditor  *audit.Publisher
	metrics  *metrics.Metrics
	cacheTTL time.Duration
	clock    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithCache wires the optional revoked-credential cache.
func WithCache(cache RevokedCache, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = cache
		s.cacheTTL = ttl
	}
}

// WithClock sets the clock function for testability.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func NewService(store Store, signer ProofSigner, auditor *audit.Publisher, m *metrics.Metrics, opts ...Option) *Service {
	s := &Service{
		store:    store,
		signer:   signer,
		auditor:  auditor,
		metrics:  m,
		cacheTTL: 24 * time.Hour,
		clock:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// InitializeStatus registers a freshly minted credential id as valid. The
// orchestrator guarantees at-most-once by always minting a new id first.
func (s *Service) InitializeStatus(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Initialize(ctx, id, s.clock().UTC()); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "could not initialize credential status")
	}
	return nil
}

// RevokeCredential marks a credential revoked. Unknown ids are accepted and
// recorded as revoked so a revocation order is never dropped. Idempotent in
// effect: re-revoking refreshes reason and timestamp only.
func (s *Service) RevokeCredential(ctx context.Context, id uuid.UUID, reason string) error {
	if err := s.store.Revoke(ctx, id, reason, s.clock().UTC()); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "could not revoke credential")
	}
	if s.cache != nil {
		// Best effort: a cache write failure only loses the fast path.
		_ = s.cache.MarkRevoked(ctx, id.String(), s.cacheTTL)
	}
	if s.metrics != nil {
		s.metrics.RevocationsTotal.Inc()
	}
	s.auditor.Emit(ctx, audit.Event{
		Action:       audit.ActionCredentialRevoked,
		CredentialID: id.String(),
		Reason:       reason,
	})
	return nil
}

// GetStatus loads the revocation record for a credential id.
func (s *Service) GetStatus(ctx context.Context, id uuid.UUID) (*Record, error) {
	record, err := s.find(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeCredentialNotFound, "credential "+id.String()+" does not exist in the registry")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "status lookup failed")
	}
	return record, nil
}

// GetSignedStatusProof asserts "credential X is VALID as of now" for
// non-revoked credentials. Revoked credentials fail before the signer is
// ever invoked.
func (s *Service) GetSignedStatusProof(ctx context.Context, id uuid.UUID) (string, error) {
	if s.cache != nil {
		if revoked, err := s.cache.IsRevoked(ctx, id.String()); err == nil && revoked {
			return "", dErrors.New(dErrors.CodeCredentialRevoked, "this credential has been revoked and is no longer valid")
		}
	}

	record, err := s.GetStatus(ctx, id)
	if err != nil {
		return "", err
	}
	if record.Revoked {
		return "", dErrors.New(dErrors.CodeCredentialRevoked, "this credential has been revoked and is no longer valid")
	}

	claims := map[string]any{
		"status":     "VALID",
		"verifiedAt": s.clock().UTC().Format(time.RFC3339),
	}
	proof, err := s.signer.SignStatusProof(id.String(), claims)
	if err != nil {
		return "", err
	}

	if s.metrics != nil {
		s.metrics.StatusProofsIssued.Inc()
	}
	s.auditor.Emit(ctx, audit.Event{
		Action:       audit.ActionStatusProofIssued,
		CredentialID: id.String(),
	})
	return proof, nil
}

func (s *Service) find(ctx context.Context, id uuid.UUID) (*Record, error) {
	start := time.Now()
	record, err := s.store.Find(ctx, id)
	if s.metrics != nil {
		s.metrics.StatusCheckDuration.Observe(time.Since(start).Seconds())
	}
	return record, err
}
