package issuance

import (
	"context"

	"github.com/google/uuid"

	"github.com/alexchirea/digital-wallet-api/internal/audit"
	"github.com/alexchirea/digital-wallet-api/internal/platform/metrics"
	dErrors "github.com/alexchirea/digital-wallet-api/pkg/domain-errors"
)

// CredentialSigner produces the final signed credential token.
type CredentialSigner interface {
	SignCredential(subject, docType string, claims map[string]any, jti string) (string, error)
}

// StatusRegistrar initializes revocation state for a freshly minted id.
type StatusRegistrar interface {
	InitializeStatus(ctx context.Context, id uuid.UUID) error
}

// Service orchestrates end-to-end issuance. No credential is signed without
// first being registered in the status registry, so a verifier checking
// status immediately after receiving the token always finds a record.
type Service struct {
	registry *Registry
	signer   CredentialSigner
	status   StatusRegistrar
	auditor  *audit.Publisher
	metrics  *metrics.Metrics
}

func NewService(registry *Registry, signer CredentialSigner, status StatusRegistrar, auditor *audit.Publisher, m *metrics.Metrics) *Service {
	return &Service{
		registry: registry,
		signer:   signer,
		status:   status,
		auditor:  auditor,
		metrics:  m,
	}
}

// Issue executes the issuance workflow:
//  1. resolve the claim provider for the requested type (fail fast, no side
//     effects for unsupported types)
//  2. fetch claims (a failure here leaves no orphaned status record)
//  3. mint a fresh credential id
//  4. initialize its status as valid, before signing
//  5. sign the credential embedding exactly that id as jti
func (s *Service) Issue(ctx context.Context, rootIdentityHash, credentialType string) (string, error) {
	provider, ok := s.registry.Resolve(credentialType)
	if !ok {
		s.metrics.RecordIssuanceFailure(string(dErrors.CodeUnsupportedType))
		return "", dErrors.New(dErrors.CodeUnsupportedType, "the credential type '"+credentialType+"' is not supported by this issuer")
	}

	claims, err := provider.FetchClaims(ctx, rootIdentityHash)
	if err != nil {
		s.metrics.RecordIssuanceFailure(string(dErrors.CodeClaimFetchFailed))
		return "", dErrors.Wrap(err, dErrors.CodeClaimFetchFailed, "could not retrieve claims for credential type '"+credentialType+"'")
	}

	credentialID := uuid.New()
	if err := s.status.InitializeStatus(ctx, credentialID); err != nil {
		s.metrics.RecordIssuanceFailure(string(dErrors.CodeOf(err)))
		return "", err
	}

	token, err := s.signer.SignCredential(rootIdentityHash, provider.TypeName(), claims, credentialID.String())
	if err != nil {
		s.metrics.RecordIssuanceFailure(string(dErrors.CodeOf(err)))
		return "", err
	}

	s.metrics.RecordIssued(provider.TypeName())
	s.auditor.Emit(ctx, audit.Event{
		Action:         audit.ActionCredentialIssued,
		CredentialID:   credentialID.String(),
		CredentialType: provider.TypeName(),
		SubjectHash:    rootIdentityHash,
	})
	return token, nil
}
