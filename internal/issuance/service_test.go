package issuance

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexchirea/digital-wallet-api/internal/audit"
	dErrors "github.com/alexchirea/digital-wallet-api/pkg/domain-errors"
)

type fakeSigner struct {
	err    error
	calls  int
	lastJTI    string
	lastType   string
	lastClaims map[string]any
}

func (f *fakeSigner) SignCredential(subject, docType string, claims map[string]any, jti string) (string, error) {
	f.calls++
	f.lastJTI = jti
	f.lastType = docType
	f.lastClaims = claims
	if f.err != nil {
		return "", f.err
	}
	return "signed-token-" + jti, nil
}

type fakeRegistrar struct {
	err   error
	calls int
	ids   []uuid.UUID
}

func (f *fakeRegistrar) InitializeStatus(_ context.Context, id uuid.UUID) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	f.ids = append(f.ids, id)
	return nil
}

func newIssuanceFixture(t *testing.T, providers ...ClaimProvider) (*Service, *fakeSigner, *fakeRegistrar, *audit.InMemoryStore) {
	t.Helper()
	registry, err := NewRegistry(providers...)
	require.NoError(t, err)

	signer := &fakeSigner{}
	registrar := &fakeRegistrar{}
	auditStore := audit.NewInMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc := NewService(registry, signer, registrar, audit.NewPublisher(auditStore, logger), nil)
	return svc, signer, registrar, auditStore
}

func TestIssueSuccess(t *testing.T) {
	provider := &staticProvider{
		typeName: "UNIVERSITY_DIPLOMA",
		claims:   map[string]any{"degree": "Bachelor of Science"},
	}
	svc, signer, registrar, auditStore := newIssuanceFixture(t, provider)

	token, err := svc.Issue(context.Background(), "root-hash-abc", "university_diploma")
	require.NoError(t, err)
	assert.Equal(t, "signed-token-"+signer.lastJTI, token)

	require.Len(t, registrar.ids, 1, "status must be initialized exactly once")
	assert.Equal(t, registrar.ids[0].String(), signer.lastJTI,
		"the jti embedded in the token must be the id registered for status")
	assert.Equal(t, "UNIVERSITY_DIPLOMA", signer.lastType,
		"the canonical provider type goes on the token, not the request casing")
	assert.Equal(t, provider.claims, signer.lastClaims)

	events := auditStore.Events()
	require.Len(t, events, 1)
	assert.Equal(t, audit.ActionCredentialIssued, events[0].Action)
	assert.Equal(t, signer.lastJTI, events[0].CredentialID)
	assert.Equal(t, "root-hash-abc", events[0].SubjectHash)
}

func TestIssueUnsupportedType(t *testing.T) {
	svc, signer, registrar, _ := newIssuanceFixture(t,
		&staticProvider{typeName: "UNIVERSITY_DIPLOMA"})

	_, err := svc.Issue(context.Background(), "root-hash-abc", "DRIVERS_LICENSE")
	require.Error(t, err)
	assert.Equal(t, dErrors.CodeUnsupportedType, dErrors.CodeOf(err))

	assert.Zero(t, registrar.calls, "unsupported types must leave no status record")
	assert.Zero(t, signer.calls, "unsupported types must never reach the signer")
}

func TestIssueClaimFetchFailure(t *testing.T) {
	failing := &staticProvider{
		typeName: "IDENTITY_CARD",
		err:      errors.New("upstream registry unreachable"),
	}
	svc, signer, registrar, _ := newIssuanceFixture(t, failing)

	_, err := svc.Issue(context.Background(), "root-hash-abc", "IDENTITY_CARD")
	require.Error(t, err)
	assert.Equal(t, dErrors.CodeClaimFetchFailed, dErrors.CodeOf(err))

	assert.Zero(t, registrar.calls, "a claim fetch failure must leave no orphaned status record")
	assert.Zero(t, signer.calls)
}

func TestIssueStatusInitializationFailure(t *testing.T) {
	svc, signer, registrar, _ := newIssuanceFixture(t,
		&staticProvider{typeName: "UNIVERSITY_DIPLOMA", claims: map[string]any{}})
	registrar.err = dErrors.New(dErrors.CodeInternal, "could not initialize credential status")

	_, err := svc.Issue(context.Background(), "root-hash-abc", "UNIVERSITY_DIPLOMA")
	require.Error(t, err)
	assert.Equal(t, dErrors.CodeInternal, dErrors.CodeOf(err))
	assert.Zero(t, signer.calls, "no credential is signed without a status record")
}

func TestIssueSigningFailure(t *testing.T) {
	svc, signer, registrar, auditStore := newIssuanceFixture(t,
		&staticProvider{typeName: "UNIVERSITY_DIPLOMA", claims: map[string]any{}})
	signer.err = dErrors.New(dErrors.CodeSigningFailed, "signing key unavailable")

	_, err := svc.Issue(context.Background(), "root-hash-abc", "UNIVERSITY_DIPLOMA")
	require.Error(t, err)
	assert.Equal(t, dErrors.CodeSigningFailed, dErrors.CodeOf(err))

	assert.Equal(t, 1, registrar.calls, "status is registered before signing is attempted")
	assert.Empty(t, auditStore.Events(), "failed issuance emits no issued event")
}
