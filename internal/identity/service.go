package identity

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

// Store persists registered users. Uniqueness of the root identity hash is
// enforced by the implementation (map key or unique index).
type Store interface {
	Save(ctx context.Context, user *User) error
	FindByRootHash(ctx context.Context, rootHash string) (*User, error)
}

// RegisterRequest carries the PII needed to derive a root hash and create a
// wallet record.
type RegisterRequest struct {
	FirstName       string
	LastName        string
	NationalID      string
	Email           string
	DevicePublicKey string
}

// TxRunner executes a function atomically when a transactional backend is
// configured. Tx-aware stores pick the transaction up through context.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service manages identity onboarding: deriving root hashes and preventing
// duplicate registrations. Raw legal attributes never leave the store layer.
type Service struct {
	hasher  *Hasher
	store   Store
	auditor *audit.Publisher
	metrics *metrics.Metrics
	runner  TxRunner
}

// Option configures a Service.
type Option func(*Service)

// WithTxRunner makes registration commit the user record and its audit event
// as a single transaction.
func WithTxRunner(runner TxRunner) Option {
	return func(s *Service) {
		s.runner = runner
	}
}

func NewService(hasher *Hasher, store Store, auditor *audit.Publisher, m *metrics.Metrics, opts ...Option) *Service {
	s := &Service{hasher: hasher, store: store, auditor: auditor, metrics: m}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// CreateRootHash derives the anonymized identifier for a set of PII fields.
func (s *Service) CreateRootHash(firstName, lastName, nationalID string) string {
	return s.hasher.Hash(firstName, lastName, nationalID)
}

// IsRegistered reports whether a root hash already exists in the registry.
func (s *Service) IsRegistered(ctx context.Context, rootHash string) (bool, error) {
	_, err := s.store.FindByRootHash(ctx, rootHash)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Register creates a user record keyed by a freshly derived root hash.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	if req.FirstName == "" || req.LastName == "" || req.NationalID == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "firstName, lastName and nationalId are required")
	}

	rootHash := s.hasher.Hash(req.FirstName, req.LastName, req.NationalID)

	registered, err := s.IsRegistered(ctx, rootHash)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "identity lookup failed")
	}
	if registered {
		return nil, dErrors.New(dErrors.CodeAlreadyRegistered, "an identity with these attributes is already registered")
	}

	user := &User{
		ID:               uuid.New(),
		RootIdentityHash: rootHash,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		NationalID:       req.NationalID,
		Email:            req.Email,
		DevicePublicKey:  req.DevicePublicKey,
		CreatedAt:        time.Now().UTC(),
	}
	persist := func(ctx context.Context) error {
		if err := s.store.Save(ctx, user); err != nil {
			return err
		}
		s.auditor.Emit(ctx, audit.Event{
			Action:      audit.ActionUserCreated,
			SubjectHash: rootHash,
		})
		return nil
	}
	if s.runner != nil {
		err = s.runner.RunInTx(ctx, persist)
	} else {
		err = persist(ctx)
	}
	if err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeAlreadyRegistered, "an identity with these attributes is already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not persist user")
	}

	if s.metrics != nil {
		s.metrics.UsersRegistered.Inc()
	}
	return user, nil
}
