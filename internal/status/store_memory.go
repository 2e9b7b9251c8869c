package status

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/alexchirea/digital-wallet-api/pkg/sentinel"
)

// InMemoryStore favors clarity over performance; it backs local development
// and unit tests.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[uuid.UUID]Record
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[uuid.UUID]Record)}
}

func (s *InMemoryStore) Initialize(_ context.Context, id uuid.UUID, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[id]; exists {
		return sentinel.ErrConflict
	}
	s.records[id] = Record{CredentialID: id, Revoked: false, UpdatedAt: now}
	return nil
}

func (s *InMemoryStore) Find(_ context.Context, id uuid.UUID) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if record, ok := s.records[id]; ok {
		copied := record
		return &copied, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) Revoke(_ context.Context, id uuid.UUID, reason string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record := s.records[id]
	record.CredentialID = id
	record.Revoked = true
	record.RevocationReason = &reason
	record.UpdatedAt = now
	s.records[id] = record
	return nil
}
