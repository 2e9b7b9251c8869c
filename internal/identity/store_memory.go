package identity

import (
	"context"
	"sync"

	"github.com/alexchirea/digital-wallet-api/pkg/sentinel"
)

// InMemoryStore keeps the development setup lightweight and the service
// testable without a database.
type InMemoryStore struct {
	mu    sync.RWMutex
	users map[string]User // keyed by root identity hash
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{users: make(map[string]User)}
}

func (s *InMemoryStore) Save(_ context.Context, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[user.RootIdentityHash]; exists {
		return sentinel.ErrConflict
	}
	s.users[user.RootIdentityHash] = *user
	return nil
}

func (s *InMemoryStore) FindByRootHash(_ context.Context, rootHash string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if user, ok := s.users[rootHash]; ok {
		copied := user
		return &copied, nil
	}
	return nil, sentinel.ErrNotFound
}
