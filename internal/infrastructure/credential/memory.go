// Package credential contains the CredentialStore backends: in-memory,
// Badger on disk, and Redis.
package credential

import (
	"context"
	"sync"

	"github.com/tradeshift/trading-shell/internal/core/domain"
)

// MemoryStore keeps the token in process memory. It does not survive a
// restart.
type MemoryStore struct {
	mu    sync.RWMutex
	token domain.Credential
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Get(_ context.Context) (domain.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.token.Present() {
		return "", domain.ErrNoCredential
	}
	return s.token, nil
}

func (s *MemoryStore) Set(_ context.Context, token domain.Credential) error {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Clear(ctx context.Context) error {
	return s.Set(ctx, "")
}

// Ping always succeeds.
func (s *MemoryStore) Ping(context.Context) error { return nil }
