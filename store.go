package authgate

import (
	"context"
	"sync"
	"time"
)

// MemoryCredentialStore is a mutex guarded in process CredentialStore.
// Suitable for tests and single node deployments that can tolerate the
// revocation set resetting on restart.
type MemoryCredentialStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

// NewMemoryCredentialStore creates an empty in memory store
func NewMemoryCredentialStore() *MemoryCredentialStore {
	return &MemoryCredentialStore{
		revoked: make(map[string]time.Time),
	}
}

// Verify interface compliance
var _ CredentialStore = (*MemoryCredentialStore)(nil)

// IsRevoked reports whether the jti sits in the revocation set
func (s *MemoryCredentialStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.revoked[jti]
	return ok, nil
}

// Revoke adds the jti to the revocation set. Re-revoking keeps the
// original entry.
func (s *MemoryCredentialStore) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.revoked[jti]; !ok {
		s.revoked[jti] = expiresAt
	}
	return nil
}

// SweepExpired drops entries whose credential could no longer validate
// anyway, returning the number removed. Strictly expired only: an entry
// expiring exactly at now survives the sweep.
func (s *MemoryCredentialStore) SweepExpired(ctx context.Context, now time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for jti, expiresAt := range s.revoked {
		if expiresAt.Before(now) {
			delete(s.revoked, jti)
			removed++
		}
	}
	return removed, nil
}
