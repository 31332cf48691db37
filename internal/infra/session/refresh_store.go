// Package session holds the process-local state backing refresh token
// rotation and login lockout.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/domain/entity"
	"fintrack/internal/domain/service"
)

// memoryRefreshStore is an in-memory implementation of RefreshTokenStore.
// Records do not survive a restart; clients recover by logging in again.
type memoryRefreshStore struct {
	mu      sync.Mutex
	records map[uuid.UUID]*entity.RefreshTokenRecord
}

// NewMemoryRefreshStore is the constructor for memoryRefreshStore.
func NewMemoryRefreshStore() service.RefreshTokenStore {
	return &memoryRefreshStore{
		records: make(map[uuid.UUID]*entity.RefreshTokenRecord),
	}
}

// Save records a freshly issued refresh token.
func (s *memoryRefreshStore) Save(_ context.Context, record *entity.RefreshTokenRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[record.TokenID] = record
	return nil
}

// Find returns the live record for a token ID.
func (s *memoryRefreshStore) Find(_ context.Context, tokenID uuid.UUID) (*entity.RefreshTokenRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[tokenID]
	if !ok {
		return nil, service.ErrRefreshRecordNotFound
	}
	return record, nil
}

// Rotate revokes oldTokenID and records its replacement under one lock, so a
// replayed token observes the old ID already gone.
func (s *memoryRefreshStore) Rotate(_ context.Context, oldTokenID uuid.UUID, replacement *entity.RefreshTokenRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[oldTokenID]; !ok {
		return service.ErrRefreshRecordNotFound
	}
	delete(s.records, oldTokenID)
	s.records[replacement.TokenID] = replacement
	return nil
}

// Revoke deletes a single record. Revoking an absent record is not an error.
func (s *memoryRefreshStore) Revoke(_ context.Context, tokenID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, tokenID)
	return nil
}

// RevokeAllForUser deletes every record belonging to the user.
func (s *memoryRefreshStore) RevokeAllForUser(_ context.Context, userID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for tokenID, record := range s.records {
		if record.UserID == userID {
			delete(s.records, tokenID)
			removed++
		}
	}
	return removed, nil
}

// DeleteExpired drops records whose expiry is before now.
func (s *memoryRefreshStore) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for tokenID, record := range s.records {
		if record.ExpiresAt.Before(now) {
			delete(s.records, tokenID)
			removed++
		}
	}
	return removed, nil
}
