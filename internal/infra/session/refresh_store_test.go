package session

import (
	"context"
	"testing"
	"time"

	"fintrack/internal/domain/entity"
	"fintrack/internal/domain/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newRecord(userID uuid.UUID, expiresAt time.Time) *entity.RefreshTokenRecord {
	return &entity.RefreshTokenRecord{
		TokenID:      uuid.New(),
		UserID:       userID,
		Username:     "alice",
		TokenVersion: 1,
		ExpiresAt:    expiresAt,
		CreatedAt:    time.Now(),
	}
}

func TestMemoryRefreshStore_SaveAndFind(t *testing.T) {
	store := NewMemoryRefreshStore()
	ctx := context.Background()

	record := newRecord(uuid.New(), time.Now().Add(time.Hour))
	assert.NoError(t, store.Save(ctx, record))

	found, err := store.Find(ctx, record.TokenID)
	assert.NoError(t, err)
	assert.Equal(t, record, found)

	// Unknown token ID
	_, err = store.Find(ctx, uuid.New())
	assert.ErrorIs(t, err, service.ErrRefreshRecordNotFound)
}

func TestMemoryRefreshStore_RotateIsSingleUse(t *testing.T) {
	store := NewMemoryRefreshStore()
	ctx := context.Background()
	userID := uuid.New()

	original := newRecord(userID, time.Now().Add(time.Hour))
	assert.NoError(t, store.Save(ctx, original))

	replacement := newRecord(userID, time.Now().Add(time.Hour))
	assert.NoError(t, store.Rotate(ctx, original.TokenID, replacement))

	// Old ID is gone, new ID is live.
	_, err := store.Find(ctx, original.TokenID)
	assert.ErrorIs(t, err, service.ErrRefreshRecordNotFound)
	found, err := store.Find(ctx, replacement.TokenID)
	assert.NoError(t, err)
	assert.Equal(t, replacement, found)

	// Replaying the rotated-away ID fails and must not insert anything.
	replay := newRecord(userID, time.Now().Add(time.Hour))
	err = store.Rotate(ctx, original.TokenID, replay)
	assert.ErrorIs(t, err, service.ErrRefreshRecordNotFound)
	_, err = store.Find(ctx, replay.TokenID)
	assert.ErrorIs(t, err, service.ErrRefreshRecordNotFound)
}

func TestMemoryRefreshStore_Revoke(t *testing.T) {
	store := NewMemoryRefreshStore()
	ctx := context.Background()

	record := newRecord(uuid.New(), time.Now().Add(time.Hour))
	assert.NoError(t, store.Save(ctx, record))
	assert.NoError(t, store.Revoke(ctx, record.TokenID))

	_, err := store.Find(ctx, record.TokenID)
	assert.ErrorIs(t, err, service.ErrRefreshRecordNotFound)

	// Revoking an absent record is not an error.
	assert.NoError(t, store.Revoke(ctx, uuid.New()))
}

func TestMemoryRefreshStore_RevokeAllForUser(t *testing.T) {
	store := NewMemoryRefreshStore()
	ctx := context.Background()
	alice := uuid.New()
	bob := uuid.New()

	for range 3 {
		assert.NoError(t, store.Save(ctx, newRecord(alice, time.Now().Add(time.Hour))))
	}
	bobRecord := newRecord(bob, time.Now().Add(time.Hour))
	assert.NoError(t, store.Save(ctx, bobRecord))

	removed, err := store.RevokeAllForUser(ctx, alice)
	assert.NoError(t, err)
	assert.Equal(t, 3, removed)

	// Bob's session is untouched.
	_, err = store.Find(ctx, bobRecord.TokenID)
	assert.NoError(t, err)
}

func TestMemoryRefreshStore_DeleteExpired(t *testing.T) {
	store := NewMemoryRefreshStore()
	ctx := context.Background()
	now := time.Now()

	expired := newRecord(uuid.New(), now.Add(-time.Minute))
	live := newRecord(uuid.New(), now.Add(time.Hour))
	assert.NoError(t, store.Save(ctx, expired))
	assert.NoError(t, store.Save(ctx, live))

	removed, err := store.DeleteExpired(ctx, now)
	assert.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = store.Find(ctx, expired.TokenID)
	assert.ErrorIs(t, err, service.ErrRefreshRecordNotFound)
	_, err = store.Find(ctx, live.TokenID)
	assert.NoError(t, err)
}
