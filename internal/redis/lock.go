package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LockStore handles distributed locking in Redis.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// AcquireStopCreationLock attempts to acquire the stop-creation lock for a
// booking. The lock keeps two concurrent creation requests from both passing
// the single-pending check when multiple server instances share one store.
// Returns true if the lock was acquired, false if already held.
func (s *LockStore) AcquireStopCreationLock(ctx context.Context, bookingID string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("lock:booking-stop:%s", bookingID)

	ok, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// ReleaseStopCreationLock releases the stop-creation lock for a booking.
func (s *LockStore) ReleaseStopCreationLock(ctx context.Context, bookingID string) error {
	key := fmt.Sprintf("lock:booking-stop:%s", bookingID)

	return s.client.Del(ctx, key).Err()
}
