package redis

import (
	"context"
	"time"
)

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquireStopCreationLock(ctx context.Context, bookingID string, ttl time.Duration) (bool, error)
	ReleaseStopCreationLock(ctx context.Context, bookingID string) error
}

// StatsStoreInterface defines the interface for stop decision counters.
type StatsStoreInterface interface {
	RecordStopDecision(ctx context.Context, operatorID string, approved bool) error
	GetStopDecisionCounts(ctx context.Context, operatorID string) (int64, int64, error)
}

// CacheStoreInterface defines the interface for the bus search cache.
type CacheStoreInterface interface {
	GetBusListings(ctx context.Context) ([]CachedBusListing, error)
	SetBusListings(ctx context.Context, listings []CachedBusListing) error
	InvalidateBusListings(ctx context.Context) error
}

// Ensure concrete types implement interfaces.
var (
	_ LockStoreInterface  = (*LockStore)(nil)
	_ StatsStoreInterface = (*StatsStore)(nil)
	_ CacheStoreInterface = (*CacheStore)(nil)
)
