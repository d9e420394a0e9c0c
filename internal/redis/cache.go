package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheStore handles entity caching in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// BusListingCacheTTL bounds how stale the search page can get after an
// operator approval or a rate change.
const BusListingCacheTTL = 60 * time.Second

const busListingCacheKey = "cache:buses:active"

// CachedBusListing represents a cached bus search result.
type CachedBusListing struct {
	ID           string   `json:"id"`
	OperatorID   string   `json:"operator_id"`
	OperatorName string   `json:"operator_name"`
	OperatorCity string   `json:"operator_city"`
	Name         string   `json:"name"`
	Capacity     int      `json:"capacity"`
	HourlyRate   float64  `json:"hourly_rate"`
	MinimumHours int      `json:"minimum_hours"`
	Features     []string `json:"features"`
	Description  string   `json:"description"`
}

// GetBusListings retrieves the cached bus search results.
// Returns nil on a cache miss.
func (s *CacheStore) GetBusListings(ctx context.Context) ([]CachedBusListing, error) {
	data, err := s.client.Get(ctx, busListingCacheKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var listings []CachedBusListing
	if err := json.Unmarshal(data, &listings); err != nil {
		return nil, err
	}
	return listings, nil
}

// SetBusListings stores bus search results in cache.
func (s *CacheStore) SetBusListings(ctx context.Context, listings []CachedBusListing) error {
	data, err := json.Marshal(listings)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, busListingCacheKey, data, BusListingCacheTTL).Err()
}

// InvalidateBusListings removes the cached bus search results.
// Called after operator approval so newly listable buses show up promptly.
func (s *CacheStore) InvalidateBusListings(ctx context.Context) error {
	return s.client.Del(ctx, busListingCacheKey).Err()
}
