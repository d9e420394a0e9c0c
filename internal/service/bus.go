package service

import (
	"context"
	"log"

	"partybus/internal/domain"
	"partybus/internal/redis"
	"partybus/internal/repository"
)

// BusService serves the customer-facing bus search.
type BusService struct {
	busRepo    repository.BusRepository
	cacheStore redis.CacheStoreInterface
}

// NewBusService creates a new BusService.
func NewBusService(busRepo repository.BusRepository, cacheStore redis.CacheStoreInterface) *BusService {
	return &BusService{
		busRepo:    busRepo,
		cacheStore: cacheStore,
	}
}

// ListActiveBuses returns active buses of approved operators, serving from
// the Redis cache when warm. Cache failures fall through to the database.
func (s *BusService) ListActiveBuses(ctx context.Context) ([]*domain.BusListing, error) {
	if s.cacheStore != nil {
		cached, err := s.cacheStore.GetBusListings(ctx)
		if err != nil {
			log.Printf("bus listing cache read failed: %v", err)
		}
		if cached != nil {
			return fromCachedListings(cached), nil
		}
	}

	listings, err := s.busRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	if s.cacheStore != nil {
		if err := s.cacheStore.SetBusListings(ctx, toCachedListings(listings)); err != nil {
			log.Printf("bus listing cache write failed: %v", err)
		}
	}

	return listings, nil
}

func toCachedListings(listings []*domain.BusListing) []redis.CachedBusListing {
	out := make([]redis.CachedBusListing, 0, len(listings))
	for _, l := range listings {
		out = append(out, redis.CachedBusListing{
			ID:           l.ID,
			OperatorID:   l.OperatorID,
			OperatorName: l.OperatorName,
			OperatorCity: l.OperatorCity,
			Name:         l.Name,
			Capacity:     l.Capacity,
			HourlyRate:   l.HourlyRate,
			MinimumHours: l.MinimumHours,
			Features:     l.Features,
			Description:  l.Description,
		})
	}
	return out
}

func fromCachedListings(cached []redis.CachedBusListing) []*domain.BusListing {
	out := make([]*domain.BusListing, 0, len(cached))
	for _, c := range cached {
		out = append(out, &domain.BusListing{
			Bus: domain.Bus{
				ID:           c.ID,
				OperatorID:   c.OperatorID,
				Name:         c.Name,
				Capacity:     c.Capacity,
				HourlyRate:   c.HourlyRate,
				MinimumHours: c.MinimumHours,
				Features:     c.Features,
				Description:  c.Description,
				IsActive:     true,
			},
			OperatorName: c.OperatorName,
			OperatorCity: c.OperatorCity,
		})
	}
	return out
}
