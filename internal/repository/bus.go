package repository

import (
	"context"

	"partybus/internal/domain"
)

// BusRepository defines the persistence operations for buses.
type BusRepository interface {
	// Create persists a new bus.
	Create(ctx context.Context, bus *domain.Bus) error

	// GetByID retrieves a bus by ID.
	GetByID(ctx context.Context, id string) (*domain.Bus, error)

	// ListActive retrieves active buses belonging to approved operators,
	// enriched with operator details for search results.
	ListActive(ctx context.Context) ([]*domain.BusListing, error)

	// ListByOperator retrieves all buses owned by an operator.
	ListByOperator(ctx context.Context, operatorID string) ([]*domain.Bus, error)
}
