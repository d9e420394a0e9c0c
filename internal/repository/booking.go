package repository

import (
	"context"
	"time"

	"partybus/internal/domain"
)

// BookingRepository defines the persistence operations for bookings.
type BookingRepository interface {
	// Create persists a new booking.
	Create(ctx context.Context, booking *domain.Booking) error

	// GetByID retrieves a booking by ID.
	GetByID(ctx context.Context, id string) (*domain.Booking, error)

	// GetAll retrieves bookings, most recent first.
	GetAll(ctx context.Context) ([]*domain.Booking, error)

	// GetNextForBus retrieves the next confirmed booking for a bus starting
	// after the given instant. Returns nil if none is scheduled.
	GetNextForBus(ctx context.Context, busID string, after time.Time) (*domain.Booking, error)

	// AddApprovedStopTotal atomically increments the booking's accumulated
	// approved-stop total.
	AddApprovedStopTotal(ctx context.Context, id string, amount float64) error
}
