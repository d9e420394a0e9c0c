package repository

import (
	"context"
	"time"

	"partybus/internal/domain"
)

// StopRequestRepository defines the persistence operations for stop requests.
//
// Implementations must guarantee two invariants:
//   - at most one pending request per booking (Create fails with ErrConflict
//     while another request for the same booking is pending), and
//   - the pending→terminal transition happens at most once (Decide is a
//     compare-and-set that fails with ErrConflict once the request is
//     terminal), so driver decisions and the auto-decline timer cannot
//     both win.
type StopRequestRepository interface {
	// Create persists a new pending stop request.
	Create(ctx context.Context, req *domain.StopRequest) error

	// GetByID retrieves a stop request by ID.
	GetByID(ctx context.Context, id string) (*domain.StopRequest, error)

	// ListByBooking retrieves all stop requests for a booking, most
	// recent first.
	ListByBooking(ctx context.Context, bookingID string) ([]*domain.StopRequest, error)

	// Decide atomically transitions a pending request to the given terminal
	// status and returns the updated record. denyReason is ignored unless
	// the new status is denied.
	Decide(ctx context.Context, id string, status domain.StopRequestStatus, decidedAt time.Time, denyReason string) (*domain.StopRequest, error)
}
