package memory

import (
	"context"
	"sync"
	"time"

	"partybus/internal/domain"
	"partybus/internal/repository"
)

// StopRequestRepository is an in-memory implementation of
// repository.StopRequestRepository. Stop requests are transient records
// scoped to the life of a trip, so they are not persisted; the repository
// interface keeps the store swappable for a durable one.
//
// All state transitions happen under a single mutex, which makes Create's
// single-pending check and Decide's compare-and-set atomic.
type StopRequestRepository struct {
	mu        sync.RWMutex
	requests  map[string]*domain.StopRequest
	byBooking map[string][]string // request IDs in creation order
}

// NewStopRequestRepository creates an empty in-memory stop request store.
func NewStopRequestRepository() *StopRequestRepository {
	return &StopRequestRepository{
		requests:  make(map[string]*domain.StopRequest),
		byBooking: make(map[string][]string),
	}
}

// Create persists a new pending stop request. Returns repository.ErrConflict
// if another request for the same booking is still pending.
func (r *StopRequestRepository) Create(ctx context.Context, req *domain.StopRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range r.byBooking[req.BookingID] {
		if r.requests[id].Status == domain.StopStatusPending {
			return repository.ErrConflict
		}
	}

	stored := *req
	r.requests[req.ID] = &stored
	r.byBooking[req.BookingID] = append(r.byBooking[req.BookingID], req.ID)

	return nil
}

// GetByID retrieves a stop request by ID.
func (r *StopRequestRepository) GetByID(ctx context.Context, id string) (*domain.StopRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	req, ok := r.requests[id]
	if !ok {
		return nil, repository.ErrNotFound
	}

	out := *req
	return &out, nil
}

// ListByBooking retrieves all stop requests for a booking, most recent first.
func (r *StopRequestRepository) ListByBooking(ctx context.Context, bookingID string) ([]*domain.StopRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.byBooking[bookingID]
	out := make([]*domain.StopRequest, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		req := *r.requests[ids[i]]
		out = append(out, &req)
	}

	return out, nil
}

// Decide atomically transitions a pending request to a terminal status.
// Returns repository.ErrConflict if the request is no longer pending, so
// only one of a concurrent approve, deny, or timeout can win.
func (r *StopRequestRepository) Decide(ctx context.Context, id string, status domain.StopRequestStatus, decidedAt time.Time, denyReason string) (*domain.StopRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	req, ok := r.requests[id]
	if !ok {
		return nil, repository.ErrNotFound
	}

	if req.Status != domain.StopStatusPending {
		return nil, repository.ErrConflict
	}

	req.Status = status
	req.DecidedAt = decidedAt
	if status == domain.StopStatusDenied {
		req.DenyReason = denyReason
	}

	out := *req
	return &out, nil
}

// Ensure StopRequestRepository implements repository.StopRequestRepository.
var _ repository.StopRequestRepository = (*StopRequestRepository)(nil)
