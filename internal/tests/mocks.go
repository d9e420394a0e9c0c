package tests

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"partybus/internal/domain"
	"partybus/internal/redis"
	"partybus/internal/repository"
	"partybus/internal/routing"
)

// ──────────────────────────────────────────────
// MOCK BOOKING REPOSITORY
// ──────────────────────────────────────────────

// MockBookingRepository is a mock implementation of BookingRepository.
type MockBookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]*domain.Booking

	// Counters for verification
	CreateCallCount           int32
	AddApprovedTotalCallCount int32

	// Error injection
	CreateError           error
	GetNextForBusError    error
	AddApprovedTotalError error
}

// NewMockBookingRepository creates a new mock booking repository.
func NewMockBookingRepository() *MockBookingRepository {
	return &MockBookingRepository{
		bookings: make(map[string]*domain.Booking),
	}
}

// AddBooking adds a booking to the mock repository.
func (m *MockBookingRepository) AddBooking(booking *domain.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[booking.ID] = booking
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[booking.ID] = booking
	return nil
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	booking, ok := m.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *booking
	return &copy, nil
}

func (m *MockBookingRepository) GetAll(ctx context.Context) ([]*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Booking, 0, len(m.bookings))
	for _, b := range m.bookings {
		copy := *b
		result = append(result, &copy)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (m *MockBookingRepository) GetNextForBus(ctx context.Context, busID string, after time.Time) (*domain.Booking, error) {
	if m.GetNextForBusError != nil {
		return nil, m.GetNextForBusError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var next *domain.Booking
	for _, b := range m.bookings {
		if b.BusID != busID || b.Status != domain.BookingStatusConfirmed {
			continue
		}
		if !b.StartsAt.After(after) {
			continue
		}
		if next == nil || b.StartsAt.Before(next.StartsAt) {
			next = b
		}
	}
	if next == nil {
		return nil, nil
	}
	copy := *next
	return &copy, nil
}

func (m *MockBookingRepository) AddApprovedStopTotal(ctx context.Context, id string, amount float64) error {
	atomic.AddInt32(&m.AddApprovedTotalCallCount, 1)
	if m.AddApprovedTotalError != nil {
		return m.AddApprovedTotalError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	booking, ok := m.bookings[id]
	if !ok {
		return repository.ErrNotFound
	}
	booking.ApprovedStopsTotal += amount
	return nil
}

// GetBooking returns the stored booking for test assertions.
func (m *MockBookingRepository) GetBooking(id string) *domain.Booking {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bookings[id]
}

// ──────────────────────────────────────────────
// MOCK BUS REPOSITORY
// ──────────────────────────────────────────────

// MockBusRepository is a mock implementation of BusRepository.
type MockBusRepository struct {
	mu    sync.RWMutex
	buses map[string]*domain.Bus

	// Counters for verification
	CreateCallCount     int32
	ListActiveCallCount int32

	// Error injection
	CreateError     error
	ListActiveError error

	// Listings returned from ListActive.
	Listings []*domain.BusListing
}

// NewMockBusRepository creates a new mock bus repository.
func NewMockBusRepository() *MockBusRepository {
	return &MockBusRepository{
		buses: make(map[string]*domain.Bus),
	}
}

// AddBus adds a bus to the mock repository.
func (m *MockBusRepository) AddBus(bus *domain.Bus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.buses[bus.ID] = bus
}

func (m *MockBusRepository) Create(ctx context.Context, bus *domain.Bus) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.buses[bus.ID] = bus
	return nil
}

func (m *MockBusRepository) GetByID(ctx context.Context, id string) (*domain.Bus, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	bus, ok := m.buses[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *bus
	return &copy, nil
}

func (m *MockBusRepository) ListActive(ctx context.Context) ([]*domain.BusListing, error) {
	atomic.AddInt32(&m.ListActiveCallCount, 1)
	if m.ListActiveError != nil {
		return nil, m.ListActiveError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.Listings, nil
}

func (m *MockBusRepository) ListByOperator(ctx context.Context, operatorID string) ([]*domain.Bus, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Bus, 0)
	for _, b := range m.buses {
		if b.OperatorID == operatorID {
			copy := *b
			result = append(result, &copy)
		}
	}
	return result, nil
}

// ──────────────────────────────────────────────
// MOCK CUSTOMER REPOSITORY
// ──────────────────────────────────────────────

// MockCustomerRepository is a mock implementation of CustomerRepository.
type MockCustomerRepository struct {
	mu        sync.RWMutex
	customers map[string]*domain.Customer

	CreateCallCount int32
	CreateError     error
}

// NewMockCustomerRepository creates a new mock customer repository.
func NewMockCustomerRepository() *MockCustomerRepository {
	return &MockCustomerRepository{
		customers: make(map[string]*domain.Customer),
	}
}

// AddCustomer adds a customer to the mock repository.
func (m *MockCustomerRepository) AddCustomer(customer *domain.Customer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.customers[customer.ID] = customer
}

func (m *MockCustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.customers[customer.ID] = customer
	return nil
}

func (m *MockCustomerRepository) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.customers {
		if c.Email == email {
			copy := *c
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockCustomerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	customer, ok := m.customers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *customer
	return &copy, nil
}

// ──────────────────────────────────────────────
// MOCK OPERATOR REPOSITORY
// ──────────────────────────────────────────────

// MockOperatorRepository is a mock implementation of OperatorRepository.
type MockOperatorRepository struct {
	mu        sync.RWMutex
	operators map[string]*domain.Operator

	CreateCallCount      int32
	SetApprovedCallCount int32

	CreateError      error
	SetApprovedError error
}

// NewMockOperatorRepository creates a new mock operator repository.
func NewMockOperatorRepository() *MockOperatorRepository {
	return &MockOperatorRepository{
		operators: make(map[string]*domain.Operator),
	}
}

// AddOperator adds an operator to the mock repository.
func (m *MockOperatorRepository) AddOperator(operator *domain.Operator) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.operators[operator.ID] = operator
}

func (m *MockOperatorRepository) Create(ctx context.Context, operator *domain.Operator) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.operators[operator.ID] = operator
	return nil
}

func (m *MockOperatorRepository) GetByID(ctx context.Context, id string) (*domain.Operator, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	operator, ok := m.operators[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *operator
	return &copy, nil
}

func (m *MockOperatorRepository) GetAll(ctx context.Context) ([]*domain.Operator, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Operator, 0, len(m.operators))
	for _, o := range m.operators {
		copy := *o
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockOperatorRepository) SetApproved(ctx context.Context, id string) error {
	atomic.AddInt32(&m.SetApprovedCallCount, 1)
	if m.SetApprovedError != nil {
		return m.SetApprovedError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	operator, ok := m.operators[id]
	if !ok {
		return repository.ErrNotFound
	}
	operator.IsApproved = true
	return nil
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of LockStoreInterface.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]bool

	AcquireCallCount int32
	ReleaseCallCount int32

	// DenyAcquire makes every acquisition fail as already-held.
	DenyAcquire  bool
	AcquireError error
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{
		locks: make(map[string]bool),
	}
}

func (m *MockLockStore) AcquireStopCreationLock(ctx context.Context, bookingID string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	if m.DenyAcquire {
		return false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks[bookingID] {
		return false, nil
	}
	m.locks[bookingID] = true
	return true, nil
}

func (m *MockLockStore) ReleaseStopCreationLock(ctx context.Context, bookingID string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, bookingID)
	return nil
}

// ──────────────────────────────────────────────
// MOCK STATS STORE
// ──────────────────────────────────────────────

// MockStatsStore is a mock implementation of StatsStoreInterface.
type MockStatsStore struct {
	mu       sync.Mutex
	approved map[string]int64
	decided  map[string]int64

	RecordError error
}

// NewMockStatsStore creates a new mock stats store.
func NewMockStatsStore() *MockStatsStore {
	return &MockStatsStore{
		approved: make(map[string]int64),
		decided:  make(map[string]int64),
	}
}

func (m *MockStatsStore) RecordStopDecision(ctx context.Context, operatorID string, approved bool) error {
	if m.RecordError != nil {
		return m.RecordError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.decided[operatorID]++
	if approved {
		m.approved[operatorID]++
	}
	return nil
}

func (m *MockStatsStore) GetStopDecisionCounts(ctx context.Context, operatorID string) (int64, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.approved[operatorID], m.decided[operatorID], nil
}

// ──────────────────────────────────────────────
// MOCK CACHE STORE
// ──────────────────────────────────────────────

// MockCacheStore is a mock implementation of CacheStoreInterface.
type MockCacheStore struct {
	mu       sync.Mutex
	listings []redis.CachedBusListing
	hasValue bool

	GetCallCount        int32
	SetCallCount        int32
	InvalidateCallCount int32

	GetError error
	SetError error
}

// NewMockCacheStore creates a new mock cache store.
func NewMockCacheStore() *MockCacheStore {
	return &MockCacheStore{}
}

func (m *MockCacheStore) GetBusListings(ctx context.Context) ([]redis.CachedBusListing, error) {
	atomic.AddInt32(&m.GetCallCount, 1)
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.hasValue {
		return nil, nil
	}
	return m.listings, nil
}

func (m *MockCacheStore) SetBusListings(ctx context.Context, listings []redis.CachedBusListing) error {
	atomic.AddInt32(&m.SetCallCount, 1)
	if m.SetError != nil {
		return m.SetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listings = listings
	m.hasValue = true
	return nil
}

func (m *MockCacheStore) InvalidateBusListings(ctx context.Context) error {
	atomic.AddInt32(&m.InvalidateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listings = nil
	m.hasValue = false
	return nil
}

// ──────────────────────────────────────────────
// MOCK DETOUR ESTIMATOR
// ──────────────────────────────────────────────

// MockEstimator is a mock implementation of routing.Estimator.
type MockEstimator struct {
	DetourMinutes int

	CallCount int32

	// Error injection
	EstimateError error
}

func (m *MockEstimator) EstimateDetour(ctx context.Context, pickup, stopAddress string) (routing.Estimate, error) {
	atomic.AddInt32(&m.CallCount, 1)
	if m.EstimateError != nil {
		return routing.Estimate{}, m.EstimateError
	}
	return routing.Estimate{DetourMinutes: m.DetourMinutes}, nil
}

// Ensure mocks satisfy the interfaces they stand in for.
var (
	_ repository.BookingRepository  = (*MockBookingRepository)(nil)
	_ repository.BusRepository      = (*MockBusRepository)(nil)
	_ repository.CustomerRepository = (*MockCustomerRepository)(nil)
	_ repository.OperatorRepository = (*MockOperatorRepository)(nil)
	_ redis.LockStoreInterface      = (*MockLockStore)(nil)
	_ redis.StatsStoreInterface     = (*MockStatsStore)(nil)
	_ redis.CacheStoreInterface     = (*MockCacheStore)(nil)
	_ routing.Estimator             = (*MockEstimator)(nil)
)
